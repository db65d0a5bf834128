package lsp

import (
	"context"
	"slices"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
	"github.com/rlch/psl/analysis"
)

// Completion handles textDocument/completion requests.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	cursor := analysis.NewCursor(doc.Content, fromPosition(params.Position))

	kind := determineCompletionKind(cursor)
	s.logger.Debug("Completion context", zap.String("kind", string(kind)))

	var items []protocol.CompletionItem

	switch kind {
	case CompletionKindNone:
		// No completions available at this position
	case CompletionKindBlockKeyword:
		items = completeBlockKeywords()
	case CompletionKindDatasourceField:
		items = completeProperties(cursor, datasourceProperties())
	case CompletionKindGeneratorField:
		items = completeProperties(cursor, generatorProperties())
	case CompletionKindProviderValue:
		items = completeProviders(cursor)
	case CompletionKindPreviewFeature:
		items = s.completePreviewFeatures(cursor)
	case CompletionKindFieldType:
		items = completeFieldTypes(cursor)
	case CompletionKindFieldAttribute:
		items = completeFieldAttributes(cursor)
	case CompletionKindDefaultFunction:
		items = completeDefaultFunctions()
	case CompletionKindBlockAttribute:
		items = completeBlockAttributes(cursor)
	case CompletionKindBlockFields, CompletionKindRelationFields:
		items = fieldItems(psl.FieldNames(cursor.Lines, cursor.Block, &cursor.Position), cursor.Block.Name)
	case CompletionKindRelationReferences:
		items = completeReferencedFields(cursor)
	case CompletionKindCompositeFields:
		items = completeCompositeFields(cursor)
	}

	// Filter by prefix if present
	items = filterByPrefix(items, cursor.Prefix())
	stripTypedAts(items, cursor)

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// CompletionKind indicates what kind of completion is expected at a position.
type CompletionKind string

const (
	// CompletionKindNone indicates no specific completion context.
	CompletionKindNone CompletionKind = "none"
	// CompletionKindBlockKeyword indicates a block keyword at the top level.
	CompletionKindBlockKeyword CompletionKind = "block_keyword"
	// CompletionKindDatasourceField indicates a property key in a datasource.
	CompletionKindDatasourceField CompletionKind = "datasource_field"
	// CompletionKindGeneratorField indicates a property key in a generator.
	CompletionKindGeneratorField CompletionKind = "generator_field"
	// CompletionKindProviderValue indicates the quoted value of provider.
	CompletionKindProviderValue CompletionKind = "provider_value"
	// CompletionKindPreviewFeature indicates an entry of the previewFeatures list.
	CompletionKindPreviewFeature CompletionKind = "preview_feature"
	// CompletionKindFieldType indicates the type of a field.
	CompletionKindFieldType CompletionKind = "field_type"
	// CompletionKindFieldAttribute indicates a field attribute such as @id.
	CompletionKindFieldAttribute CompletionKind = "field_attribute"
	// CompletionKindDefaultFunction indicates the argument of @default.
	CompletionKindDefaultFunction CompletionKind = "default_function"
	// CompletionKindBlockAttribute indicates a block attribute such as @@index.
	CompletionKindBlockAttribute CompletionKind = "block_attribute"
	// CompletionKindBlockFields indicates a field of the enclosing block inside a
	// block attribute list.
	CompletionKindBlockFields CompletionKind = "block_fields"
	// CompletionKindRelationFields indicates the fields: list of @relation.
	CompletionKindRelationFields CompletionKind = "relation_fields"
	// CompletionKindRelationReferences indicates the references: list of @relation.
	CompletionKindRelationReferences CompletionKind = "relation_references"
	// CompletionKindCompositeFields indicates a dotted path into composite types.
	CompletionKindCompositeFields CompletionKind = "composite_fields"
)

// determineCompletionKind figures out what kind of completions to offer.
func determineCompletionKind(c *analysis.Cursor) CompletionKind {
	if !c.InBlock {
		if c.FirstToken() {
			return CompletionKindBlockKeyword
		}

		return CompletionKindNone
	}

	if c.OnHeader() {
		return CompletionKindNone
	}

	switch c.Block.Type {
	case psl.DatasourceBlock, psl.GeneratorBlock:
		return configBlockCompletionKind(c)
	case psl.ModelBlock, psl.ViewBlock, psl.TypeBlock:
		return fieldBlockCompletionKind(c)
	case psl.EnumBlock:
		if strings.HasPrefix(strings.TrimSpace(c.Before), "@") && !c.InsideAttributeArgs() {
			return CompletionKindBlockAttribute
		}
	}

	return CompletionKindNone
}

func configBlockCompletionKind(c *analysis.Cursor) CompletionKind {
	trimmed := strings.TrimSpace(c.Before)

	switch {
	case c.Block.Type == psl.GeneratorBlock && strings.HasPrefix(trimmed, "previewFeatures") && c.InsideList():
		return CompletionKindPreviewFeature
	case strings.HasPrefix(trimmed, "provider") && c.InsideString():
		return CompletionKindProviderValue
	case c.InsideString():
		return CompletionKindNone
	case c.FirstToken():
		if c.Block.Type == psl.DatasourceBlock {
			return CompletionKindDatasourceField
		}

		return CompletionKindGeneratorField
	}

	return CompletionKindNone
}

func fieldBlockCompletionKind(c *analysis.Cursor) CompletionKind {
	if c.InsideString() {
		return CompletionKindNone
	}

	trimmed := strings.TrimSpace(c.Before)

	if strings.HasPrefix(trimmed, "@@") {
		switch {
		case c.InsideList():
			if _, _, ok := c.DottedPath(); ok {
				return CompletionKindCompositeFields
			}

			return CompletionKindBlockFields
		case c.InsideAttributeArgs():
			return CompletionKindNone
		}

		return CompletionKindBlockAttribute
	}

	if c.FirstToken() {
		if strings.HasPrefix(trimmed, "@") {
			return CompletionKindBlockAttribute
		}

		// A new field name: nothing to suggest.
		return CompletionKindNone
	}

	switch {
	case c.InsideProperty(analysis.PropertyFields):
		return CompletionKindRelationFields
	case c.InsideProperty(analysis.PropertyReferences):
		return CompletionKindRelationReferences
	case c.InsideAttributeArgs():
		if !c.InsideFieldArgument() && strings.HasPrefix(c.Words[len(c.Words)-1], "@default(") {
			return CompletionKindDefaultFunction
		}

		return CompletionKindNone
	case c.AfterFieldAndType():
		return CompletionKindFieldAttribute
	}

	return CompletionKindFieldType
}

// completeBlockKeywords returns the keywords that open a block.
func completeBlockKeywords() []protocol.CompletionItem {
	kinds := psl.BlockTypes()
	items := make([]protocol.CompletionItem, 0, len(kinds))

	for _, kind := range kinds {
		items = append(items, protocol.CompletionItem{
			Label:            string(kind),
			Kind:             protocol.CompletionItemKindKeyword,
			Detail:           "block",
			InsertText:       string(kind) + " ${1:Name} {\n\t$0\n}",
			InsertTextFormat: protocol.InsertTextFormatSnippet,
		})
	}

	return items
}

// completeProperties offers the property keys of a datasource or generator that
// the block does not assign yet.
func completeProperties(c *analysis.Cursor, props []property) []protocol.CompletionItem {
	present := psl.FieldNames(c.Lines, c.Block, &c.Position)

	items := make([]protocol.CompletionItem, 0, len(props))

	for _, p := range props {
		if slices.Contains(present, p.name) {
			continue
		}

		items = append(items, protocol.CompletionItem{
			Label:         p.name,
			Kind:          protocol.CompletionItemKindProperty,
			Detail:        string(c.Block.Type) + " property",
			Documentation: p.doc,
			InsertText:    p.name + " = ",
		})
	}

	return items
}

// completeProviders offers provider values for the enclosing block kind.
func completeProviders(c *analysis.Cursor) []protocol.CompletionItem {
	values := generatorProviders()
	if c.Block.Type == psl.DatasourceBlock {
		values = datasourceProviders()
	}

	items := make([]protocol.CompletionItem, 0, len(values))
	for _, v := range values {
		items = append(items, protocol.CompletionItem{
			Label:  v,
			Kind:   protocol.CompletionItemKindConstant,
			Detail: "provider",
		})
	}

	return items
}

// completePreviewFeatures offers the preview features not already enabled.
func (s *Server) completePreviewFeatures(c *analysis.Cursor) []protocol.CompletionItem {
	enabled := psl.PreviewFeatures(c.Lines, func(msg string) {
		s.logger.Debug("Ignoring malformed previewFeatures", zap.String("reason", msg))
	})

	quoted := c.InsideString()

	var items []protocol.CompletionItem

	for _, feature := range s.previewFeatureCatalog() {
		if slices.Contains(enabled, strings.ToLower(feature)) {
			continue
		}

		insert := feature
		if !quoted {
			insert = `"` + feature + `"`
		}

		items = append(items, protocol.CompletionItem{
			Label:      feature,
			Kind:       protocol.CompletionItemKindEnumMember,
			Detail:     "preview feature",
			InsertText: insert,
		})
	}

	return items
}

// completeFieldTypes offers scalar types and the models, views, enums and
// composite types declared in the document.
func completeFieldTypes(c *analysis.Cursor) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	for _, scalar := range scalarTypes() {
		items = append(items, protocol.CompletionItem{
			Label:  scalar,
			Kind:   protocol.CompletionItemKindTypeParameter,
			Detail: "scalar",
		})
	}

	for _, name := range psl.RelationNames(c.Lines) {
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   protocol.CompletionItemKindReference,
			Detail: "relation",
		})
	}

	if compositeTypesAllowed(c.Lines) {
		for _, name := range psl.CompositeTypeNames(c.Lines) {
			items = append(items, protocol.CompletionItem{
				Label:  name,
				Kind:   protocol.CompletionItemKindStruct,
				Detail: "composite type",
			})
		}
	}

	return items
}

// compositeTypesAllowed reports whether the datasource supports composite types.
// They only exist on MongoDB; an unknown provider allows them.
func compositeTypesAllowed(lines []string) bool {
	provider, ok := psl.DatasourceProvider(lines)

	return !ok || provider == "mongodb"
}

// completeFieldAttributes offers the field attributes not already on the line.
func completeFieldAttributes(c *analysis.Cursor) []protocol.CompletionItem {
	attrs := modelFieldAttributes()
	if c.Block.Type == psl.TypeBlock {
		attrs = compositeFieldAttributes()
	}

	items := make([]protocol.CompletionItem, 0, len(attrs))

	for _, a := range attrs {
		if strings.Contains(c.Line, a.name) {
			continue
		}

		items = append(items, a.item(protocol.CompletionItemKindProperty, "field attribute"))
	}

	return items
}

// completeDefaultFunctions offers the functions accepted by @default.
func completeDefaultFunctions() []protocol.CompletionItem {
	funcs := defaultFunctions()
	items := make([]protocol.CompletionItem, 0, len(funcs))

	for _, f := range funcs {
		items = append(items, f.item(protocol.CompletionItemKindFunction, "default value"))
	}

	return items
}

// completeBlockAttributes offers block attributes for the enclosing block kind.
func completeBlockAttributes(c *analysis.Cursor) []protocol.CompletionItem {
	var attrs []attribute

	switch c.Block.Type {
	case psl.EnumBlock:
		attrs = enumBlockAttributes()
	case psl.TypeBlock:
		return nil
	default:
		attrs = modelBlockAttributes()
		if provider, _ := psl.DatasourceProvider(c.Lines); provider == "mysql" || provider == "mongodb" {
			attrs = append(attrs, fulltextAttribute())
		}
	}

	items := make([]protocol.CompletionItem, 0, len(attrs))
	for _, a := range attrs {
		items = append(items, a.item(protocol.CompletionItemKindProperty, "block attribute"))
	}

	return items
}

// completeReferencedFields offers the fields of the model named by the type on
// the cursor's line.
func completeReferencedFields(c *analysis.Cursor) []protocol.CompletionItem {
	typ, ok := c.FieldLineType()
	if !ok {
		return nil
	}

	target, ok := psl.BlockByName(typ, c.Lines)
	if !ok {
		return nil
	}

	var cursor *psl.Position
	if target.Range == c.Block.Range {
		cursor = &c.Position
	}

	return fieldItems(psl.FieldNames(c.Lines, target, cursor), target.Name)
}

// completeCompositeFields offers the fields reached by following the dotted path
// before the cursor through composite types.
func completeCompositeFields(c *analysis.Cursor) []protocol.CompletionItem {
	path, _, ok := c.DottedPath()
	if !ok {
		return nil
	}

	idx := psl.FieldTypes(c.Lines, c.Block, &c.Position)

	return fieldItems(psl.ResolveCompositeFields(c.Lines, path, idx), strings.Join(path, "."))
}

func fieldItems(names []string, owner string) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   protocol.CompletionItemKindField,
			Detail: owner,
		})
	}

	return items
}

// filterByPrefix filters completion items by a prefix, ignoring the @ signs of
// attribute labels.
func filterByPrefix(items []protocol.CompletionItem, prefix string) []protocol.CompletionItem {
	if prefix == "" {
		return items
	}

	prefix = strings.ToLower(prefix)
	filtered := make([]protocol.CompletionItem, 0, len(items))

	for _, item := range items {
		label := strings.TrimLeft(item.Label, "@")
		if strings.HasPrefix(strings.ToLower(label), prefix) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

// stripTypedAts drops the @ signs the user already typed from attribute inserts.
func stripTypedAts(items []protocol.CompletionItem, c *analysis.Cursor) {
	before := strings.TrimSuffix(c.Before, c.Prefix())
	typed := len(before) - len(strings.TrimRight(before, "@"))

	if typed == 0 {
		return
	}

	for i := range items {
		if !strings.HasPrefix(items[i].Label, "@") {
			continue
		}

		insert := items[i].InsertText
		if insert == "" {
			insert = items[i].Label
		}

		items[i].InsertText = strings.TrimPrefix(insert, strings.Repeat("@", typed))
	}
}
