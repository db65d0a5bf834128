package lsp

import (
	"go.lsp.dev/protocol"
)

// property is a datasource or generator key offered in completions.
type property struct {
	name string
	doc  string
}

func datasourceProperties() []property {
	return []property{
		{name: "provider", doc: "Database connector, such as postgresql or mysql."},
		{name: "url", doc: "Connection URL, usually env(\"DATABASE_URL\")."},
		{name: "directUrl", doc: "Connection URL used by migrations when url points at a pooler."},
		{name: "shadowDatabaseUrl", doc: "Connection URL of the shadow database used by migrate dev."},
		{name: "relationMode", doc: "Whether relations are enforced by foreign keys or emulated."},
		{name: "extensions", doc: "PostgreSQL extensions managed by the schema."},
		{name: "schemas", doc: "Database schemas included in the data model."},
	}
}

func generatorProperties() []property {
	return []property{
		{name: "provider", doc: "Generator to run, such as prisma-client-js."},
		{name: "output", doc: "Directory the generated client is written to."},
		{name: "previewFeatures", doc: "Preview features enabled for this generator."},
		{name: "binaryTargets", doc: "Platforms the query engine is downloaded for."},
		{name: "engineType", doc: "Query engine flavour: library or binary."},
	}
}

func datasourceProviders() []string {
	return []string{"postgresql", "mysql", "sqlite", "sqlserver", "mongodb", "cockroachdb"}
}

func generatorProviders() []string {
	return []string{"prisma-client-js", "prisma-client"}
}

func knownPreviewFeatures() []string {
	return []string{
		"driverAdapters",
		"fullTextIndex",
		"fullTextSearchPostgres",
		"metrics",
		"multiSchema",
		"nativeDistinct",
		"postgresqlExtensions",
		"relationJoins",
		"strictUndefinedChecks",
		"views",
	}
}

func scalarTypes() []string {
	return []string{"String", "Boolean", "Int", "BigInt", "Float", "Decimal", "DateTime", "Json", "Bytes", "Unsupported"}
}

// attribute is an attribute or function offered in completions. insert is a
// snippet; an empty insert inserts the name.
type attribute struct {
	name   string
	insert string
	doc    string
}

func (a attribute) item(kind protocol.CompletionItemKind, detail string) protocol.CompletionItem {
	item := protocol.CompletionItem{
		Label:         a.name,
		Kind:          kind,
		Detail:        detail,
		Documentation: a.doc,
	}

	if a.insert != "" {
		item.InsertText = a.insert
		item.InsertTextFormat = protocol.InsertTextFormatSnippet
	}

	return item
}

func modelFieldAttributes() []attribute {
	return []attribute{
		{name: "@id", doc: "Marks the field as the primary key."},
		{name: "@unique", doc: "Adds a unique constraint."},
		{name: "@default", insert: "@default($0)", doc: "Sets a default value."},
		{name: "@relation", insert: "@relation(fields: [$1], references: [$2])", doc: "Configures a relation."},
		{name: "@map", insert: `@map("$0")`, doc: "Maps the field to a differently named column."},
		{name: "@updatedAt", doc: "Stores the time of the last update."},
		{name: "@ignore", doc: "Excludes the field from the client."},
		{name: "@db", insert: "@db.$0", doc: "Sets a native database type."},
	}
}

func compositeFieldAttributes() []attribute {
	return []attribute{
		{name: "@default", insert: "@default($0)", doc: "Sets a default value."},
		{name: "@map", insert: `@map("$0")`, doc: "Maps the field to a differently named key."},
		{name: "@db", insert: "@db.$0", doc: "Sets a native database type."},
	}
}

func defaultFunctions() []attribute {
	return []attribute{
		{name: "autoincrement", insert: "autoincrement()", doc: "Sequence of integers."},
		{name: "now", insert: "now()", doc: "Time of record creation."},
		{name: "uuid", insert: "uuid()", doc: "UUID v4."},
		{name: "cuid", insert: "cuid()", doc: "CUID."},
		{name: "nanoid", insert: "nanoid()", doc: "Nano ID."},
		{name: "ulid", insert: "ulid()", doc: "ULID."},
		{name: "dbgenerated", insert: `dbgenerated("$0")`, doc: "Value computed by the database."},
		{name: "auto", insert: "auto()", doc: "Object ID generated by MongoDB."},
	}
}

func modelBlockAttributes() []attribute {
	return []attribute{
		{name: "@@id", insert: "@@id([$0])", doc: "Composite primary key."},
		{name: "@@unique", insert: "@@unique([$0])", doc: "Composite unique constraint."},
		{name: "@@index", insert: "@@index([$0])", doc: "Index over one or more fields."},
		{name: "@@map", insert: `@@map("$0")`, doc: "Maps the block to a differently named table."},
		{name: "@@ignore", doc: "Excludes the block from the client."},
		{name: "@@schema", insert: `@@schema("$0")`, doc: "Database schema the block lives in."},
	}
}

func fulltextAttribute() attribute {
	return attribute{name: "@@fulltext", insert: "@@fulltext([$0])", doc: "Full text index."}
}

func enumBlockAttributes() []attribute {
	return []attribute{
		{name: "@@map", insert: `@@map("$0")`, doc: "Maps the enum to a differently named type."},
		{name: "@@schema", insert: `@@schema("$0")`, doc: "Database schema the enum lives in."},
	}
}
