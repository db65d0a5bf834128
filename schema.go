package psl

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// datasourceProviderRegexp matches the first datasource block whose body assigns
	// a quoted provider, anywhere in the body.
	datasourceProviderRegexp = regexp.MustCompile(`(?s)datasource[^{\n]*\{[^}]*?\bprovider\s*=\s*"([^"\n]*)"[^}]*\}`)

	// previewFeaturesRegexp captures the bracketed list assigned to previewFeatures.
	previewFeaturesRegexp = regexp.MustCompile(`previewFeatures\s*=\s*(\[.*\])`)

	// Block headers written entirely on one trimmed line.
	relationHeaderRegexp  = regexp.MustCompile(`^(model|enum|view)\s+(\w+)\s*\{`)
	compositeHeaderRegexp = regexp.MustCompile(`^(type)\s+(\w+)\s*\{`)
)

// DatasourceName returns the name of the first datasource block.
func DatasourceName(lines []string) (string, bool) {
	keyword := string(DatasourceBlock)

	for _, line := range lines {
		if !strings.HasPrefix(line, keyword) {
			continue
		}

		brace := strings.IndexByte(line, '{')
		if brace < len(keyword) {
			continue
		}

		name := strings.TrimSpace(line[len(keyword):brace])
		if name == "" {
			return "", false
		}

		return name, true
	}

	return "", false
}

// DatasourceProvider returns the provider declared in the first datasource block
// that declares one, such as "postgresql" or "mongodb".
func DatasourceProvider(lines []string) (string, bool) {
	m := datasourceProviderRegexp.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil || m[1] == "" {
		return "", false
	}

	return m[1], true
}

// PreviewFeatures returns the lowercased preview features of the first
// previewFeatures assignment in the document, or nil when none are declared.
//
// The list must be a JSON array of strings. Anything else counts as none
// declared; report, when non-nil, receives a message for each problem found.
func PreviewFeatures(lines []string, report func(string)) []string {
	m := previewFeaturesRegexp.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return nil
	}

	var raw []any

	err := json.Unmarshal([]byte(m[1]), &raw)
	if err != nil {
		if report != nil {
			report(fmt.Sprintf("previewFeatures %s is not a valid list: %v", m[1], err))
		}

		return nil
	}

	var (
		features  []string
		malformed bool
	)

	for _, entry := range raw {
		name, ok := entry.(string)
		if !ok {
			if report != nil {
				report(fmt.Sprintf("previewFeatures entry %v is not a string", entry))
			}

			malformed = true

			continue
		}

		features = append(features, strings.ToLower(name))
	}

	if malformed {
		return nil
	}

	return features
}

// RelationNames returns the names of every model, view and enum declared with a
// single-line header, in document order.
func RelationNames(lines []string) []string {
	return headerNames(lines, relationHeaderRegexp)
}

// CompositeTypeNames returns the names of every composite type declared with a
// single-line header, in document order.
func CompositeTypeNames(lines []string) []string {
	return headerNames(lines, compositeHeaderRegexp)
}

func headerNames(lines []string, re *regexp.Regexp) []string {
	var names []string

	for _, line := range lines {
		if m := re.FindStringSubmatch(line); m != nil {
			names = append(names, m[2])
		}
	}

	return names
}
