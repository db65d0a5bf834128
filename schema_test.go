package psl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/psl"
)

func TestDatasourceName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "simple", input: "datasource db {\n  provider = \"postgresql\"\n}", want: "db", wantOK: true},
		{name: "no space before brace", input: "datasource mongo{\n}", want: "mongo", wantOK: true},
		{name: "first of two", input: "datasource a {\n}\ndatasource b {\n}", want: "a", wantOK: true},
		{name: "header without brace is skipped", input: "datasource x\ndatasource y {\n}", want: "y", wantOK: true},
		{name: "no datasource", input: "model A {\n}", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := psl.DatasourceName(psl.Lines(tt.input))
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatasourceProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "provider first",
			input:  "datasource db {\n  provider = \"postgresql\"\n  url = env(\"DATABASE_URL\")\n}",
			want:   "postgresql",
			wantOK: true,
		},
		{
			name:   "provider after url",
			input:  "datasource db {\n  url = env(\"DATABASE_URL\")\n\n  provider = \"mongodb\"\n}",
			want:   "mongodb",
			wantOK: true,
		},
		{
			name:   "generator provider is ignored",
			input:  "generator client {\n  provider = \"prisma-client-js\"\n}\ndatasource db {\n  provider = \"mysql\"\n}",
			want:   "mysql",
			wantOK: true,
		},
		{
			name:   "no provider",
			input:  "datasource db {\n  url = env(\"DATABASE_URL\")\n}",
			wantOK: false,
		},
		{
			name:   "no datasource",
			input:  "generator client {\n  provider = \"prisma-client-js\"\n}",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := psl.DatasourceProvider(psl.Lines(tt.input))
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreviewFeatures(t *testing.T) {
	t.Parallel()

	t.Run("lowercased list", func(t *testing.T) {
		t.Parallel()

		lines := psl.Lines("generator client {\n  provider = \"prisma-client-js\"\n  previewFeatures = [\"fullTextSearch\", \"Views\"]\n}")
		assert.Equal(t, []string{"fulltextsearch", "views"}, psl.PreviewFeatures(lines, nil))
	})

	t.Run("invalid JSON is none declared", func(t *testing.T) {
		t.Parallel()

		var reports []string

		lines := psl.Lines("generator client {\n  previewFeatures = [oops]\n}")
		assert.Nil(t, psl.PreviewFeatures(lines, func(msg string) { reports = append(reports, msg) }))
		assert.Len(t, reports, 1)
	})

	t.Run("invalid JSON without a callback", func(t *testing.T) {
		t.Parallel()

		lines := psl.Lines("generator client {\n  previewFeatures = [oops]\n}")
		assert.Nil(t, psl.PreviewFeatures(lines, nil))
	})

	t.Run("non-string entries make the list undeclared", func(t *testing.T) {
		t.Parallel()

		var reports []string

		lines := psl.Lines("generator client {\n  previewFeatures = [\"views\", 1, \"metrics\", true]\n}")
		got := psl.PreviewFeatures(lines, func(msg string) { reports = append(reports, msg) })

		assert.Nil(t, got)
		assert.Len(t, reports, 2)
		assert.Nil(t, psl.PreviewFeatures(lines, nil))
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		lines := psl.Lines("generator client {\n  previewFeatures = []\n}")
		assert.Nil(t, psl.PreviewFeatures(lines, nil))
	})

	t.Run("none declared", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, psl.PreviewFeatures(psl.Lines("generator client {\n}"), nil))
	})
}

func TestHeaderNames(t *testing.T) {
	t.Parallel()

	lines := psl.Lines(`model User {
}
type Address {
}
enum Role {
}
view Stats {
}
type Geo{
}
model
  Split {
}`)

	assert.Equal(t, []string{"User", "Role", "Stats"}, psl.RelationNames(lines))
	// Headers split across lines are not recognized.
	assert.Equal(t, []string{"Address", "Geo"}, psl.CompositeTypeNames(lines))
}
