package docgen

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteSchemaMarkdownListsLayersAndFields(t *testing.T) {
	docs := []LayerDoc{
		{
			Name:        "tiles",
			Description: "The Voronoi tile graph.",
			Fields: []FieldDoc{
				{Name: "id", Type: "INTEGER"},
				{Name: "elevation", Type: "REAL"},
			},
		},
		{
			Name:        "lakes",
			Description: "One row per lake.",
			Fields:      []FieldDoc{{Name: "id", Type: "INTEGER"}},
		},
	}

	var buf bytes.Buffer
	if err := WriteSchemaMarkdown(&buf, docs); err != nil {
		t.Fatalf("WriteSchemaMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"## Layer `tiles`",
		"The Voronoi tile graph.",
		"- `id` (INTEGER)",
		"- `elevation` (REAL)",
		"## Layer `lakes`",
		"One row per lake.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Index(out, "## Layer `tiles`") > strings.Index(out, "## Layer `lakes`") {
		t.Fatalf("expected tiles section before lakes section, got:\n%s", out)
	}
}

func TestWriteSchemaMarkdownEmptyLayersStillHeadsDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSchemaMarkdown(&buf, nil); err != nil {
		t.Fatalf("WriteSchemaMarkdown: %v", err)
	}
	if !strings.Contains(buf.String(), "# World File Schema") {
		t.Fatalf("expected a document title even with no layers, got:\n%s", buf.String())
	}
}
