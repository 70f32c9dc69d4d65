// Package docgen renders the world file's layer schema and the CLI's
// command reference to markdown, the way the reference implementation's
// src/commands/docs.rs builds a "World File Schema" doc from each
// layer's document_*_layer() description and a CLI reference from
// clap_markdown::help_markdown.
package docgen

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// FieldDoc describes one column of a layer table.
type FieldDoc struct {
	Name string
	Type string
}

// LayerDoc describes one layer (table) of the world file.
type LayerDoc struct {
	Name        string
	Description string
	Fields      []FieldDoc
}

// layerDescriptions gives each layer a one-line human description, the
// Go equivalent of each document_*_layer() function's free-text
// summary in the reference implementation.
var layerDescriptions = map[string]string{
	"tiles":       "The Voronoi tile graph: one row per tile, carrying its geometry, elevation, grouping, and every later stage's derived fields.",
	"points":      "Scaffolding: the Voronoi site for each tile, written by the tiles stage.",
	"triangles":   "Scaffolding table for the Delaunay triangulation; no stage writes rows to it.",
	"rivers":      "One row per river segment between two tiles, carrying direction and flow.",
	"lakes":       "One row per lake, with its elevation, type, size, temperature, and flow; its multipolygon column is not filled by any stage.",
	"biomes":      "The classification criteria table; its multipolygon column is not filled by any stage.",
	"cultures":    "One row per culture founded in stage 13, with its namer language, type, and (once dissolved) its territory.",
	"towns":       "One row per settlement placed in stage 14, capital or not, with its founding culture and site.",
	"nations":     "One row per nation founded in stage 15, with its founding culture, capital town, and (once dissolved) its territory.",
	"subnations":  "One row per subnation seated in stage 16, with its parent nation, seat town, and (once dissolved) its territory.",
	"coastlines":  "Land/water boundary polygons; no stage writes rows to it.",
	"oceans":      "Open-ocean polygons; no stage writes rows to it.",
	"properties":  "Key/value run metadata: extent, world shape, seed, and elevation limits, written once by the tiles stage and read by every later one.",
}

// layerOrder fixes the documentation's table order rather than using
// whatever order sqlite_master returns: tiles and its points/triangles
// scaffolding first, then the remaining layers alphabetically.
var layerOrder = []string{
	"tiles", "points", "triangles", "biomes", "coastlines", "cultures",
	"lakes", "nations", "oceans", "properties", "rivers", "subnations", "towns",
}

// DescribeSchema introspects the open world file's tables via
// PRAGMA table_info, so the generated doc can never drift out of sync
// with the schema store.createSchema actually creates.
func DescribeSchema(db *sql.DB) ([]LayerDoc, error) {
	present := map[string]bool{}
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, atlaserr.Backend("docgen", err, "listing tables")
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, atlaserr.Backend("docgen", err, "scanning table name")
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var docs []LayerDoc
	for _, name := range layerOrder {
		if !present[name] {
			continue
		}
		fields, err := tableFields(db, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, LayerDoc{
			Name:        name,
			Description: layerDescriptions[name],
			Fields:      fields,
		})
	}
	return docs, nil
}

func tableFields(db *sql.DB, table string) ([]FieldDoc, error) {
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	if err != nil {
		return nil, atlaserr.Backend("docgen", err, "reading %s schema", table)
	}
	defer rows.Close()

	var fields []FieldDoc
	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, atlaserr.Backend("docgen", err, "scanning %s column", table)
		}
		fields = append(fields, FieldDoc{Name: name, Type: ctype})
	}
	return fields, rows.Err()
}

// WriteSchemaMarkdown renders docs as the world file's schema reference.
func WriteSchemaMarkdown(w io.Writer, docs []LayerDoc) error {
	if _, err := fmt.Fprintln(w, "# World File Schema"); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The world file is a single SQLite database, one table per layer. "+
		"Every layer's `id` column is a stable integer handle: tiles, lakes, biomes, "+
		"cultures, towns, nations, and subnations all refer to each other by id rather "+
		"than by a nested structure, so a layer can be read back and rejoined in any order.")
	fmt.Fprintln(w)

	for _, doc := range docs {
		fmt.Fprintf(w, "## Layer `%s`\n\n", doc.Name)
		if doc.Description != "" {
			fmt.Fprintf(w, "%s\n\n", doc.Description)
		}
		for _, f := range doc.Fields {
			fmt.Fprintf(w, "- `%s` (%s)\n", f.Name, f.Type)
		}
		fmt.Fprintln(w)
	}
	return nil
}
