package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanofire/nanofire"
	"github.com/arthur-debert/nanofire/types"
)

var json = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

// Supported output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer renders command results in the configured format
type printer struct {
	w      io.Writer
	format string
	quiet  bool
}

func newPrinter(w io.Writer, format string, quiet bool) (*printer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &printer{w: w, format: format, quiet: quiet}, nil
	}
	return nil, NewValidationError("configure output", "format", format,
		"Use --format table, json or yaml")
}

// documents prints a list of documents; the table has one row each
func (p *printer) documents(docs []nanofire.Document) error {
	if docs == nil {
		docs = []nanofire.Document{}
	}
	switch p.format {
	case formatJSON:
		return p.encodeJSON(docs)
	case formatYAML:
		return p.encodeYAML(docs)
	}
	return p.table(docs)
}

// document prints a single document
func (p *printer) document(doc nanofire.Document) error {
	switch p.format {
	case formatJSON:
		return p.encodeJSON(doc)
	case formatYAML:
		return p.encodeYAML(doc)
	}
	return p.table([]nanofire.Document{doc})
}

// names prints a list of plain strings, one per line in table mode
func (p *printer) names(names []string) error {
	if names == nil {
		names = []string{}
	}
	switch p.format {
	case formatJSON:
		return p.encodeJSON(names)
	case formatYAML:
		return p.encodeYAML(names)
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(p.w, name); err != nil {
			return err
		}
	}
	return nil
}

// result prints the outcome of a mutation: fields for json/yaml, a
// sentence for the table format
func (p *printer) result(fields map[string]interface{}, text string) error {
	switch p.format {
	case formatJSON:
		return p.encodeJSON(fields)
	case formatYAML:
		return p.encodeYAML(fields)
	}
	_, err := fmt.Fprintln(p.w, text)
	return err
}

func (p *printer) encodeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}

func (p *printer) encodeYAML(v interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// table prints documents with the id column first and the remaining
// fields sorted by name
func (p *printer) table(docs []nanofire.Document) error {
	columns := tableColumns(docs)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if !p.quiet {
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	}
	for _, doc := range docs {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = formatCell(doc, col)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func tableColumns(docs []nanofire.Document) []string {
	seen := map[string]bool{types.IDField: true}
	var fields []string
	for _, doc := range docs {
		for field := range doc {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
	}
	sort.Strings(fields)
	return append([]string{types.IDField}, fields...)
}

func formatCell(doc nanofire.Document, field string) string {
	v, present := doc.Get(field)
	if !present {
		return "-"
	}
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
