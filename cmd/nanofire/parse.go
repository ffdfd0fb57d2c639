package main

import (
	"io"
	"strings"

	"github.com/arthur-debert/nanofire/nanofire"
	"github.com/arthur-debert/nanofire/nanofire/codec"
)

var valueCodec = codec.NewJSON()

// parseWhere turns "field:op:value" into a filter stage.
// The value is decoded as JSON; anything that is not valid JSON is taken
// as a plain string, so name:==:Mike and name:==:"Mike" are equivalent.
func parseWhere(expr string) (nanofire.Stage, error) {
	parts := strings.SplitN(expr, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nanofire.Stage{}, NewFilterError("parse filter", expr, "expected field:operator:value")
	}

	stage := nanofire.Where(parts[0], parts[1], parseValue(parts[2]))
	if err := stage.Err(); err != nil {
		return nanofire.Stage{}, NewFilterError("parse filter", expr, err.Error())
	}
	return stage, nil
}

// parseOrder turns "field" or "field:asc|desc" into an order stage
func parseOrder(expr string) (nanofire.Stage, error) {
	field, dir, _ := strings.Cut(expr, ":")
	if field == "" {
		return nanofire.Stage{}, NewFilterError("parse order", expr, "missing field")
	}

	stage := nanofire.OrderBy(field, nanofire.Direction(strings.ToLower(dir)))
	if err := stage.Err(); err != nil {
		return nanofire.Stage{}, NewFilterError("parse order", expr, err.Error())
	}
	return stage, nil
}

func parseValue(raw string) interface{} {
	v, err := valueCodec.DecodeValue(raw)
	if err != nil {
		return raw
	}
	return v
}

// parseDocument decodes a JSON object argument. "-" reads it from stdin.
func parseDocument(raw string, stdin io.Reader) (nanofire.Document, error) {
	if raw == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, NewValidationError("read document", "stdin", err.Error())
		}
		raw = string(data)
	}

	doc, err := valueCodec.DecodeDocument(raw)
	if err != nil || doc == nil {
		return nil, NewValidationError("parse document", "document", raw, CommonSuggestions.CheckJSON)
	}
	return doc, nil
}

// buildStages assembles the pipeline in a fixed order: filters, orders,
// then skip and limit when set
func buildStages(wheres, orders []string, skip, limit int) ([]nanofire.Stage, error) {
	var stages []nanofire.Stage
	for _, expr := range wheres {
		stage, err := parseWhere(expr)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	for _, expr := range orders {
		stage, err := parseOrder(expr)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	if skip > 0 {
		stages = append(stages, nanofire.Skip(skip))
	}
	if limit >= 0 {
		stages = append(stages, nanofire.Limit(limit))
	}
	return stages, nil
}
