// Package codec serializes documents and the key index to the string values
// held by a storage adapter.
package codec

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/arthur-debert/nanofire/types"
)

// Codec converts documents and key lists to and from stored strings
type Codec interface {
	EncodeDocument(doc types.Document) (string, error)
	DecodeDocument(data string) (types.Document, error)
	EncodeKeys(keys []string) (string, error)
	DecodeKeys(data string) ([]string, error)
}

// JSON is the default Codec. Numbers decode as int64 when integral and
// float64 otherwise, so stored integers keep their integer ordering.
type JSON struct {
	api jsoniter.API
}

// NewJSON creates a JSON codec
func NewJSON() *JSON {
	return &JSON{
		api: jsoniter.Config{
			EscapeHTML:             false,
			SortMapKeys:            true,
			UseNumber:              true,
			ValidateJsonRawMessage: true,
		}.Froze(),
	}
}

// EncodeDocument implements Codec.EncodeDocument
func (c *JSON) EncodeDocument(doc types.Document) (string, error) {
	data, err := c.api.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(data), nil
}

// DecodeDocument implements Codec.DecodeDocument
func (c *JSON) DecodeDocument(data string) (types.Document, error) {
	var raw map[string]interface{}
	if err := c.api.UnmarshalFromString(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if raw == nil {
		// "null" was stored
		return nil, nil
	}
	return types.Document(normalize(raw).(map[string]interface{})), nil
}

// EncodeKeys implements Codec.EncodeKeys
func (c *JSON) EncodeKeys(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	data, err := c.api.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("failed to encode key index: %w", err)
	}
	return string(data), nil
}

// DecodeKeys implements Codec.DecodeKeys
func (c *JSON) DecodeKeys(data string) ([]string, error) {
	var keys []string
	if err := c.api.UnmarshalFromString(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode key index: %w", err)
	}
	return keys, nil
}

// DecodeValue decodes a single JSON value with the same number handling as
// DecodeDocument
func (c *JSON) DecodeValue(data string) (interface{}, error) {
	var v interface{}
	if err := c.api.UnmarshalFromString(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return normalize(v), nil
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}
