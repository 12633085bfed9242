package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValueKind tags one node of a decoded package.json value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindArray
	KindObject
	// KindOther covers numbers, booleans and null, none of which
	// participate in resolution.
	KindOther
)

// Value is a dynamically-typed package.json node. Real-world manifests are
// heterogeneous by design (the exports field in particular nests strings,
// arrays and condition maps arbitrarily), so no static shape is attempted.
//
// Object keys preserve source order: wildcard subpath matching uses the
// first syntactically matching pattern key, which encoding/json's map type
// would randomize.
type Value struct {
	Kind ValueKind

	str    string
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// Str returns the string payload and whether the node is a string.
func (v *Value) Str() (string, bool) {
	if v == nil || v.Kind != KindString {
		return "", false
	}
	return v.str, true
}

// Get returns the named field of an object node, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	return v.fields[key]
}

// Keys returns an object node's keys in source order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	return v.keys
}

// Items returns an array node's elements.
func (v *Value) Items() []*Value {
	if v == nil || v.Kind != KindArray {
		return nil
	}
	return v.items
}

// GetString returns the first of the named fields that holds a string.
func (v *Value) GetString(keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := v.Get(key).Str(); ok {
			return s, true
		}
	}
	return "", false
}

// ReadManifest reads and decodes <dir>/package.json. Callers tolerate the
// error by proceeding as if no manifest exists: many valid packages resolve
// through fallback paths without one.
func ReadManifest(dir string) (*Value, error) {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v, nil
}

// decodeValue consumes one JSON value from the token stream, keeping object
// key order.
func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := &Value{Kind: KindObject, fields: make(map[string]*Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				if _, dup := v.fields[key]; !dup {
					v.keys = append(v.keys, key)
				}
				v.fields[key] = child
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return v, nil
		case '[':
			v := &Value{Kind: KindArray}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				v.items = append(v.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return v, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return &Value{Kind: KindString, str: t}, nil
	default:
		return &Value{Kind: KindOther}, nil
	}
}
