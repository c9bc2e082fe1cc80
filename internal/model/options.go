package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotAnObject is returned when an options blob is not a JSON object.
var ErrNotAnObject = errors.New("options blob must be a JSON object")

// Options is an ordered JSON object. Values are kept as raw JSON so fields
// this service does not recognize survive a load/repair/save cycle untouched.
// Keys keep the position of their first insertion.
type Options struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewOptions returns an empty options blob.
func NewOptions() *Options {
	return &Options{values: make(map[string]json.RawMessage)}
}

// ParseOptions decodes a stored blob.
func ParseOptions(data []byte) (*Options, error) {
	o := NewOptions()
	if err := o.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns the raw JSON stored under key.
func (o *Options) Get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores raw JSON under key.
func (o *Options) Set(key string, value json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = append(json.RawMessage(nil), value...)
}

// SetValue marshals v and stores it under key.
func (o *Options) SetValue(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal option %q: %w", key, err)
	}
	o.Set(key, raw)
	return nil
}

// Keys returns the keys in insertion order.
func (o *Options) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	c := NewOptions()
	for _, k := range o.keys {
		c.Set(k, o.values[k])
	}
	return c
}

// MarshalJSON encodes the blob preserving key order.
func (o *Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, o.values[k]); err != nil {
			return nil, fmt.Errorf("option %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of o with the decoded object. Duplicate
// keys keep their first position and last value.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotAnObject
	}

	o.keys = nil
	o.values = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode options: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode options: unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode option %q: %w", key, err)
		}
		o.Set(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}
