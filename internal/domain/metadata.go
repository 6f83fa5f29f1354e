package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"time"
)

// Metadata is an insertion-ordered map of header fields. Writing an existing
// key removes it and appends it again, so the last write also decides the
// key's position.
type Metadata struct {
	keys   []string
	values map[string]any
}

// NewMetadata returns an empty Metadata.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// Set stores value under key. Values are int, float64, time.Time or string.
func (m *Metadata) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; ok {
		if i := slices.Index(m.keys, key); i >= 0 {
			m.keys = slices.Delete(m.keys, i, i+1)
		}
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
}

// Get returns the raw value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Int returns key as an int. It reports false if key is absent or not an int.
func (m *Metadata) Int(key string) (int, bool) {
	v, ok := m.values[key].(int)
	return v, ok
}

// Float returns key as a float64.
func (m *Metadata) Float(key string) (float64, bool) {
	v, ok := m.values[key].(float64)
	return v, ok
}

// Time returns key as a time.Time.
func (m *Metadata) Time(key string) (time.Time, bool) {
	v, ok := m.values[key].(time.Time)
	return v, ok
}

// String returns key as a passthrough string.
func (m *Metadata) String(key string) (string, bool) {
	v, ok := m.values[key].(string)
	return v, ok
}

// Len returns the number of distinct keys.
func (m *Metadata) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string { return slices.Clone(m.keys) }

// All iterates over the entries in insertion order.
func (m *Metadata) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the entries as a JSON object, keeping insertion order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal metadata %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatValue renders a metadata value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.DateTime)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}
