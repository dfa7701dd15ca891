package browserenv

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gobwas/glob"
)

// Capabilities is an ordered mapping of desired session properties.
//
// Values are strings, bools, ints, []string, nested *Capabilities or nil.
// Keys keep their first insertion position, so the JSON encoding of equal
// inputs is byte-identical. A nil *Capabilities reads as empty.
type Capabilities struct {
	keys   []string
	values map[string]any
}

// NewCapabilities returns an empty mapping.
func NewCapabilities() *Capabilities {
	return &Capabilities{values: make(map[string]any)}
}

// Set stores value under key. An existing key keeps its position.
func (c *Capabilities) Set(key string, value any) *Capabilities {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	return c
}

// Get returns the value stored under key.
func (c *Capabilities) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.values[key]
	return value, ok
}

// GetString returns the value under key if it is a string.
func (c *Capabilities) GetString(key string) (string, bool) {
	value, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// Has reports whether key is set.
func (c *Capabilities) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (c *Capabilities) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of keys.
func (c *Capabilities) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Update copies every entry of other into c, in other's order.
func (c *Capabilities) Update(other *Capabilities) *Capabilities {
	if other == nil {
		return c
	}
	for _, key := range other.keys {
		c.Set(key, other.values[key])
	}
	return c
}

// Clone returns a deep copy. Nested mappings and string slices are copied.
func (c *Capabilities) Clone() *Capabilities {
	if c == nil {
		return nil
	}
	out := NewCapabilities()
	for _, key := range c.keys {
		out.Set(key, cloneValue(c.values[key]))
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case *Capabilities:
		return v.Clone()
	case []string:
		return append([]string{}, v...)
	default:
		return v
	}
}

// Map converts c into plain maps for clients that take map[string]any.
// Nested mappings are converted recursively.
func (c *Capabilities) Map() map[string]any {
	if c == nil {
		return nil
	}
	out := make(map[string]any, len(c.keys))
	for _, key := range c.keys {
		value := c.values[key]
		if nested, ok := value.(*Capabilities); ok {
			out[key] = nested.Map()
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

// MarshalJSON encodes c as a JSON object in insertion order.
func (c *Capabilities) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.values[key])
		if err != nil {
			return nil, fmt.Errorf("capability %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON encoding, for logs.
func (c *Capabilities) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid capabilities: %v>", err)
	}
	return string(data)
}

// secretKeys matches capability keys whose values must not be logged.
var secretKeys = glob.MustCompile("{accessKey,*[Kk]ey,*[Pp]assword*,*[Ss]ecret*,*[Tt]oken*}")

const redactedValue = "********"

// Redacted returns a deep copy with credential values masked.
func (c *Capabilities) Redacted() *Capabilities {
	if c == nil {
		return nil
	}
	out := NewCapabilities()
	for _, key := range c.keys {
		value := c.values[key]
		switch v := value.(type) {
		case *Capabilities:
			out.Set(key, v.Redacted())
		case string:
			if v != "" && secretKeys.Match(key) {
				out.Set(key, redactedValue)
				continue
			}
			out.Set(key, v)
		default:
			out.Set(key, cloneValue(v))
		}
	}
	return out
}
