package pdfrules

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ItemsKey is the reserved result key holding the item list.
const ItemsKey = "items"

// Fields maps field names to extracted values in insertion order.
// A nil value means the field was evaluated but produced no value.
type Fields struct {
	m *orderedmap.OrderedMap[string, *string]
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{m: orderedmap.New[string, *string]()}
}

func (f *Fields) init() {
	if f.m == nil {
		f.m = orderedmap.New[string, *string]()
	}
}

// Set stores value under name. Existing keys keep their position.
func (f *Fields) Set(name string, value *string) {
	f.init()
	f.m.Set(name, value)
}

// Get returns the value for name and whether the key is present.
func (f *Fields) Get(name string) (*string, bool) {
	if f == nil || f.m == nil {
		return nil, false
	}
	return f.m.Get(name)
}

// Has reports whether name is present.
func (f *Fields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil || f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	keys := make([]string, 0, f.Len())
	if f == nil || f.m == nil {
		return keys
	}
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	f.init()
	return f.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (f *Fields) UnmarshalJSON(data []byte) error {
	f.m = orderedmap.New[string, *string]()
	return f.m.UnmarshalJSON(data)
}

// Result is the structured record extracted from one document: header
// fields in rule order followed by the item list.
type Result struct {
	Header *Fields
	Items  []*Fields
}

// NewResult returns an empty result with no header fields and no items.
func NewResult() *Result {
	return &Result{Header: NewFields(), Items: []*Fields{}}
}

// MarshalJSON encodes the result as a flat object whose last key is "items".
// A header field named "items" is shadowed by the item list.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, any]()
	if r.Header != nil {
		for _, name := range r.Header.Keys() {
			value, _ := r.Header.Get(name)
			out.Set(name, value)
		}
	}
	items := r.Items
	if items == nil {
		items = []*Fields{}
	}
	out.Delete(ItemsKey)
	out.Set(ItemsKey, items)
	return out.MarshalJSON()
}

// UnmarshalJSON decodes a stored result.
func (r *Result) UnmarshalJSON(data []byte) error {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}

	r.Header = NewFields()
	r.Items = []*Fields{}
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == ItemsKey {
			var items []json.RawMessage
			if err := json.Unmarshal(pair.Value, &items); err != nil {
				return fmt.Errorf("failed to decode items: %w", err)
			}
			for _, item := range items {
				fields := NewFields()
				if err := fields.UnmarshalJSON(item); err != nil {
					return fmt.Errorf("failed to decode item: %w", err)
				}
				r.Items = append(r.Items, fields)
			}
			continue
		}

		var value *string
		if err := json.Unmarshal(pair.Value, &value); err != nil {
			return fmt.Errorf("failed to decode field %q: %w", pair.Key, err)
		}
		r.Header.Set(pair.Key, value)
	}
	return nil
}

// String returns a pointer to s. It is a convenience for building field values.
func String(s string) *string {
	return &s
}
