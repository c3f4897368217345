package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Conventional field names. None of them are guaranteed to be present.
const (
	FieldUID         = "uid"
	FieldName        = "name"
	FieldClass       = "class"
	FieldRollNumber  = "roll_number"
	FieldDateOfBirth = "date_of_birth"
	FieldFatherName  = "father_name"
	FieldMotherName  = "mother_name"
	FieldMobile      = "mobile"
	FieldAddress     = "address"
	FieldPhotoURL    = "photo_url"
	FieldIDNumber    = "id_number"
	FieldBloodGroup  = "blood_group"
)

// Record is one student row: an ordered mapping from field name to value.
//
// The zero value is an empty record. Keys keep the position of their first
// appearance; setting an existing key replaces its value in place.
type Record struct {
	keys   []string
	values map[string]string
}

func newRecord(capacity int) Record {
	return Record{
		keys:   make([]string, 0, capacity),
		values: make(map[string]string, capacity),
	}
}

// NewRecord builds a record from alternating key, value pairs.
// It panics on an odd number of arguments.
func NewRecord(kv ...string) Record {
	if len(kv)%2 != 0 {
		panic("roster.NewRecord: odd number of arguments")
	}
	rec := newRecord(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		rec.set(kv[i], kv[i+1])
	}
	return rec
}

func (r *Record) set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (r Record) Value(key string) string {
	return r.values[key]
}

// Has reports whether key is present, even with an empty value.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the field names in column order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Map returns a copy of the fields as a plain map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// String renders the record as {k:"v", ...} in column order.
func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%q", k, r.values[k])
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the record as a JSON object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping key order.
// A JSON null leaves the record unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}

	rec := newRecord(8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode record: expected key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode record field %q: %w", key, err)
		}
		rec.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	*r = rec
	return nil
}
