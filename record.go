package stocargo

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Record is one row of a Cargo export, keyed by field name.
// Values are whatever the JSON decoder produced: string, float64, bool,
// nil, or nested []any / map[string]any.
type Record map[string]any

// Has reports whether the record carries the field, even if its value is null.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// String returns the field value as text. Missing and null fields return "".
func (r Record) String(field string) string {
	return stringify(r[field])
}

// Truthy reports whether the field holds a true-ish value.
// Cargo exports booleans as 0/1, sometimes quoted.
func (r Record) Truthy(field string) bool {
	switch v := r[field].(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "no", "false":
			return false
		}
		return true
	}
	return true
}

// Name returns the human-readable name of the record.
func (r Record) Name() string {
	for _, field := range []string{"name", "doff_specialization", "Page"} {
		if s := r.String(field); s != "" {
			return s
		}
	}
	return ""
}

// ID returns the identifier of the record within category c.
// It falls back to the name and then the page name when the category's
// identifier field is empty. Returns "" if none are set.
func (r Record) ID(c Category) string {
	if s := r.String(c.IDField()); s != "" {
		return s
	}
	return r.Name()
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// RecordSet is an ordered mapping from identifier to record.
// Iteration order is the order in which identifiers were first added.
type RecordSet struct {
	Category Category

	ids     []string
	records map[string]Record
}

// NewRecordSet returns an empty set for category c.
func NewRecordSet(c Category) *RecordSet {
	return &RecordSet{
		Category: c,
		records:  make(map[string]Record),
	}
}

// Put adds the record under id. A record already stored under the same id
// is replaced, but keeps its original position.
func (s *RecordSet) Put(id string, r Record) {
	if _, ok := s.records[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.records[id] = r
}

// Get returns the record stored under id.
func (s *RecordSet) Get(id string) (Record, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Len returns the number of distinct records.
func (s *RecordSet) Len() int {
	return len(s.ids)
}

// IDs returns the identifiers in iteration order.
func (s *RecordSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Records returns the records in iteration order.
func (s *RecordSet) Records() []Record {
	out := make([]Record, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.records[id]
	}
	return out
}

// RecordStore loads cached category files.
type RecordStore interface {
	// Load parses the file at path into records of category c.
	// Returns ENOTFOUND if the file does not exist and EMALFORMED if it
	// cannot be parsed as a JSON array of objects.
	Load(ctx context.Context, c Category, path string) (*RecordSet, error)
}
