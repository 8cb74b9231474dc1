package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/fwojciec/stocargo"
)

// Ensure RecordStore implements stocargo.RecordStore at compile time.
var _ stocargo.RecordStore = (*RecordStore)(nil)

// RecordStore reads category exports from JSON files.
type RecordStore struct{}

// NewRecordStore creates a new RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Load parses the JSON array at path into records of category c.
// Records without any identifier are skipped. When a sidecar with a
// checksum sits next to the file, the file must match it.
func (s *RecordStore) Load(ctx context.Context, c stocargo.Category, path string) (*stocargo.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, stocargo.Errorf(stocargo.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return nil, stocargo.WrapError(stocargo.EMALFORMED, err, "failed to read %s", path)
	}

	if meta, err := ReadMeta(path); err == nil && meta.Checksum != "" {
		if sum := Checksum(data); sum != meta.Checksum {
			return nil, stocargo.Errorf(stocargo.EMALFORMED, "cache file %s is corrupted (checksum %s, expected %s)", path, sum, meta.Checksum)
		}
	}

	return ParseRecords(c, data)
}

// ParseRecords decodes a JSON array of objects into records of category c.
// Duplicate identifiers keep the fields of the last record.
func ParseRecords(c stocargo.Category, data []byte) (*stocargo.RecordSet, error) {
	var raw []stocargo.Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, stocargo.WrapError(stocargo.EMALFORMED, err, "%s data must be a JSON array of objects", describe(c))
	}

	set := stocargo.NewRecordSet(c)
	for _, r := range raw {
		id := r.ID(c)
		if id == "" {
			continue
		}
		set.Put(id, r)
	}
	return set, nil
}

func describe(c stocargo.Category) string {
	if c == "" {
		return "file"
	}
	return string(c)
}
