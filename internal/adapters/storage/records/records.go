// Package records implementa los repositorios de dominio sobre un recordstore.Store
// (memory, postgres, badger o Supabase REST).
package records

import (
	"encoding/json"
	"errors"
	"fmt"

	"health-directory/internal/ports/recordstore"
)

func decodeAll[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeOne[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode row: %w", err)
	}
	return v, nil
}

// mapNotFound traduce recordstore.ErrNotFound al sentinel del dominio.
func mapNotFound(err, domainErr error) error {
	if errors.Is(err, recordstore.ErrNotFound) {
		return domainErr
	}
	return err
}
