package recordstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Row es una fila decodificada.
type Row map[string]any

func Decode(raw json.RawMessage) (Row, error) {
	var r Row
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: row is not an object", ErrInvalidQuery)
	}
	return r, nil
}

// ToRow convierte structs o maps en Row usando sus tags json.
func ToRow(v any) (Row, error) {
	switch t := v.(type) {
	case Row:
		return t, nil
	case json.RawMessage:
		return Decode(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return Decode(b)
}

func (r Row) ID() (string, error) {
	id, ok := r["id"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: row without string id", ErrInvalidQuery)
	}
	return id, nil
}

func (r Row) Raw() json.RawMessage {
	b, _ := json.Marshal(r)
	return b
}

// Merge aplica patch sobre la fila; el id no se puede cambiar.
func (r Row) Merge(patch Row) Row {
	out := make(Row, len(r)+len(patch))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// Matches compara por codificación JSON para que 5 == json.Number("5").
func (r Row) Matches(filters []Filter) bool {
	for _, f := range filters {
		got, _ := json.Marshal(r[f.Column])
		want, _ := json.Marshal(f.Value)
		if !bytes.Equal(got, want) {
			return false
		}
	}
	return true
}

// SortRows ordena estable según order; nulls al final.
func SortRows(rows []Row, order []Order) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			c := compare(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if rows[i][o.Column] == nil || rows[j][o.Column] == nil {
				return c < 0
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// Apply filtra, ordena y limita en memoria (backends sin motor de consultas).
func Apply(rows []Row, q Query) []json.RawMessage {
	matched := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Matches(q.Filters) {
			matched = append(matched, r)
		}
	}
	SortRows(matched, q.Order)
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	out := make([]json.RawMessage, 0, len(matched))
	for _, r := range matched {
		out = append(out, r.Raw())
	}
	return out
}

// compare: nil va después de cualquier valor.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}

	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		if ta, err := time.Parse(time.RFC3339Nano, sa); err == nil {
			if tb, err := time.Parse(time.RFC3339Nano, sb); err == nil {
				return ta.Compare(tb)
			}
		}
		return strings.Compare(sa, sb)
	}

	ba, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
