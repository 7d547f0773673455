package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"health-directory/internal/ports/recordstore"
)

type table struct {
	order []string
	byID  map[string]recordstore.Row
}

// Store guarda filas por tabla en memoria, respetando orden de inserción.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func NewStore() *Store {
	return &Store{tables: make(map[string]*table)}
}

var _ recordstore.Store = (*Store)(nil)

func (s *Store) tableFor(name string) *table {
	t, ok := s.tables[name]
	if !ok {
		t = &table{byID: make(map[string]recordstore.Row)}
		s.tables[name] = t
	}
	return t
}

func (s *Store) Select(ctx context.Context, q recordstore.Query) ([]json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[q.Table]
	if !ok {
		return []json.RawMessage{}, nil
	}
	rows := make([]recordstore.Row, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.byID[id])
	}
	return recordstore.Apply(rows, q), nil
}

func (s *Store) Get(ctx context.Context, tbl, id string) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(tbl); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[tbl]
	if !ok {
		return nil, recordstore.ErrNotFound
	}
	r, ok := t.byID[id]
	if !ok {
		return nil, recordstore.ErrNotFound
	}
	return r.Raw(), nil
}

func (s *Store) Insert(ctx context.Context, tbl string, row any) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(tbl); err != nil {
		return nil, err
	}
	r, err := recordstore.ToRow(row)
	if err != nil {
		return nil, err
	}
	id, err := r.ID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tableFor(tbl)
	if _, exists := t.byID[id]; exists {
		return nil, fmt.Errorf("%w: %s/%s", recordstore.ErrConflict, tbl, id)
	}
	t.byID[id] = r
	t.order = append(t.order, id)
	return r.Raw(), nil
}

func (s *Store) Update(ctx context.Context, tbl, id string, patch any) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(tbl); err != nil {
		return nil, err
	}
	p, err := recordstore.ToRow(patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[tbl]
	if !ok {
		return nil, recordstore.ErrNotFound
	}
	cur, ok := t.byID[id]
	if !ok {
		return nil, recordstore.ErrNotFound
	}
	next := cur.Merge(p)
	t.byID[id] = next
	return next.Raw(), nil
}

func (s *Store) Delete(ctx context.Context, tbl, id string) error {
	if err := recordstore.ValidateTable(tbl); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[tbl]
	if !ok {
		return recordstore.ErrNotFound
	}
	if _, ok := t.byID[id]; !ok {
		return recordstore.ErrNotFound
	}
	delete(t.byID, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Count(ctx context.Context, tbl string, filters ...recordstore.Filter) (int, error) {
	if err := recordstore.ValidateTable(tbl); err != nil {
		return 0, err
	}
	if err := recordstore.ValidateFilters(filters); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[tbl]
	if !ok {
		return 0, nil
	}
	n := 0
	for _, r := range t.byID {
		if r.Matches(filters) {
			n++
		}
	}
	return n, nil
}
