package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger"

	"health-directory/internal/ports/recordstore"
)

// Store persiste filas JSON en badger con key "<tabla>:<id>".
// Select sin Order devuelve las filas en orden de key.
type Store struct {
	db       *badger.DB
	cancelGC func()
	wg       sync.WaitGroup
}

var _ recordstore.Store = (*Store)(nil)

// Open abre (o crea) la base en path y arranca el GC del value log.
func Open(path string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at path %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{db: db, cancelGC: cancel}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for s.db.RunValueLogGC(0.5) == nil && ctx.Err() == nil {
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return s, nil
}

func (s *Store) Close() error {
	s.cancelGC()
	s.wg.Wait()
	return s.db.Close()
}

func key(table, id string) []byte {
	return []byte(table + ":" + id)
}

func getRow(tx *badger.Txn, table, id string) (recordstore.Row, error) {
	item, err := tx.Get(key(table, id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, recordstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", table, id, err)
	}

	var row recordstore.Row
	err = item.Value(func(val []byte) error {
		r, err := recordstore.Decode(val)
		if err != nil {
			return fmt.Errorf("failed to unmarshal %s/%s: %w", table, id, err)
		}
		row = r
		return nil
	})
	return row, err
}

func setRow(tx *badger.Txn, table, id string, row recordstore.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to JSON marshal %s/%s: %w", table, id, err)
	}
	return tx.Set(key(table, id), data)
}

func (s *Store) scan(table string, fn func(recordstore.Row)) error {
	return s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(table + ":")

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				r, err := recordstore.Decode(val)
				if err != nil {
					return fmt.Errorf("failed to unmarshal key %s: %w", string(item.Key()), err)
				}
				fn(r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Select(ctx context.Context, q recordstore.Query) ([]json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	rows := make([]recordstore.Row, 0)
	if err := s.scan(q.Table, func(r recordstore.Row) { rows = append(rows, r) }); err != nil {
		return nil, err
	}
	return recordstore.Apply(rows, q), nil
}

func (s *Store) Get(ctx context.Context, table, id string) (raw json.RawMessage, err error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	err = s.db.View(func(tx *badger.Txn) error {
		r, err := getRow(tx, table, id)
		if err != nil {
			return err
		}
		raw = r.Raw()
		return nil
	})
	return
}

func (s *Store) Insert(ctx context.Context, table string, row any) (raw json.RawMessage, err error) {
	if err := recordstore.ValidateTable(table); err != nil {
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

	err = s.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(key(table, id)); err == nil {
			return fmt.Errorf("%w: %s/%s", recordstore.ErrConflict, table, id)
		}
		return setRow(tx, table, id, r)
	})
	if err != nil {
		return nil, err
	}
	return r.Raw(), nil
}

func (s *Store) Update(ctx context.Context, table, id string, patch any) (raw json.RawMessage, err error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	p, err := recordstore.ToRow(patch)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(tx *badger.Txn) error {
		cur, err := getRow(tx, table, id)
		if err != nil {
			return err
		}
		next := cur.Merge(p)
		if err := setRow(tx, table, id, next); err != nil {
			return err
		}
		raw = next.Raw()
		return nil
	})
	return
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := recordstore.ValidateTable(table); err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(key(table, id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return recordstore.ErrNotFound
			}
			return err
		}
		return tx.Delete(key(table, id))
	})
}

func (s *Store) Count(ctx context.Context, table string, filters ...recordstore.Filter) (int, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return 0, err
	}
	if err := recordstore.ValidateFilters(filters); err != nil {
		return 0, err
	}
	n := 0
	err := s.scan(table, func(r recordstore.Row) {
		if r.Matches(filters) {
			n++
		}
	})
	return n, err
}
