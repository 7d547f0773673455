package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"health-directory/internal/platform/httpclient"
	"health-directory/internal/ports/recordstore"
)

var ErrUpstream = errors.New("supabase rest upstream error")

// Store habla con la API REST de Supabase (PostgREST) usando la service key.
type Store struct {
	http *httpclient.Client
}

var _ recordstore.Store = (*Store)(nil)

func New(supabaseURL, serviceKey string, timeout time.Duration) (*Store, error) {
	if strings.TrimSpace(supabaseURL) == "" || strings.TrimSpace(serviceKey) == "" {
		return nil, errors.New("postgrest: supabase url and service key are required")
	}
	c, err := httpclient.New(strings.TrimRight(supabaseURL, "/")+"/rest/v1", timeout)
	if err != nil {
		return nil, err
	}
	c.Headers = map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	}
	return &Store{http: c}, nil
}

// NewWithClient permite inyectar el client (tests).
func NewWithClient(c *httpclient.Client) *Store {
	return &Store{http: c}
}

func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	return fmt.Sprint(v)
}

func filterValues(filters []recordstore.Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		if f.Value == nil {
			v.Add(f.Column, "is.null")
			continue
		}
		v.Add(f.Column, "eq."+literal(f.Value))
	}
	return v
}

func byID(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch httpclient.StatusOf(err) {
	case 0:
		return err
	case http.StatusNotFound, http.StatusNotAcceptable:
		return fmt.Errorf("%w: %v", recordstore.ErrNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", recordstore.ErrConflict, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %v", recordstore.ErrInvalidQuery, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func (s *Store) Select(ctx context.Context, q recordstore.Query) ([]json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	v := filterValues(q.Filters)
	v.Set("select", "*")
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir+".nullslast")
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	out := make([]json.RawMessage, 0)
	_, err := s.http.Do(ctx, httpclient.Request{Path: "/" + q.Table, Query: v, Out: &out})
	return out, mapErr(err)
}

func (s *Store) Get(ctx context.Context, table, id string) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	v := byID(id)
	v.Set("select", "*")

	var out []json.RawMessage
	if _, err := s.http.Do(ctx, httpclient.Request{Path: "/" + table, Query: v, Out: &out}); err != nil {
		return nil, mapErr(err)
	}
	if len(out) == 0 {
		return nil, recordstore.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) Insert(ctx context.Context, table string, row any) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	r, err := recordstore.ToRow(row)
	if err != nil {
		return nil, err
	}
	if _, err := r.ID(); err != nil {
		return nil, err
	}

	var out []json.RawMessage
	_, err = s.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/" + table,
		Headers: map[string]string{"Prefer": "return=representation"},
		In:      r,
		Out:     &out,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	if len(out) == 0 {
		return r.Raw(), nil
	}
	return out[0], nil
}

func (s *Store) Update(ctx context.Context, table, id string, patch any) (json.RawMessage, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return nil, err
	}
	p, err := recordstore.ToRow(patch)
	if err != nil {
		return nil, err
	}
	delete(p, "id")

	var out []json.RawMessage
	_, err = s.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPatch,
		Path:    "/" + table,
		Query:   byID(id),
		Headers: map[string]string{"Prefer": "return=representation"},
		In:      p,
		Out:     &out,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	if len(out) == 0 {
		return nil, recordstore.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := recordstore.ValidateTable(table); err != nil {
		return err
	}

	var out []json.RawMessage
	_, err := s.http.Do(ctx, httpclient.Request{
		Method:  http.MethodDelete,
		Path:    "/" + table,
		Query:   byID(id),
		Headers: map[string]string{"Prefer": "return=representation"},
		Out:     &out,
	})
	if err != nil {
		return mapErr(err)
	}
	if len(out) == 0 {
		return recordstore.ErrNotFound
	}
	return nil
}

// Count usa HEAD + Prefer count=exact y lee el total de Content-Range.
func (s *Store) Count(ctx context.Context, table string, filters ...recordstore.Filter) (int, error) {
	if err := recordstore.ValidateTable(table); err != nil {
		return 0, err
	}
	if err := recordstore.ValidateFilters(filters); err != nil {
		return 0, err
	}

	v := filterValues(filters)
	v.Set("select", "id")

	h, err := s.http.Do(ctx, httpclient.Request{
		Method:  http.MethodHead,
		Path:    "/" + table,
		Query:   v,
		Headers: map[string]string{"Prefer": "count=exact"},
	})
	if err != nil {
		return 0, mapErr(err)
	}
	return parseContentRange(h.Get("Content-Range"))
}

// parseContentRange: "0-24/3573" o "*/0".
func parseContentRange(cr string) (int, error) {
	i := strings.LastIndex(cr, "/")
	if i < 0 {
		return 0, fmt.Errorf("%w: bad content-range %q", ErrUpstream, cr)
	}
	n, err := strconv.Atoi(cr[i+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: bad content-range %q", ErrUpstream, cr)
	}
	return n, nil
}
