package recordstore

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidQuery = errors.New("invalid query")
	ErrConflict     = errors.New("record already exists")
)

// Tablas conocidas del backend.
const (
	TableHospitals         = "hospitals"
	TableDoctors           = "doctors"
	TableMedicalStores     = "medical_stores"
	TableBloodDonors       = "blood_donors"
	TableBloodRequests     = "blood_requests"
	TableMedicineReminders = "medicine_reminders"
	TableProfiles          = "profiles"
)

// Filter es una igualdad columna = valor.
type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

type Order struct {
	Column string
	Desc   bool
}

type Query struct {
	Table   string
	Filters []Filter
	Order   []Order
	Limit   int // 0 => sin límite
}

// Store es el cliente fino del backend de filas. Las filas viajan como JSON
// con un campo "id" string.
type Store interface {
	Select(ctx context.Context, q Query) ([]json.RawMessage, error)
	Get(ctx context.Context, table, id string) (json.RawMessage, error)
	Insert(ctx context.Context, table string, row any) (json.RawMessage, error)
	Update(ctx context.Context, table, id string, patch any) (json.RawMessage, error)
	Delete(ctx context.Context, table, id string) error
	Count(ctx context.Context, table string, filters ...Filter) (int, error)
}
