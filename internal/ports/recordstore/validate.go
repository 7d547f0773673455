package recordstore

import (
	"fmt"
	"regexp"
)

var columnRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var tables = map[string]bool{
	TableHospitals:         true,
	TableDoctors:           true,
	TableMedicalStores:     true,
	TableBloodDonors:       true,
	TableBloodRequests:     true,
	TableMedicineReminders: true,
	TableProfiles:          true,
}

func ValidateTable(table string) error {
	if !tables[table] {
		return fmt.Errorf("%w: unknown table %q", ErrInvalidQuery, table)
	}
	return nil
}

func ValidateColumn(col string) error {
	if !columnRe.MatchString(col) {
		return fmt.Errorf("%w: bad column %q", ErrInvalidQuery, col)
	}
	return nil
}

func ValidateFilters(filters []Filter) error {
	for _, f := range filters {
		if err := ValidateColumn(f.Column); err != nil {
			return err
		}
	}
	return nil
}

// Validate chequea tabla, columnas y límite antes de tocar el backend.
func (q Query) Validate() error {
	if err := ValidateTable(q.Table); err != nil {
		return err
	}
	if err := ValidateFilters(q.Filters); err != nil {
		return err
	}
	for _, o := range q.Order {
		if err := ValidateColumn(o.Column); err != nil {
			return err
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}
	return nil
}
