package records

import (
	"context"
	"fmt"

	"health-directory/internal/domain/directory"
	"health-directory/internal/ports/recordstore"
)

// DirectoryRepo guarda hospitales, médicos y farmacias. Los modelos del
// directorio ya tienen la forma de la fila, se decodifican directo.
type DirectoryRepo struct {
	store recordstore.Store
}

func NewDirectoryRepo(store recordstore.Store) *DirectoryRepo {
	return &DirectoryRepo{store: store}
}

var _ directory.Repository = (*DirectoryRepo)(nil)

var (
	byRatingDesc = []recordstore.Order{{Column: "rating", Desc: true}}
	newestFirst  = []recordstore.Order{{Column: "created_at", Desc: true}}
)

func selectAll[T any](ctx context.Context, s recordstore.Store, q recordstore.Query) ([]T, error) {
	raws, err := s.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raws)
}

func getOne[T any](ctx context.Context, s recordstore.Store, table, id string, notFound error) (T, error) {
	var zero T
	raw, err := s.Get(ctx, table, id)
	if err != nil {
		return zero, mapNotFound(err, notFound)
	}
	return decodeOne[T](raw)
}

func update(ctx context.Context, s recordstore.Store, table, id string, row any, notFound error) error {
	_, err := s.Update(ctx, table, id, row)
	return mapNotFound(err, notFound)
}

// -------------------------
// Hospitales
// -------------------------

func (r *DirectoryRepo) ListHospitals(ctx context.Context, f directory.HospitalFilter) ([]directory.Hospital, error) {
	var filters []recordstore.Filter
	if f.City != "" {
		filters = append(filters, recordstore.Eq("city", f.City))
	}
	if f.EmergencyOnly {
		filters = append(filters, recordstore.Eq("emergency_services", true))
	}
	return selectAll[directory.Hospital](ctx, r.store, recordstore.Query{
		Table:   recordstore.TableHospitals,
		Filters: filters,
		Order:   byRatingDesc,
		Limit:   f.Limit,
	})
}

func (r *DirectoryRepo) RecentHospitals(ctx context.Context, limit int) ([]directory.Hospital, error) {
	return selectAll[directory.Hospital](ctx, r.store, recordstore.Query{
		Table: recordstore.TableHospitals, Order: newestFirst, Limit: limit,
	})
}

func (r *DirectoryRepo) GetHospital(ctx context.Context, id string) (directory.Hospital, error) {
	return getOne[directory.Hospital](ctx, r.store, recordstore.TableHospitals, id, directory.ErrNotFound)
}

func (r *DirectoryRepo) CreateHospital(ctx context.Context, h directory.Hospital) error {
	_, err := r.store.Insert(ctx, recordstore.TableHospitals, h)
	return err
}

func (r *DirectoryRepo) UpdateHospital(ctx context.Context, h directory.Hospital) error {
	return update(ctx, r.store, recordstore.TableHospitals, h.ID, h, directory.ErrNotFound)
}

func (r *DirectoryRepo) DeleteHospital(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, recordstore.TableHospitals, id), directory.ErrNotFound)
}

// -------------------------
// Médicos
// -------------------------

func (r *DirectoryRepo) ListDoctorsByHospital(ctx context.Context, hospitalID string) ([]directory.Doctor, error) {
	return selectAll[directory.Doctor](ctx, r.store, recordstore.Query{
		Table:   recordstore.TableDoctors,
		Filters: []recordstore.Filter{recordstore.Eq("hospital_id", hospitalID)},
		Order:   byRatingDesc,
	})
}

func (r *DirectoryRepo) RecentDoctors(ctx context.Context, limit int) ([]directory.Doctor, error) {
	return selectAll[directory.Doctor](ctx, r.store, recordstore.Query{
		Table: recordstore.TableDoctors, Order: newestFirst, Limit: limit,
	})
}

func (r *DirectoryRepo) GetDoctor(ctx context.Context, id string) (directory.Doctor, error) {
	return getOne[directory.Doctor](ctx, r.store, recordstore.TableDoctors, id, directory.ErrNotFound)
}

func (r *DirectoryRepo) CreateDoctor(ctx context.Context, d directory.Doctor) error {
	_, err := r.store.Insert(ctx, recordstore.TableDoctors, d)
	return err
}

func (r *DirectoryRepo) UpdateDoctor(ctx context.Context, d directory.Doctor) error {
	return update(ctx, r.store, recordstore.TableDoctors, d.ID, d, directory.ErrNotFound)
}

func (r *DirectoryRepo) DeleteDoctor(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, recordstore.TableDoctors, id), directory.ErrNotFound)
}

// -------------------------
// Farmacias
// -------------------------

func (r *DirectoryRepo) ListStores(ctx context.Context, city string, limit int) ([]directory.MedicalStore, error) {
	var filters []recordstore.Filter
	if city != "" {
		filters = append(filters, recordstore.Eq("city", city))
	}
	return selectAll[directory.MedicalStore](ctx, r.store, recordstore.Query{
		Table:   recordstore.TableMedicalStores,
		Filters: filters,
		Order:   byRatingDesc,
		Limit:   limit,
	})
}

func (r *DirectoryRepo) RecentStores(ctx context.Context, limit int) ([]directory.MedicalStore, error) {
	return selectAll[directory.MedicalStore](ctx, r.store, recordstore.Query{
		Table: recordstore.TableMedicalStores, Order: newestFirst, Limit: limit,
	})
}

func (r *DirectoryRepo) GetStore(ctx context.Context, id string) (directory.MedicalStore, error) {
	return getOne[directory.MedicalStore](ctx, r.store, recordstore.TableMedicalStores, id, directory.ErrNotFound)
}

func (r *DirectoryRepo) CreateStore(ctx context.Context, m directory.MedicalStore) error {
	_, err := r.store.Insert(ctx, recordstore.TableMedicalStores, m)
	return err
}

func (r *DirectoryRepo) UpdateStore(ctx context.Context, m directory.MedicalStore) error {
	return update(ctx, r.store, recordstore.TableMedicalStores, m.ID, m, directory.ErrNotFound)
}

func (r *DirectoryRepo) DeleteStore(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, recordstore.TableMedicalStores, id), directory.ErrNotFound)
}

// -------------------------
// Contadores
// -------------------------

func (r *DirectoryRepo) Counts(ctx context.Context) (directory.AdminStats, error) {
	var out directory.AdminStats
	targets := []struct {
		table string
		dst   *int
	}{
		{recordstore.TableHospitals, &out.Hospitals},
		{recordstore.TableDoctors, &out.Doctors},
		{recordstore.TableMedicalStores, &out.MedicalStores},
		{recordstore.TableBloodDonors, &out.BloodDonors},
		{recordstore.TableProfiles, &out.Users},
		{recordstore.TableBloodRequests, &out.BloodRequests},
	}
	for _, t := range targets {
		n, err := r.store.Count(ctx, t.table)
		if err != nil {
			return directory.AdminStats{}, fmt.Errorf("count %s: %w", t.table, err)
		}
		*t.dst = n
	}
	return out, nil
}

