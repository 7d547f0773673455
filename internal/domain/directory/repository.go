package directory

import "context"

type HospitalRepository interface {
	ListHospitals(ctx context.Context, f HospitalFilter) ([]Hospital, error)
	RecentHospitals(ctx context.Context, limit int) ([]Hospital, error)
	GetHospital(ctx context.Context, id string) (Hospital, error)
	CreateHospital(ctx context.Context, h Hospital) error
	UpdateHospital(ctx context.Context, h Hospital) error
	DeleteHospital(ctx context.Context, id string) error
}

type DoctorRepository interface {
	// ListDoctorsByHospital ordena por rating desc.
	ListDoctorsByHospital(ctx context.Context, hospitalID string) ([]Doctor, error)
	RecentDoctors(ctx context.Context, limit int) ([]Doctor, error)
	GetDoctor(ctx context.Context, id string) (Doctor, error)
	CreateDoctor(ctx context.Context, d Doctor) error
	UpdateDoctor(ctx context.Context, d Doctor) error
	DeleteDoctor(ctx context.Context, id string) error
}

type StoreRepository interface {
	ListStores(ctx context.Context, city string, limit int) ([]MedicalStore, error)
	RecentStores(ctx context.Context, limit int) ([]MedicalStore, error)
	GetStore(ctx context.Context, id string) (MedicalStore, error)
	CreateStore(ctx context.Context, m MedicalStore) error
	UpdateStore(ctx context.Context, m MedicalStore) error
	DeleteStore(ctx context.Context, id string) error
}

// StatsRepository cuenta filas de todas las tablas del sistema.
type StatsRepository interface {
	Counts(ctx context.Context) (AdminStats, error)
}

type Repository interface {
	HospitalRepository
	DoctorRepository
	StoreRepository
	StatsRepository
}
