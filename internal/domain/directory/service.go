package directory

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrHospitalHasStaff = errors.New("hospital still has doctors")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// HospitalInput: alta y edición reemplazan todos los campos.
type HospitalInput struct {
	Name              string
	Address           string
	City              string
	Phone             string
	Email             string
	Specialities      []string
	EmergencyServices bool
	Rating            float64
	Latitude          *float64
	Longitude         *float64
}

type DoctorInput struct {
	HospitalID      string
	Name            string
	Specialization  string
	Phone           string
	Email           string
	Rating          float64
	Qualification   string
	ExperienceYears int
	ConsultationFee float64
	AvailableHours  string
	AvailableDays   []string
}

type StoreInput struct {
	Name           string
	Address        string
	City           string
	Phone          string
	Email          string
	LicenseNumber  string
	OperatingHours string
	Rating         float64
	Latitude       *float64
	Longitude      *float64
}

func validRating(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 5
}

func validCoords(lat, lng *float64) bool {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return false
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return false
	}
	return true
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (in HospitalInput) build(h *Hospital) error {
	h.Name = strings.TrimSpace(in.Name)
	h.Address = strings.TrimSpace(in.Address)
	h.City = strings.TrimSpace(in.City)
	h.Phone = strings.TrimSpace(in.Phone)
	h.Email = strings.TrimSpace(in.Email)
	h.Specialities = cleanList(in.Specialities)
	h.EmergencyServices = in.EmergencyServices
	h.Rating = in.Rating
	h.Latitude = in.Latitude
	h.Longitude = in.Longitude

	if h.Name == "" || h.Address == "" || h.City == "" {
		return ErrInvalidInput
	}
	if !validRating(h.Rating) || !validCoords(h.Latitude, h.Longitude) {
		return ErrInvalidInput
	}
	return nil
}

func (in DoctorInput) build(d *Doctor) error {
	d.HospitalID = strings.TrimSpace(in.HospitalID)
	d.Name = strings.TrimSpace(in.Name)
	d.Specialization = strings.TrimSpace(in.Specialization)
	d.Phone = strings.TrimSpace(in.Phone)
	d.Email = strings.TrimSpace(in.Email)
	d.Rating = in.Rating
	d.Qualification = strings.TrimSpace(in.Qualification)
	d.ExperienceYears = in.ExperienceYears
	d.ConsultationFee = in.ConsultationFee
	d.AvailableHours = strings.TrimSpace(in.AvailableHours)
	d.AvailableDays = cleanList(in.AvailableDays)

	if d.HospitalID == "" || d.Name == "" || d.Specialization == "" {
		return ErrInvalidInput
	}
	if !validRating(d.Rating) || d.ExperienceYears < 0 || d.ConsultationFee < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (in StoreInput) build(m *MedicalStore) error {
	m.Name = strings.TrimSpace(in.Name)
	m.Address = strings.TrimSpace(in.Address)
	m.City = strings.TrimSpace(in.City)
	m.Phone = strings.TrimSpace(in.Phone)
	m.Email = strings.TrimSpace(in.Email)
	m.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	m.OperatingHours = strings.TrimSpace(in.OperatingHours)
	m.Rating = in.Rating
	m.Latitude = in.Latitude
	m.Longitude = in.Longitude

	if m.Name == "" || m.Address == "" || m.City == "" {
		return ErrInvalidInput
	}
	if !validRating(m.Rating) || !validCoords(m.Latitude, m.Longitude) {
		return ErrInvalidInput
	}
	return nil
}

// -------------------------
// Hospitales
// -------------------------

func (s *Service) ListHospitals(ctx context.Context, f HospitalFilter) ([]Hospital, error) {
	f.City = strings.TrimSpace(f.City)
	if f.Limit <= 0 || f.Limit > PublicListLimit {
		f.Limit = PublicListLimit
	}
	return s.repo.ListHospitals(ctx, f)
}

func (s *Service) GetHospital(ctx context.Context, id string) (Hospital, error) {
	h, err := s.repo.GetHospital(ctx, strings.TrimSpace(id))
	if err != nil {
		return Hospital{}, ErrNotFound
	}
	return h, nil
}

// HospitalDetail devuelve el hospital y sus médicos (rating desc).
func (s *Service) HospitalDetail(ctx context.Context, id string) (Hospital, []Doctor, error) {
	h, err := s.GetHospital(ctx, id)
	if err != nil {
		return Hospital{}, nil, err
	}
	docs, err := s.repo.ListDoctorsByHospital(ctx, h.ID)
	if err != nil {
		return Hospital{}, nil, err
	}
	return h, docs, nil
}

func (s *Service) CreateHospital(ctx context.Context, in HospitalInput) (Hospital, error) {
	now := s.now()
	h := Hospital{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := in.build(&h); err != nil {
		return Hospital{}, err
	}
	if err := s.repo.CreateHospital(ctx, h); err != nil {
		return Hospital{}, err
	}
	return h, nil
}

func (s *Service) UpdateHospital(ctx context.Context, id string, in HospitalInput) (Hospital, error) {
	h, err := s.GetHospital(ctx, id)
	if err != nil {
		return Hospital{}, err
	}
	if err := in.build(&h); err != nil {
		return Hospital{}, err
	}
	h.UpdatedAt = s.now()
	if err := s.repo.UpdateHospital(ctx, h); err != nil {
		return Hospital{}, err
	}
	return h, nil
}

// DeleteHospital se niega si quedan médicos asignados.
func (s *Service) DeleteHospital(ctx context.Context, id string) error {
	h, err := s.GetHospital(ctx, id)
	if err != nil {
		return err
	}
	docs, err := s.repo.ListDoctorsByHospital(ctx, h.ID)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return ErrHospitalHasStaff
	}
	return s.repo.DeleteHospital(ctx, h.ID)
}

// -------------------------
// Médicos
// -------------------------

func (s *Service) GetDoctor(ctx context.Context, id string) (Doctor, error) {
	d, err := s.repo.GetDoctor(ctx, strings.TrimSpace(id))
	if err != nil {
		return Doctor{}, ErrNotFound
	}
	return d, nil
}

func (s *Service) ensureHospital(ctx context.Context, id string) error {
	if _, err := s.repo.GetHospital(ctx, id); err != nil {
		return ErrHospitalNotFound
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, in DoctorInput) (Doctor, error) {
	now := s.now()
	d := Doctor{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := in.build(&d); err != nil {
		return Doctor{}, err
	}
	if err := s.ensureHospital(ctx, d.HospitalID); err != nil {
		return Doctor{}, err
	}
	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return Doctor{}, err
	}
	return d, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, in DoctorInput) (Doctor, error) {
	d, err := s.GetDoctor(ctx, id)
	if err != nil {
		return Doctor{}, err
	}
	if err := in.build(&d); err != nil {
		return Doctor{}, err
	}
	if err := s.ensureHospital(ctx, d.HospitalID); err != nil {
		return Doctor{}, err
	}
	d.UpdatedAt = s.now()
	if err := s.repo.UpdateDoctor(ctx, d); err != nil {
		return Doctor{}, err
	}
	return d, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	d, err := s.GetDoctor(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteDoctor(ctx, d.ID)
}

// -------------------------
// Farmacias
// -------------------------

func (s *Service) ListStores(ctx context.Context, city string) ([]MedicalStore, error) {
	return s.repo.ListStores(ctx, strings.TrimSpace(city), PublicListLimit)
}

func (s *Service) GetStore(ctx context.Context, id string) (MedicalStore, error) {
	m, err := s.repo.GetStore(ctx, strings.TrimSpace(id))
	if err != nil {
		return MedicalStore{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) CreateStore(ctx context.Context, in StoreInput) (MedicalStore, error) {
	now := s.now()
	m := MedicalStore{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := in.build(&m); err != nil {
		return MedicalStore{}, err
	}
	if err := s.repo.CreateStore(ctx, m); err != nil {
		return MedicalStore{}, err
	}
	return m, nil
}

func (s *Service) UpdateStore(ctx context.Context, id string, in StoreInput) (MedicalStore, error) {
	m, err := s.GetStore(ctx, id)
	if err != nil {
		return MedicalStore{}, err
	}
	if err := in.build(&m); err != nil {
		return MedicalStore{}, err
	}
	m.UpdatedAt = s.now()
	if err := s.repo.UpdateStore(ctx, m); err != nil {
		return MedicalStore{}, err
	}
	return m, nil
}

func (s *Service) DeleteStore(ctx context.Context, id string) error {
	m, err := s.GetStore(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteStore(ctx, m.ID)
}

// -------------------------
// Dashboard
// -------------------------

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	c, err := s.repo.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	return c.Stats, nil
}

func (s *Service) AdminStats(ctx context.Context) (AdminStats, error) {
	return s.repo.Counts(ctx)
}

func (s *Service) Recent(ctx context.Context) (Recent, error) {
	hs, err := s.repo.RecentHospitals(ctx, RecentLimit)
	if err != nil {
		return Recent{}, err
	}
	ds, err := s.repo.RecentDoctors(ctx, RecentLimit)
	if err != nil {
		return Recent{}, err
	}
	ms, err := s.repo.RecentStores(ctx, RecentLimit)
	if err != nil {
		return Recent{}, err
	}
	return Recent{Hospitals: hs, Doctors: ds, MedicalStores: ms}, nil
}
