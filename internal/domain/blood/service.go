package blood

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrNotDonor     = errors.New("user is not a registered donor")
)

// ListLimit es el máximo de filas en listados.
const ListLimit = 20

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

type DonorInput struct {
	Name              string
	BloodType         BloodType
	Age               int
	Weight            float64
	LastDonationDate  *time.Time
	MedicalConditions string
	EmergencyContact  string
	Location          string
	IsAvailable       *bool // nil => true en alta, sin cambio en edición
	Latitude          *float64
	Longitude         *float64
}

type RequestInput struct {
	PatientName     string
	BloodType       BloodType
	UnitsNeeded     int
	Urgency         Urgency
	HospitalName    string
	HospitalAddress string
	ContactPhone    string
	AdditionalInfo  string
}

func (in DonorInput) apply(d *Donor, now time.Time) error {
	d.Name = strings.TrimSpace(in.Name)
	d.BloodType = in.BloodType
	d.Age = in.Age
	d.Weight = in.Weight
	d.LastDonationDate = in.LastDonationDate
	d.MedicalConditions = strings.TrimSpace(in.MedicalConditions)
	d.EmergencyContact = strings.TrimSpace(in.EmergencyContact)
	d.Location = strings.TrimSpace(in.Location)
	d.Latitude = in.Latitude
	d.Longitude = in.Longitude
	if in.IsAvailable != nil {
		d.IsAvailable = *in.IsAvailable
	}

	if d.Name == "" || !d.BloodType.Valid() {
		return ErrInvalidInput
	}
	if d.Age <= 0 || d.Weight <= 0 {
		return ErrInvalidInput
	}
	if d.LastDonationDate != nil && d.LastDonationDate.After(now) {
		return ErrInvalidInput
	}
	return nil
}

// -------------------------
// Donantes
// -------------------------

// MyDonor devuelve el perfil de donante del usuario o ErrNotDonor.
func (s *Service) MyDonor(ctx context.Context, userID string) (Donor, error) {
	d, err := s.repo.GetDonorByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Donor{}, ErrNotDonor
		}
		return Donor{}, err
	}
	return d, nil
}

// RegisterDonor crea o actualiza el único perfil de donante del usuario.
// created indica si fue alta.
func (s *Service) RegisterDonor(ctx context.Context, userID string, in DonorInput) (d Donor, created bool, err error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Donor{}, false, ErrInvalidInput
	}

	now := s.now()
	d, err = s.MyDonor(ctx, userID)
	switch {
	case errors.Is(err, ErrNotDonor):
		d = Donor{ID: uuid.NewString(), UserID: userID, IsAvailable: true, CreatedAt: now}
		created = true
	case err != nil:
		return Donor{}, false, err
	}

	if err := in.apply(&d, now); err != nil {
		return Donor{}, false, err
	}
	d.UpdatedAt = now

	if created {
		err = s.repo.CreateDonor(ctx, d)
	} else {
		err = s.repo.UpdateDonor(ctx, d)
	}
	if err != nil {
		return Donor{}, false, err
	}
	return d, created, nil
}

// ToggleAvailability invierte is_available del donante del usuario.
func (s *Service) ToggleAvailability(ctx context.Context, userID string) (Donor, error) {
	d, err := s.MyDonor(ctx, userID)
	if err != nil {
		return Donor{}, err
	}
	d.IsAvailable = !d.IsAvailable
	d.UpdatedAt = s.now()
	if err := s.repo.UpdateDonor(ctx, d); err != nil {
		return Donor{}, err
	}
	return d, nil
}

// AvailableDonors lista donantes disponibles; bloodType "" = todos.
func (s *Service) AvailableDonors(ctx context.Context, bloodType BloodType) ([]Donor, error) {
	if bloodType != "" && !bloodType.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListAvailable(ctx, bloodType, ListLimit)
}

// CompatibleDonors lista donantes disponibles que pueden donar al receptor,
// más recientes primero.
func (s *Service) CompatibleDonors(ctx context.Context, recipient BloodType) ([]Donor, error) {
	if !recipient.Valid() {
		return nil, ErrInvalidInput
	}

	var out []Donor
	for _, t := range DonorsFor(recipient) {
		ds, err := s.repo.ListAvailable(ctx, t, ListLimit)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > ListLimit {
		out = out[:ListLimit]
	}
	return out, nil
}

// DeleteDonor es sólo para admin (el gate lo pone el router).
func (s *Service) DeleteDonor(ctx context.Context, id string) error {
	d, err := s.repo.GetDonor(ctx, strings.TrimSpace(id))
	if err != nil {
		return ErrNotFound
	}
	return s.repo.DeleteDonor(ctx, d.ID)
}

// -------------------------
// Pedidos
// -------------------------

func (s *Service) CreateRequest(ctx context.Context, requesterID string, in RequestInput) (Request, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return Request{}, ErrInvalidInput
	}

	urgency := in.Urgency
	if urgency == "" {
		urgency = UrgencyMedium
	}

	now := s.now()
	r := Request{
		ID:              uuid.NewString(),
		RequesterID:     requesterID,
		PatientName:     strings.TrimSpace(in.PatientName),
		BloodType:       in.BloodType,
		UnitsNeeded:     in.UnitsNeeded,
		Urgency:         urgency,
		HospitalName:    strings.TrimSpace(in.HospitalName),
		HospitalAddress: strings.TrimSpace(in.HospitalAddress),
		ContactPhone:    strings.TrimSpace(in.ContactPhone),
		AdditionalInfo:  strings.TrimSpace(in.AdditionalInfo),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if r.PatientName == "" || r.HospitalName == "" || r.ContactPhone == "" {
		return Request{}, ErrInvalidInput
	}
	if !r.BloodType.Valid() || !r.Urgency.Valid() || r.UnitsNeeded <= 0 {
		return Request{}, ErrInvalidInput
	}

	if err := s.repo.CreateRequest(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

func (s *Service) GetRequest(ctx context.Context, id string) (Request, error) {
	r, err := s.repo.GetRequest(ctx, strings.TrimSpace(id))
	if err != nil {
		return Request{}, ErrNotFound
	}
	return r, nil
}

// ListRequests: status "" = todos.
func (s *Service) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListRequests(ctx, status, ListLimit)
}

// SetRequestStatus: sólo quien lo pidió o un admin.
func (s *Service) SetRequestStatus(ctx context.Context, userID string, isAdmin bool, id string, status RequestStatus) (Request, error) {
	if !status.Valid() {
		return Request{}, ErrInvalidInput
	}
	r, err := s.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !isAdmin && r.RequesterID != userID {
		return Request{}, ErrForbidden
	}
	if r.Status == status {
		return r, nil
	}

	r.Status = status
	r.UpdatedAt = s.now()
	if err := s.repo.UpdateRequest(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

func (s *Service) DeleteRequest(ctx context.Context, id string) error {
	r, err := s.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteRequest(ctx, r.ID)
}
