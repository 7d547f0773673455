package records

import (
	"context"
	"strings"
	"time"

	"health-directory/internal/domain/blood"
	"health-directory/internal/ports/recordstore"
)

type donorRow struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	BloodType         string    `json:"blood_type"`
	Age               int       `json:"age"`
	Weight            float64   `json:"weight"`
	LastDonationDate  *string   `json:"last_donation_date"`
	MedicalConditions string    `json:"medical_conditions"`
	EmergencyContact  string    `json:"emergency_contact"`
	Location          string    `json:"location"`
	IsAvailable       bool      `json:"is_available"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toDonorRow(d blood.Donor) donorRow {
	var last *string
	if d.LastDonationDate != nil {
		v := d.LastDonationDate.Format(time.DateOnly)
		last = &v
	}
	return donorRow{
		ID:                d.ID,
		UserID:            d.UserID,
		Name:              d.Name,
		BloodType:         string(d.BloodType),
		Age:               d.Age,
		Weight:            d.Weight,
		LastDonationDate:  last,
		MedicalConditions: d.MedicalConditions,
		EmergencyContact:  d.EmergencyContact,
		Location:          d.Location,
		IsAvailable:       d.IsAvailable,
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (r donorRow) toDonor() (blood.Donor, error) {
	var last *time.Time
	if r.LastDonationDate != nil && strings.TrimSpace(*r.LastDonationDate) != "" {
		t, err := parseDay(*r.LastDonationDate)
		if err != nil {
			return blood.Donor{}, err
		}
		last = &t
	}
	return blood.Donor{
		ID:                r.ID,
		UserID:            r.UserID,
		Name:              r.Name,
		BloodType:         blood.BloodType(r.BloodType),
		Age:               r.Age,
		Weight:            r.Weight,
		LastDonationDate:  last,
		MedicalConditions: r.MedicalConditions,
		EmergencyContact:  r.EmergencyContact,
		Location:          r.Location,
		IsAvailable:       r.IsAvailable,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

type bloodRequestRow struct {
	ID              string    `json:"id"`
	RequesterID     string    `json:"requester_id"`
	PatientName     string    `json:"patient_name"`
	BloodType       string    `json:"blood_type"`
	UnitsNeeded     int       `json:"units_needed"`
	Urgency         string    `json:"urgency"`
	HospitalName    string    `json:"hospital_name"`
	HospitalAddress string    `json:"hospital_address"`
	ContactPhone    string    `json:"contact_phone"`
	AdditionalInfo  string    `json:"additional_info"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toBloodRequestRow(r blood.Request) bloodRequestRow {
	return bloodRequestRow{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		PatientName:     r.PatientName,
		BloodType:       string(r.BloodType),
		UnitsNeeded:     r.UnitsNeeded,
		Urgency:         string(r.Urgency),
		HospitalName:    r.HospitalName,
		HospitalAddress: r.HospitalAddress,
		ContactPhone:    r.ContactPhone,
		AdditionalInfo:  r.AdditionalInfo,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r bloodRequestRow) toRequest() blood.Request {
	status := blood.RequestStatus(r.Status)
	if status == "" {
		status = blood.StatusPending
	}
	urgency := blood.Urgency(r.Urgency)
	if urgency == "" {
		urgency = blood.UrgencyMedium
	}
	return blood.Request{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		PatientName:     r.PatientName,
		BloodType:       blood.BloodType(r.BloodType),
		UnitsNeeded:     r.UnitsNeeded,
		Urgency:         urgency,
		HospitalName:    r.HospitalName,
		HospitalAddress: r.HospitalAddress,
		ContactPhone:    r.ContactPhone,
		AdditionalInfo:  r.AdditionalInfo,
		Status:          status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type BloodRepo struct {
	store recordstore.Store
}

func NewBloodRepo(store recordstore.Store) *BloodRepo {
	return &BloodRepo{store: store}
}

var _ blood.Repository = (*BloodRepo)(nil)

// -------------------------
// Donantes
// -------------------------

func (r *BloodRepo) CreateDonor(ctx context.Context, d blood.Donor) error {
	_, err := r.store.Insert(ctx, recordstore.TableBloodDonors, toDonorRow(d))
	return err
}

func (r *BloodRepo) GetDonor(ctx context.Context, id string) (blood.Donor, error) {
	row, err := getOne[donorRow](ctx, r.store, recordstore.TableBloodDonors, id, blood.ErrNotFound)
	if err != nil {
		return blood.Donor{}, err
	}
	return row.toDonor()
}

func (r *BloodRepo) GetDonorByUser(ctx context.Context, userID string) (blood.Donor, error) {
	rows, err := selectAll[donorRow](ctx, r.store, recordstore.Query{
		Table:   recordstore.TableBloodDonors,
		Filters: []recordstore.Filter{recordstore.Eq("user_id", userID)},
		Order:   newestFirst,
		Limit:   1,
	})
	if err != nil {
		return blood.Donor{}, err
	}
	if len(rows) == 0 {
		return blood.Donor{}, blood.ErrNotFound
	}
	return rows[0].toDonor()
}

func (r *BloodRepo) ListAvailable(ctx context.Context, bloodType blood.BloodType, limit int) ([]blood.Donor, error) {
	filters := []recordstore.Filter{recordstore.Eq("is_available", true)}
	if bloodType != "" {
		filters = append(filters, recordstore.Eq("blood_type", string(bloodType)))
	}
	rows, err := selectAll[donorRow](ctx, r.store, recordstore.Query{
		Table:   recordstore.TableBloodDonors,
		Filters: filters,
		Order:   newestFirst,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]blood.Donor, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDonor()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *BloodRepo) UpdateDonor(ctx context.Context, d blood.Donor) error {
	return update(ctx, r.store, recordstore.TableBloodDonors, d.ID, toDonorRow(d), blood.ErrNotFound)
}

func (r *BloodRepo) DeleteDonor(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, recordstore.TableBloodDonors, id), blood.ErrNotFound)
}

// -------------------------
// Pedidos
// -------------------------

func (r *BloodRepo) CreateRequest(ctx context.Context, br blood.Request) error {
	_, err := r.store.Insert(ctx, recordstore.TableBloodRequests, toBloodRequestRow(br))
	return err
}

func (r *BloodRepo) GetRequest(ctx context.Context, id string) (blood.Request, error) {
	row, err := getOne[bloodRequestRow](ctx, r.store, recordstore.TableBloodRequests, id, blood.ErrNotFound)
	if err != nil {
		return blood.Request{}, err
	}
	return row.toRequest(), nil
}

func (r *BloodRepo) ListRequests(ctx context.Context, status blood.RequestStatus, limit int) ([]blood.Request, error) {
	var filters []recordstore.Filter
	if status != "" {
		filters = append(filters, recordstore.Eq("status", string(status)))
	}
	rows, err := selectAll[bloodRequestRow](ctx, r.store, recordstore.Query{
		Table:   recordstore.TableBloodRequests,
		Filters: filters,
		Order:   newestFirst,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]blood.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRequest())
	}
	return out, nil
}

func (r *BloodRepo) UpdateRequest(ctx context.Context, br blood.Request) error {
	return update(ctx, r.store, recordstore.TableBloodRequests, br.ID, toBloodRequestRow(br), blood.ErrNotFound)
}

func (r *BloodRepo) DeleteRequest(ctx context.Context, id string) error {
	return mapNotFound(r.store.Delete(ctx, recordstore.TableBloodRequests, id), blood.ErrNotFound)
}
