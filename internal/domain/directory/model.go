package directory

import "time"

// Límites de listados públicos.
const (
	PublicListLimit = 20
	RecentLimit     = 10
)

// Hospital del directorio público.
type Hospital struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Specialities      []string  `json:"specialities"`
	EmergencyServices bool      `json:"emergency_services"`
	Rating            float64   `json:"rating"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Doctor siempre pertenece a un hospital existente.
type Doctor struct {
	ID              string    `json:"id"`
	HospitalID      string    `json:"hospital_id"`
	Name            string    `json:"name"`
	Specialization  string    `json:"specialization"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Rating          float64   `json:"rating"`
	Qualification   string    `json:"qualification"`
	ExperienceYears int       `json:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee"`
	AvailableHours  string    `json:"available_hours"`
	AvailableDays   []string  `json:"available_days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MedicalStore es una farmacia.
type MedicalStore struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	LicenseNumber  string    `json:"license_number"`
	OperatingHours string    `json:"operating_hours"`
	Rating         float64   `json:"rating"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HospitalFilter: City vacío = todas; Limit 0 = PublicListLimit.
type HospitalFilter struct {
	City          string
	EmergencyOnly bool
	Limit         int
}

// Stats son los contadores del dashboard público.
type Stats struct {
	Hospitals     int `json:"hospitals"`
	Doctors       int `json:"doctors"`
	MedicalStores int `json:"medical_stores"`
	BloodDonors   int `json:"blood_donors"`
}

// AdminStats suma usuarios y pedidos de sangre.
type AdminStats struct {
	Stats
	Users         int `json:"users"`
	BloodRequests int `json:"blood_requests"`
}

// Recent son las últimas altas, para el panel de admin.
type Recent struct {
	Hospitals     []Hospital     `json:"hospitals"`
	Doctors       []Doctor       `json:"doctors"`
	MedicalStores []MedicalStore `json:"medical_stores"`
}
