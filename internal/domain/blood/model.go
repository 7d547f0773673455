package blood

import (
	"strings"
	"time"
)

type BloodType string

const (
	APos  BloodType = "A+"
	ANeg  BloodType = "A-"
	BPos  BloodType = "B+"
	BNeg  BloodType = "B-"
	ABPos BloodType = "AB+"
	ABNeg BloodType = "AB-"
	OPos  BloodType = "O+"
	ONeg  BloodType = "O-"
)

// AllTypes en el orden en que se muestran.
var AllTypes = []BloodType{APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg}

// compatibility: receptor -> tipos de donante aceptados.
var compatibility = map[BloodType][]BloodType{
	APos:  {APos, ANeg, OPos, ONeg},
	ANeg:  {ANeg, ONeg},
	BPos:  {BPos, BNeg, OPos, ONeg},
	BNeg:  {BNeg, ONeg},
	ABPos: {APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg},
	ABNeg: {ANeg, BNeg, ABNeg, ONeg},
	OPos:  {OPos, ONeg},
	ONeg:  {ONeg},
}

func (t BloodType) Valid() bool {
	_, ok := compatibility[t]
	return ok
}

// ParseBloodType normaliza mayúsculas. En query strings el "+" llega
// como espacio ("A " => "A+").
func ParseBloodType(s string) (BloodType, bool) {
	s = strings.ToUpper(strings.TrimLeft(s, " "))
	if strings.HasSuffix(s, " ") {
		s = strings.TrimRight(s, " ")
		if !strings.HasSuffix(s, "+") && !strings.HasSuffix(s, "-") {
			s += "+"
		}
	}
	t := BloodType(s)
	return t, t.Valid()
}

// DonorsFor devuelve los tipos que pueden donar al receptor (copia).
func DonorsFor(recipient BloodType) []BloodType {
	return append([]BloodType(nil), compatibility[recipient]...)
}

// CanDonate: ¿donor puede donar a recipient?
func CanDonate(donor, recipient BloodType) bool {
	for _, t := range compatibility[recipient] {
		if t == donor {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusActive    RequestStatus = "active"
	StatusFulfilled RequestStatus = "fulfilled"
	StatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// Donor: un perfil de donante por usuario.
type Donor struct {
	ID                string
	UserID            string
	Name              string
	BloodType         BloodType
	Age               int
	Weight            float64
	LastDonationDate  *time.Time
	MedicalConditions string
	EmergencyContact  string
	Location          string
	IsAvailable       bool
	Latitude          *float64
	Longitude         *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Request es un pedido de sangre publicado por un usuario.
type Request struct {
	ID              string
	RequesterID     string
	PatientName     string
	BloodType       BloodType
	UnitsNeeded     int
	Urgency         Urgency
	HospitalName    string
	HospitalAddress string
	ContactPhone    string
	AdditionalInfo  string
	Status          RequestStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
