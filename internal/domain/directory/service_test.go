package directory

import (
	"errors"
	"math"
	"testing"
)

func TestHospitalInput_Validation(t *testing.T) {
	badLat := 91.0
	cases := map[string]HospitalInput{
		"missing name": {Address: "a", City: "c"},
		"missing city": {Name: "n", Address: "a"},
		"rating > 5":   {Name: "n", Address: "a", City: "c", Rating: 5.1},
		"negative":     {Name: "n", Address: "a", City: "c", Rating: -1},
		"nan rating":   {Name: "n", Address: "a", City: "c", Rating: math.NaN()},
		"bad latitude": {Name: "n", Address: "a", City: "c", Latitude: &badLat},
	}
	for name, in := range cases {
		var h Hospital
		if err := in.build(&h); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}

	var h Hospital
	err := HospitalInput{Name: " Ruby ", Address: "a", City: " Pune ", Rating: 5, Specialities: []string{"", "ENT"}}.build(&h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Name != "Ruby" || h.City != "Pune" || len(h.Specialities) != 1 {
		t.Fatalf("not normalized: %+v", h)
	}
}

func TestDoctorInput_Validation(t *testing.T) {
	var d Doctor
	if err := (DoctorInput{Name: "Dr", Specialization: "ENT"}).build(&d); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("hospital_id required, got %v", err)
	}
	if err := (DoctorInput{HospitalID: "h", Name: "Dr", Specialization: "ENT", ExperienceYears: -1}).build(&d); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative experience accepted")
	}
	if err := (DoctorInput{HospitalID: "h", Name: "Dr", Specialization: "ENT", AvailableDays: []string{"Mon", " "}}).build(&d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.AvailableDays) != 1 {
		t.Fatalf("days not cleaned: %v", d.AvailableDays)
	}
}

func TestStoreInput_Validation(t *testing.T) {
	var m MedicalStore
	badLng := -181.0
	if err := (StoreInput{Name: "n", Address: "a", City: "c", Longitude: &badLng}).build(&m); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad longitude accepted")
	}
	if err := (StoreInput{Name: "n", Address: "a", City: "c", LicenseNumber: " L-1 "}).build(&m); err != nil || m.LicenseNumber != "L-1" {
		t.Fatalf("build = %v, %+v", err, m)
	}
}
