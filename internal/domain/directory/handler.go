package directory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas públicas (sin auth).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/hospitals", listHospitalsHandler(svc))
	r.Get("/hospitals/{hospitalID}", getHospitalHandler(svc))
	r.Get("/doctors/{doctorID}", getDoctorHandler(svc))
	r.Get("/medical-stores", listStoresHandler(svc))
	r.Get("/medical-stores/{storeID}", getStoreHandler(svc))
	r.Get("/stats", statsHandler(svc))
}

// RegisterAdminRoutes se monta bajo /admin, detrás de middleware.RequireAdmin.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/stats", adminStatsHandler(svc))

	r.Post("/hospitals", createHospitalHandler(svc))
	r.Put("/hospitals/{hospitalID}", updateHospitalHandler(svc))
	r.Delete("/hospitals/{hospitalID}", deleteHospitalHandler(svc))

	r.Post("/doctors", createDoctorHandler(svc))
	r.Put("/doctors/{doctorID}", updateDoctorHandler(svc))
	r.Delete("/doctors/{doctorID}", deleteDoctorHandler(svc))

	r.Post("/medical-stores", createStoreHandler(svc))
	r.Put("/medical-stores/{storeID}", updateStoreHandler(svc))
	r.Delete("/medical-stores/{storeID}", deleteStoreHandler(svc))
}

type hospitalRequest struct {
	Name              string   `json:"name"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	Phone             string   `json:"phone"`
	Email             string   `json:"email"`
	Specialities      []string `json:"specialities"`
	EmergencyServices bool     `json:"emergency_services"`
	Rating            float64  `json:"rating"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

func (r hospitalRequest) input() HospitalInput {
	return HospitalInput(r)
}

type doctorRequest struct {
	HospitalID      string   `json:"hospital_id"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	Rating          float64  `json:"rating"`
	Qualification   string   `json:"qualification"`
	ExperienceYears int      `json:"experience_years"`
	ConsultationFee float64  `json:"consultation_fee"`
	AvailableHours  string   `json:"available_hours"`
	AvailableDays   []string `json:"available_days"`
}

func (r doctorRequest) input() DoctorInput {
	return DoctorInput(r)
}

type storeRequest struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	LicenseNumber  string   `json:"license_number"`
	OperatingHours string   `json:"operating_hours"`
	Rating         float64  `json:"rating"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

func (r storeRequest) input() StoreInput {
	return StoreInput(r)
}

type hospitalDetailResponse struct {
	Hospital Hospital `json:"hospital"`
	Doctors  []Doctor `json:"doctors"`
}

type adminStatsResponse struct {
	Counts AdminStats `json:"counts"`
	Recent Recent     `json:"recent"`
}

// @Summary Listar hospitales
// @Description Ordenados por rating desc, máximo 20.
// @Tags directory
// @Produce json
// @Param city query string false "Filtrar por ciudad"
// @Param emergency query bool false "Sólo hospitales con emergencias"
// @Success 200 {array} Hospital
// @Failure 400 {string} string "invalid emergency flag"
// @Router /hospitals [get]
func listHospitalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := HospitalFilter{City: r.URL.Query().Get("city")}
		if v := strings.TrimSpace(r.URL.Query().Get("emergency")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "invalid emergency flag", http.StatusBadRequest)
				return
			}
			f.EmergencyOnly = b
		}

		items, err := svc.ListHospitals(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(items))
	}
}

// @Summary Detalle de hospital con sus médicos
// @Tags directory
// @Produce json
// @Param hospitalID path string true "ID del hospital"
// @Success 200 {object} hospitalDetailResponse
// @Failure 404 {string} string "not found"
// @Router /hospitals/{hospitalID} [get]
func getHospitalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, docs, err := svc.HospitalDetail(r.Context(), chi.URLParam(r, "hospitalID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, hospitalDetailResponse{Hospital: h, Doctors: nonNil(docs)})
	}
}

// @Summary Ver médico
// @Tags directory
// @Produce json
// @Param doctorID path string true "ID del médico"
// @Success 200 {object} Doctor
// @Failure 404 {string} string "not found"
// @Router /doctors/{doctorID} [get]
func getDoctorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDoctor(r.Context(), chi.URLParam(r, "doctorID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// @Summary Listar farmacias
// @Description Ordenadas por rating desc, máximo 20.
// @Tags directory
// @Produce json
// @Param city query string false "Ciudad"
// @Success 200 {array} MedicalStore
// @Router /medical-stores [get]
func listStoresHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListStores(r.Context(), r.URL.Query().Get("city"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(items))
	}
}

// @Summary Ver farmacia
// @Tags directory
// @Produce json
// @Param storeID path string true "ID de la farmacia"
// @Success 200 {object} MedicalStore
// @Failure 404 {string} string "not found"
// @Router /medical-stores/{storeID} [get]
func getStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetStore(r.Context(), chi.URLParam(r, "storeID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// @Summary Contadores del dashboard
// @Tags directory
// @Produce json
// @Success 200 {object} Stats
// @Router /stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// @Summary Contadores y últimas altas (admin)
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-User-Role header string false "Solo en modo dev, rol (admin)"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} adminStatsResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/stats [get]
func adminStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.AdminStats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		recent, err := svc.Recent(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		recent.Hospitals = nonNil(recent.Hospitals)
		recent.Doctors = nonNil(recent.Doctors)
		recent.MedicalStores = nonNil(recent.MedicalStores)
		writeJSON(w, http.StatusOK, adminStatsResponse{Counts: counts, Recent: recent})
	}
}

// @Summary Crear hospital (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body hospitalRequest true "Hospital"
// @Success 201 {object} Hospital
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 403 {string} string "forbidden"
// @Router /admin/hospitals [post]
func createHospitalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hospitalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		h, err := svc.CreateHospital(r.Context(), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, h)
	}
}

// @Summary Editar hospital (admin)
// @Description Reemplaza todos los campos editables.
// @Tags admin
// @Accept json
// @Produce json
// @Param hospitalID path string true "ID del hospital"
// @Param payload body hospitalRequest true "Hospital"
// @Success 200 {object} Hospital
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "not found"
// @Router /admin/hospitals/{hospitalID} [put]
func updateHospitalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hospitalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		h, err := svc.UpdateHospital(r.Context(), chi.URLParam(r, "hospitalID"), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h)
	}
}

// @Summary Borrar hospital (admin)
// @Tags admin
// @Param hospitalID path string true "ID del hospital"
// @Success 204
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "hospital still has doctors"
// @Router /admin/hospitals/{hospitalID} [delete]
func deleteHospitalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteHospital(r.Context(), chi.URLParam(r, "hospitalID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Crear médico (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body doctorRequest true "Médico"
// @Success 201 {object} Doctor
// @Failure 400 {string} string "invalid json / hospital not found"
// @Router /admin/doctors [post]
func createDoctorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		d, err := svc.CreateDoctor(r.Context(), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

// @Summary Editar médico (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param doctorID path string true "ID del médico"
// @Param payload body doctorRequest true "Médico"
// @Success 200 {object} Doctor
// @Failure 400 {string} string "invalid json / hospital not found"
// @Failure 404 {string} string "not found"
// @Router /admin/doctors/{doctorID} [put]
func updateDoctorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		d, err := svc.UpdateDoctor(r.Context(), chi.URLParam(r, "doctorID"), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// @Summary Borrar médico (admin)
// @Tags admin
// @Param doctorID path string true "ID del médico"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /admin/doctors/{doctorID} [delete]
func deleteDoctorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteDoctor(r.Context(), chi.URLParam(r, "doctorID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Crear farmacia (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body storeRequest true "Farmacia"
// @Success 201 {object} MedicalStore
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Router /admin/medical-stores [post]
func createStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req storeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		m, err := svc.CreateStore(r.Context(), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// @Summary Editar farmacia (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param storeID path string true "ID de la farmacia"
// @Param payload body storeRequest true "Farmacia"
// @Success 200 {object} MedicalStore
// @Failure 404 {string} string "not found"
// @Router /admin/medical-stores/{storeID} [put]
func updateStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req storeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		m, err := svc.UpdateStore(r.Context(), chi.URLParam(r, "storeID"), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// @Summary Borrar farmacia (admin)
// @Tags admin
// @Param storeID path string true "ID de la farmacia"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /admin/medical-stores/{storeID} [delete]
func deleteStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteStore(r.Context(), chi.URLParam(r, "storeID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrHospitalNotFound):
		http.Error(w, "hospital not found", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrHospitalHasStaff):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
