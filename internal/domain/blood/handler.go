package blood

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-directory/internal/middleware"
	"health-directory/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /blood. roles decide si quien cambia el estado de un
// pedido ajeno es admin (puede ser nil).
func RegisterRoutes(r chi.Router, svc *Service, roles middleware.RoleLookup) {
	r.Route("/blood", func(br chi.Router) {
		br.Get("/types", bloodTypesHandler())

		br.Get("/donors", listDonorsHandler(svc))
		br.Get("/donors/compatible", compatibleDonorsHandler(svc))
		br.Get("/donors/me", getMyDonorHandler(svc))
		br.Put("/donors/me", registerDonorHandler(svc))
		br.Post("/donors/me/toggle", toggleAvailabilityHandler(svc))

		br.Get("/requests", listRequestsHandler(svc))
		br.Post("/requests", createRequestHandler(svc))
		br.Get("/requests/{requestID}", getRequestHandler(svc))
		br.Put("/requests/{requestID}/status", setRequestStatusHandler(svc, roles))
	})
}

// RegisterAdminRoutes se monta bajo /admin.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Delete("/blood/donors/{donorID}", deleteDonorHandler(svc))
	r.Delete("/blood/requests/{requestID}", deleteRequestHandler(svc))
}

type donorRequest struct {
	Name              string    `json:"name"`
	BloodType         BloodType `json:"blood_type"`
	Age               int       `json:"age"`
	Weight            float64   `json:"weight"`
	LastDonationDate  string    `json:"last_donation_date,omitempty"` // YYYY-MM-DD
	MedicalConditions string    `json:"medical_conditions"`
	EmergencyContact  string    `json:"emergency_contact"`
	Location          string    `json:"location"`
	IsAvailable       *bool     `json:"is_available,omitempty"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
}

type donorResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	BloodType         BloodType `json:"blood_type"`
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

type bloodRequestRequest struct {
	PatientName     string    `json:"patient_name"`
	BloodType       BloodType `json:"blood_type"`
	UnitsNeeded     int       `json:"units_needed"`
	Urgency         Urgency   `json:"urgency"`
	HospitalName    string    `json:"hospital_name"`
	HospitalAddress string    `json:"hospital_address"`
	ContactPhone    string    `json:"contact_phone"`
	AdditionalInfo  string    `json:"additional_info"`
}

type bloodRequestResponse struct {
	ID              string        `json:"id"`
	RequesterID     string        `json:"requester_id"`
	PatientName     string        `json:"patient_name"`
	BloodType       BloodType     `json:"blood_type"`
	UnitsNeeded     int           `json:"units_needed"`
	Urgency         Urgency       `json:"urgency"`
	HospitalName    string        `json:"hospital_name"`
	HospitalAddress string        `json:"hospital_address"`
	ContactPhone    string        `json:"contact_phone"`
	AdditionalInfo  string        `json:"additional_info"`
	Status          RequestStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type setStatusRequest struct {
	Status RequestStatus `json:"status"`
}

type bloodTypeInfo struct {
	Type           BloodType   `json:"type"`
	CanReceiveFrom []BloodType `json:"can_receive_from"`
}

// @Summary Tipos de sangre y compatibilidad
// @Tags blood
// @Produce json
// @Success 200 {array} bloodTypeInfo
// @Router /blood/types [get]
func bloodTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]bloodTypeInfo, 0, len(AllTypes))
		for _, t := range AllTypes {
			out = append(out, bloodTypeInfo{Type: t, CanReceiveFrom: DonorsFor(t)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Donantes disponibles
// @Description Más recientes primero, máximo 20.
// @Tags blood
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param blood_type query string false "Tipo de sangre (A+, O-, ...)"
// @Success 200 {array} donorResponse
// @Failure 400 {string} string "invalid blood_type"
// @Failure 401 {string} string "unauthorized"
// @Router /blood/donors [get]
func listDonorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		var bt BloodType
		if raw := r.URL.Query().Get("blood_type"); strings.TrimSpace(raw) != "" {
			t, ok := ParseBloodType(raw)
			if !ok {
				http.Error(w, "invalid blood_type", http.StatusBadRequest)
				return
			}
			bt = t
		}

		items, err := svc.AvailableDonors(r.Context(), bt)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDonorResponses(items))
	}
}

// @Summary Donantes compatibles con un receptor
// @Tags blood
// @Produce json
// @Param recipient query string true "Tipo de sangre del receptor"
// @Success 200 {array} donorResponse
// @Failure 400 {string} string "invalid recipient"
// @Failure 401 {string} string "unauthorized"
// @Router /blood/donors/compatible [get]
func compatibleDonorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		recipient, ok := ParseBloodType(r.URL.Query().Get("recipient"))
		if !ok {
			http.Error(w, "invalid recipient", http.StatusBadRequest)
			return
		}

		items, err := svc.CompatibleDonors(r.Context(), recipient)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDonorResponses(items))
	}
}

// @Summary Mi perfil de donante
// @Tags blood
// @Produce json
// @Success 200 {object} donorResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user is not a registered donor"
// @Router /blood/donors/me [get]
func getMyDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		d, err := svc.MyDonor(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDonorResponse(d))
	}
}

// @Summary Registrar / actualizar mi perfil de donante
// @Description Un perfil por usuario: 201 si se creó, 200 si se actualizó.
// @Tags blood
// @Accept json
// @Produce json
// @Param payload body donorRequest true "Datos del donante"
// @Success 200 {object} donorResponse
// @Success 201 {object} donorResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /blood/donors/me [put]
func registerDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req donorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bt, _ := ParseBloodType(string(req.BloodType))
		in := DonorInput{
			Name:              req.Name,
			BloodType:         bt,
			Age:               req.Age,
			Weight:            req.Weight,
			MedicalConditions: req.MedicalConditions,
			EmergencyContact:  req.EmergencyContact,
			Location:          req.Location,
			IsAvailable:       req.IsAvailable,
			Latitude:          req.Latitude,
			Longitude:         req.Longitude,
		}
		if strings.TrimSpace(req.LastDonationDate) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.LastDonationDate))
			if err != nil {
				http.Error(w, "last_donation_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.LastDonationDate = &t
		}

		d, created, err := svc.RegisterDonor(r.Context(), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toDonorResponse(d))
	}
}

// @Summary Alternar disponibilidad
// @Tags blood
// @Produce json
// @Success 200 {object} donorResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user is not a registered donor"
// @Router /blood/donors/me/toggle [post]
func toggleAvailabilityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		d, err := svc.ToggleAvailability(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDonorResponse(d))
	}
}

// @Summary Listar pedidos de sangre
// @Tags blood
// @Produce json
// @Param status query string false "pending | active | fulfilled | cancelled"
// @Success 200 {array} bloodRequestResponse
// @Failure 400 {string} string "invalid status"
// @Failure 401 {string} string "unauthorized"
// @Router /blood/requests [get]
func listRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		status := RequestStatus(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
		items, err := svc.ListRequests(r.Context(), status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

// @Summary Publicar pedido de sangre
// @Description El estado inicial es pending; urgency por defecto medium.
// @Tags blood
// @Accept json
// @Produce json
// @Param payload body bloodRequestRequest true "Pedido"
// @Success 201 {object} bloodRequestResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /blood/requests [post]
func createRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req bloodRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bt, _ := ParseBloodType(string(req.BloodType))
		br, err := svc.CreateRequest(r.Context(), claims.UserID, RequestInput{
			PatientName:     req.PatientName,
			BloodType:       bt,
			UnitsNeeded:     req.UnitsNeeded,
			Urgency:         Urgency(strings.ToLower(strings.TrimSpace(string(req.Urgency)))),
			HospitalName:    req.HospitalName,
			HospitalAddress: req.HospitalAddress,
			ContactPhone:    req.ContactPhone,
			AdditionalInfo:  req.AdditionalInfo,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRequestResponse(br))
	}
}

// @Summary Ver pedido de sangre
// @Tags blood
// @Produce json
// @Param requestID path string true "ID del pedido"
// @Success 200 {object} bloodRequestResponse
// @Failure 404 {string} string "not found"
// @Router /blood/requests/{requestID} [get]
func getRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}

		br, err := svc.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(br))
	}
}

// @Summary Cambiar estado de un pedido
// @Description Sólo quien lo publicó o un admin.
// @Tags blood
// @Accept json
// @Produce json
// @Param requestID path string true "ID del pedido"
// @Param payload body setStatusRequest true "Nuevo estado"
// @Success 200 {object} bloodRequestResponse
// @Failure 400 {string} string "invalid status"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /blood/requests/{requestID}/status [put]
func setRequestStatusHandler(svc *Service, roles middleware.RoleLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		br, err := svc.SetRequestStatus(r.Context(), claims.UserID, isAdmin(r, claims, roles),
			chi.URLParam(r, "requestID"), RequestStatus(strings.ToLower(strings.TrimSpace(string(req.Status)))))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(br))
	}
}

// @Summary Borrar donante (admin)
// @Tags admin
// @Param donorID path string true "ID del donante"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /admin/blood/donors/{donorID} [delete]
func deleteDonorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteDonor(r.Context(), chi.URLParam(r, "donorID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Borrar pedido de sangre (admin)
// @Tags admin
// @Param requestID path string true "ID del pedido"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /admin/blood/requests/{requestID} [delete]
func deleteRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteRequest(r.Context(), chi.URLParam(r, "requestID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

func isAdmin(r *http.Request, c auth.Claims, roles middleware.RoleLookup) bool {
	if c.IsAdmin() {
		return true
	}
	if roles == nil {
		return false
	}
	role, err := roles.RoleOf(r.Context(), c.UserID)
	return err == nil && role == auth.RoleAdmin
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotDonor):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDonorResponse(d Donor) donorResponse {
	var last *string
	if d.LastDonationDate != nil {
		v := d.LastDonationDate.Format("2006-01-02")
		last = &v
	}
	return donorResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		Name:              d.Name,
		BloodType:         d.BloodType,
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

func toDonorResponses(items []Donor) []donorResponse {
	out := make([]donorResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDonorResponse(d))
	}
	return out
}

func toRequestResponse(r Request) bloodRequestResponse {
	return bloodRequestResponse{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		PatientName:     r.PatientName,
		BloodType:       r.BloodType,
		UnitsNeeded:     r.UnitsNeeded,
		Urgency:         r.Urgency,
		HospitalName:    r.HospitalName,
		HospitalAddress: r.HospitalAddress,
		ContactPhone:    r.ContactPhone,
		AdditionalInfo:  r.AdditionalInfo,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toRequestResponses(items []Request) []bloodRequestResponse {
	out := make([]bloodRequestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toRequestResponse(r))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
