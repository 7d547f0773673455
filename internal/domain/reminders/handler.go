package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-directory/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/", listRemindersHandler(svc))
		rr.Post("/", createReminderHandler(svc))
		rr.Get("/today", todayRemindersHandler(svc))

		rr.Get("/{reminderID}", getReminderHandler(svc))
		rr.Put("/{reminderID}", updateReminderHandler(svc))
		rr.Delete("/{reminderID}", deleteReminderHandler(svc))
		rr.Post("/{reminderID}/pause", setActiveHandler(svc, false))
		rr.Post("/{reminderID}/resume", setActiveHandler(svc, true))
	})
}

type createReminderRequest struct {
	MedicineName  string    `json:"medicine_name"`
	Dosage        string    `json:"dosage"`
	Frequency     Frequency `json:"frequency"`
	ReminderTimes []string  `json:"reminder_times"`
	StartDate     string    `json:"start_date"`         // YYYY-MM-DD
	EndDate       string    `json:"end_date,omitempty"` // YYYY-MM-DD opcional
	Notes         string    `json:"notes"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

// updateReminderRequest: campos ausentes no se tocan; end_date "" la borra.
type updateReminderRequest struct {
	MedicineName  *string    `json:"medicine_name"`
	Dosage        *string    `json:"dosage"`
	Frequency     *Frequency `json:"frequency"`
	ReminderTimes []string   `json:"reminder_times"`
	StartDate     *string    `json:"start_date"`
	EndDate       *string    `json:"end_date"`
	Notes         *string    `json:"notes"`
	IsActive      *bool      `json:"is_active"`
}

type reminderResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	MedicineName  string    `json:"medicine_name"`
	Dosage        string    `json:"dosage"`
	Frequency     Frequency `json:"frequency"`
	ReminderTimes []string  `json:"reminder_times"`
	StartDate     string    `json:"start_date"`
	EndDate       *string   `json:"end_date,omitempty"`
	Notes         string    `json:"notes"`
	IsActive      bool      `json:"is_active"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// @Summary Crear recordatorio de medicina
// @Description Crea un recordatorio para el usuario autenticado. Si reminder_times viene vacío se usan los horarios por defecto de la frecuencia.
// @Tags reminders
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createReminderRequest true "Datos del recordatorio"
// @Success 201 {object} reminderResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /reminders [post]
func createReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := ParseDate(req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := ParseDate(req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		sc, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			MedicineName:  req.MedicineName,
			Dosage:        req.Dosage,
			Frequency:     req.Frequency,
			ReminderTimes: req.ReminderTimes,
			StartDate:     start,
			EndDate:       end,
			Notes:         req.Notes,
			IsActive:      req.IsActive,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReminderResponse(sc, svc.now()))
	}
}

// @Summary Listar mis recordatorios
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponses(items, svc.now()))
	}
}

// @Summary Recordatorios activos hoy
// @Tags reminders
// @Produce json
// @Success 200 {array} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/today [get]
func todayRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Today(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponses(items, svc.now()))
	}
}

// @Summary Ver recordatorio
// @Tags reminders
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Success 200 {object} reminderResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID} [get]
func getReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sc, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "reminderID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponse(sc, svc.now()))
	}
}

// @Summary Editar recordatorio
// @Description Sólo el dueño. Campos ausentes no se modifican; end_date "" quita la fecha de fin.
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Param payload body updateReminderRequest true "Campos a modificar"
// @Success 200 {object} reminderResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID} [put]
func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			MedicineName:  req.MedicineName,
			Dosage:        req.Dosage,
			Frequency:     req.Frequency,
			ReminderTimes: req.ReminderTimes,
			Notes:         req.Notes,
			IsActive:      req.IsActive,
		}
		if req.StartDate != nil {
			t, err := ParseDate(*req.StartDate)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &t
		}
		if req.EndDate != nil {
			if strings.TrimSpace(*req.EndDate) == "" {
				in.ClearEndDate = true
			} else {
				t, err := ParseDate(*req.EndDate)
				if err != nil {
					http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
					return
				}
				in.EndDate = &t
			}
		}

		sc, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "reminderID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponse(sc, svc.now()))
	}
}

// @Summary Borrar recordatorio
// @Tags reminders
// @Param reminderID path string true "ID del recordatorio"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID} [delete]
func deleteReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "reminderID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Pausar / reanudar recordatorio
// @Tags reminders
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Success 200 {object} reminderResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID}/pause [post]
// @Router /reminders/{reminderID}/resume [post]
func setActiveHandler(svc *Service, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sc, err := svc.SetActive(r.Context(), claims.UserID, chi.URLParam(r, "reminderID"), active)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponse(sc, svc.now()))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reminder not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toReminderResponse(s Schedule, now time.Time) reminderResponse {
	var end *string
	if s.EndDate != nil {
		v := s.EndDate.Format(DateLayout)
		end = &v
	}
	times := s.ReminderTimes
	if times == nil {
		times = []string{}
	}
	return reminderResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		MedicineName:  s.MedicineName,
		Dosage:        s.Dosage,
		Frequency:     s.Frequency,
		ReminderTimes: times,
		StartDate:     s.StartDate.Format(DateLayout),
		EndDate:       end,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		Status:        s.Status(now),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toReminderResponses(items []Schedule, now time.Time) []reminderResponse {
	out := make([]reminderResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toReminderResponse(s, now))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
