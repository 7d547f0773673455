package alert

import (
	"encoding/json"
	"net/http"
	"strings"

	"health-directory/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /alerts. ws puede ser nil (sin bridge de navegador).
func RegisterRoutes(r chi.Router, hub *Hub, ws http.Handler) {
	r.Route("/alerts", func(ar chi.Router) {
		ar.Get("/", alertStateHandler(hub))
		ar.Post("/enable", enableAlertsHandler(hub))
		ar.Post("/disable", disableAlertsHandler(hub))
		ar.Post("/dismiss", dismissAlertHandler(hub))
		if ws != nil {
			ar.Get("/ws", ws.ServeHTTP)
		}
	})
}

type todayItem struct {
	ID            string   `json:"id"`
	MedicineName  string   `json:"medicine_name"`
	Dosage        string   `json:"dosage"`
	ReminderTimes []string `json:"reminder_times"`
}

type stateResponse struct {
	Enabled     bool               `json:"enabled"`
	Alarm       *AlarmState        `json:"alarm"`
	Suppression *SuppressionRecord `json:"suppression"`
	Today       []todayItem        `json:"today"`
}

type dismissResponse struct {
	Dismissed bool          `json:"dismissed"`
	State     stateResponse `json:"state"`
}

func toStateResponse(st State) stateResponse {
	today := make([]todayItem, 0, len(st.Today))
	for _, s := range st.Today {
		today = append(today, todayItem{
			ID:            s.ID,
			MedicineName:  s.MedicineName,
			Dosage:        s.Dosage,
			ReminderTimes: s.ReminderTimes,
		})
	}
	return stateResponse{
		Enabled:     st.Enabled,
		Alarm:       st.Alarm,
		Suppression: st.Suppression,
		Today:       today,
	}
}

// @Summary Estado de alertas
// @Description Devuelve si las alertas están habilitadas, la alarma activa, la última supresión y los recordatorios de hoy.
// @Tags alerts
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} stateResponse
// @Failure 401 {string} string "unauthorized"
// @Router /alerts [get]
func alertStateHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(hub.State(r.Context(), claims.UserID)))
	}
}

// @Summary Habilitar alertas
// @Description Gesto explícito del usuario; hasta entonces ninguna alarma suena ni se muestra.
// @Tags alerts
// @Produce json
// @Success 200 {object} stateResponse
// @Failure 401 {string} string "unauthorized"
// @Router /alerts/enable [post]
func enableAlertsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(hub.Enable(r.Context(), claims.UserID)))
	}
}

// @Summary Deshabilitar alertas
// @Tags alerts
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Router /alerts/disable [post]
func disableAlertsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		hub.Disable(claims.UserID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Descartar la alarma activa
// @Tags alerts
// @Produce json
// @Success 200 {object} dismissResponse
// @Failure 401 {string} string "unauthorized"
// @Router /alerts/dismiss [post]
func dismissAlertHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		dismissed := hub.Dismiss(claims.UserID)
		writeJSON(w, http.StatusOK, dismissResponse{
			Dismissed: dismissed,
			State:     toStateResponse(hub.State(r.Context(), claims.UserID)),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
