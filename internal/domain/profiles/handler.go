package profiles

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
	r.Get("/me/profile", getMeHandler(svc))
	r.Patch("/me/profile", updateMeHandler(svc))
}

// RegisterAdminRoutes se monta bajo /admin.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Put("/users/{userID}/role", setRoleHandler(svc))
}

type profileResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// @Summary Mi perfil
// @Description Crea el perfil con rol user si no existe.
// @Tags profiles
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/profile [get]
func getMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Me(r.Context(), claims)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// @Summary Editar mi perfil
// @Tags profiles
// @Accept json
// @Produce json
// @Param payload body updateProfileRequest true "Campos a modificar"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Router /me/profile [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateMe(r.Context(), claims, UpdateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// @Summary Cambiar rol de un usuario (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "ID del usuario"
// @Param payload body setRoleRequest true "Rol: user | admin"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid role"
// @Failure 404 {string} string "profile not found"
// @Router /admin/users/{userID}/role [put]
func setRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.SetRole(r.Context(), chi.URLParam(r, "userID"), req.Role)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		City:      p.City,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
