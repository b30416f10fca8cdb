package couples

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"couple-pet-care/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/couples", pairHandler(svc))
	r.Get("/me/couple", myCoupleHandler(svc))
}

type pairRequest struct {
	PartnerUserID string `json:"partner_user_id"`
}

type coupleResponse struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// pairHandler godoc
// @Summary Crear pareja
// @Description Empareja al usuario autenticado con su partner. El código de invitación ya fue validado por el servicio de pairing; aquí solo llega el user id resuelto.
// @Tags couples
// @Accept json
// @Produce json
// @Param payload body pairRequest true "ID del partner"
// @Success 201 {object} coupleResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "already paired"
// @Router /couples [post]
func pairHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req pairRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Pair(r.Context(), claims.UserID, req.PartnerUserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrAlreadyPaired):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toCoupleResponse(c))
	}
}

// myCoupleHandler godoc
// @Summary Mi pareja
// @Description Devuelve la pareja activa del usuario autenticado.
// @Tags couples
// @Produce json
// @Success 200 {object} coupleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not paired"
// @Router /me/couple [get]
func myCoupleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.CoupleOf(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "not paired", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toCoupleResponse(c))
	}
}

func toCoupleResponse(c Couple) coupleResponse {
	return coupleResponse{
		ID:        c.ID,
		UserAID:   c.UserAID,
		UserBID:   c.UserBID,
		CreatedAt: c.CreatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (mismo criterio que en el resto del proyecto: no crear helpers compartidos
// hasta que duela).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
