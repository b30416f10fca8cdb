package evolution

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pets/{petID}/evolution/check", checkEvolutionHandler(svc))
	r.Get("/pets/{petID}/milestones", listMilestonesHandler(svc))
}

type checkEvolutionResponse struct {
	HasEvolved    bool             `json:"has_evolved"`
	PreviousStage string           `json:"previous_stage"`
	CurrentStage  string           `json:"current_stage"`
	Pet           pets.PetResponse `json:"pet"`
}

type milestoneResponse struct {
	ID            string    `json:"id"`
	CoupleID      string    `json:"couple_id"`
	Type          string    `json:"type"`
	UnlockedStage string    `json:"unlocked_stage,omitempty"`
	AchievedAt    time.Time `json:"achieved_at"`
}

// checkEvolutionHandler godoc
// @Summary Chequear evolución
// @Description Re-evalúa los umbrales de evolución del pet. Idempotente: si no alcanza XP/racha no pasa nada. Avanza como máximo una etapa por llamada.
// @Tags evolution
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} checkEvolutionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "conflicto de escritura concurrente, reintentar"
// @Failure 429 {string} string "rate limited"
// @Router /pets/{petID}/evolution/check [post]
func checkEvolutionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		res, err := svc.Check(r.Context(), petID, claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrUnauthorized):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, pets.ErrConflict):
				http.Error(w, "concurrent update, retry", http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, checkEvolutionResponse{
			HasEvolved:    res.HasEvolved,
			PreviousStage: string(res.PreviousStage),
			CurrentStage:  string(res.CurrentStage),
			Pet:           pets.ToPetResponse(res.Pet),
		})
	}
}

// listMilestonesHandler godoc
// @Summary Listar milestones de la pareja
// @Tags evolution
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} milestoneResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/milestones [get]
func listMilestonesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		items, err := svc.ListMilestones(r.Context(), petID, claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrUnauthorized):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]milestoneResponse, 0, len(items))
		for _, m := range items {
			out = append(out, milestoneResponse{
				ID:            m.ID,
				CoupleID:      m.CoupleID,
				Type:          string(m.Type),
				UnlockedStage: string(m.UnlockedStage),
				AchievedAt:    m.AchievedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
