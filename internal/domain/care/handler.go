package care

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/care", func(cr chi.Router) {
		cr.Post("/", performCareHandler(svc))
		cr.Get("/", listCareHandler(svc))
	})
}

type performCareRequest struct {
	ActionType string `json:"action_type" enums:"feed,play,walk,pet,groom,train,sleep,bath"`
}

type performCareResponse struct {
	Accepted      bool             `json:"accepted"`
	Pet           pets.PetResponse `json:"pet"`
	XPAwarded     int              `json:"xp_awarded"`
	Evolved       bool             `json:"evolved"`
	PreviousStage string           `json:"previous_stage,omitempty"`
	CoopBonus     bool             `json:"coop_bonus"`
}

type careErrorResponse struct {
	Accepted          bool   `json:"accepted"`
	Reason            string `json:"reason"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

type careActionResponse struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet_id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	PerformedAt time.Time `json:"performed_at"`
	XPAwarded   int       `json:"xp_awarded"`
	CoopBonus   bool      `json:"coop_bonus"`
}

// performCareHandler godoc
// @Summary Realizar acción de cuidado
// @Description Endpoint autoritativo: re-deriva stats por decaimiento, valida cooldown y ownership en servidor y aplica la acción de forma atómica. Un cooldown activo o una carrera perdida devuelven 409 reintentable con retry_after_seconds.
// @Tags care
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body performCareRequest true "Tipo de acción"
// @Success 200 {object} performCareResponse
// @Failure 400 {object} careErrorResponse "INVALID_ACTION_TYPE / invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {object} careErrorResponse "COOLDOWN_ACTIVE / CONFLICT"
// @Failure 429 {string} string "rate limited"
// @Router /pets/{petID}/care [post]
func performCareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")

		var req performCareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Perform(r.Context(), petID, claims.UserID, ActionType(strings.TrimSpace(req.ActionType)))
		if err != nil {
			var cd *CooldownError
			switch {
			case errors.As(err, &cd):
				writeJSON(w, http.StatusConflict, careErrorResponse{
					Accepted:          false,
					Reason:            ReasonCooldownActive,
					RetryAfterSeconds: int(math.Ceil(cd.RetryAfter.Seconds())),
				})
			case errors.Is(err, pets.ErrConflict):
				// Para el caller es indistinguible de un cooldown: esperar y
				// reintentar.
				writeJSON(w, http.StatusConflict, careErrorResponse{
					Accepted: false,
					Reason:   "CONFLICT",
				})
			case errors.Is(err, ErrInvalidAction):
				writeJSON(w, http.StatusBadRequest, careErrorResponse{
					Accepted: false,
					Reason:   "INVALID_ACTION_TYPE",
				})
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrUnauthorized):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, performCareResponse{
			Accepted:      true,
			Pet:           pets.ToPetResponse(res.Pet),
			XPAwarded:     res.XPAwarded,
			Evolved:       res.Evolved,
			PreviousStage: stageIfEvolved(res),
			CoopBonus:     res.Action.CoopBonus,
		})
	}
}

func stageIfEvolved(res PerformResult) string {
	if !res.Evolved {
		return ""
	}
	return string(res.PreviousStage)
}

// listCareHandler godoc
// @Summary Listar log de cuidados
// @Description Devuelve el log append-only de acciones de cuidado del pet. Permite filtrar por tipos, rango de fechas y limitar resultados.
// @Tags care
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de entradas (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: feed,play)"
// @Param from query string false "performed_at mínimo (RFC3339)"
// @Param to query string false "performed_at máximo (RFC3339)"
// @Success 200 {array} careActionResponse
// @Failure 400 {string} string "filtros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/care [get]
func listCareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.History(r.Context(), petID, claims.UserID, filter)
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

		out := make([]careActionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, careActionResponse{
				ID:          a.ID,
				PetID:       a.PetID,
				UserID:      a.UserID,
				Type:        string(a.Type),
				PerformedAt: a.PerformedAt,
				XPAwarded:   a.XPAwarded,
				CoopBonus:   a.CoopBonus,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	if v := strings.TrimSpace(r.URL.Query().Get("types")); v != "" {
		parts := strings.Split(v, ",")
		out := make([]ActionType, 0, len(parts))
		for _, p := range parts {
			t := ActionType(strings.TrimSpace(p))
			if t == "" {
				continue
			}
			out = append(out, t)
		}
		if len(out) > 0 {
			filter.Types = out
		}
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
