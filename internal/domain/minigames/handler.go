package minigames

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pets/{petID}/minigames", startSessionHandler(svc))
	r.Get("/pets/{petID}/minigames", listSessionsHandler(svc))
	r.Post("/minigames/{sessionID}/complete", completeSessionHandler(svc))
}

type startSessionRequest struct {
	GameType string `json:"game_type" enums:"memory_match,reflex_tap,rhythm_sync,puzzle_dash"`
	IsCoop   bool   `json:"is_coop"`
}

type completeSessionRequest struct {
	RawScore    int  `json:"raw_score"`
	Accuracy    int  `json:"accuracy"`
	ActionCount int  `json:"action_count"`
	SyncDeltaMs *int `json:"sync_delta_ms"`
}

type sessionResponse struct {
	ID           string     `json:"id"`
	PetID        string     `json:"pet_id"`
	GameType     string     `json:"game_type"`
	Participants []string   `json:"participants"`
	IsCoop       bool       `json:"is_coop"`
	RawScore     int        `json:"raw_score"`
	Accuracy     int        `json:"accuracy"`
	FinalScore   int        `json:"final_score"`
	Rank         string     `json:"rank,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type completeSessionResponse struct {
	Session   sessionResponse  `json:"session"`
	XPAwarded int              `json:"xp_awarded"`
	Evolved   bool             `json:"evolved"`
	Pet       pets.PetResponse `json:"pet"`
}

// startSessionHandler godoc
// @Summary Iniciar mini-juego
// @Description Crea una sesión de mini-juego para el pet. En co-op el partner queda como participante.
// @Tags minigames
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body startSessionRequest true "Tipo de juego y modo"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "invalid json / game type desconocido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/minigames [post]
func startSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")

		var req startSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.Start(r.Context(), petID, claims.UserID, StartInput{
			GameType: GameType(strings.TrimSpace(req.GameType)),
			IsCoop:   req.IsCoop,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// completeSessionHandler godoc
// @Summary Completar mini-juego
// @Description Valida plausibilidad, congela el score final (con multiplicadores co-op y de accuracy) y alimenta el XP de bonus al pet. Resultados implausibles descartan la sesión (422).
// @Tags minigames
// @Accept json
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Param payload body completeSessionRequest true "Resultado crudo"
// @Success 200 {object} completeSessionResponse
// @Failure 400 {string} string "invalid json / valores fuera de rango"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "session not found"
// @Failure 409 {string} string "sesión ya completada / conflicto, reintentar"
// @Failure 422 {string} string "resultado implausible, sesión descartada"
// @Router /minigames/{sessionID}/complete [post]
func completeSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID := chi.URLParam(r, "sessionID")

		var req completeSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Complete(r.Context(), sessionID, claims.UserID, CompleteInput{
			RawScore:    req.RawScore,
			Accuracy:    req.Accuracy,
			ActionCount: req.ActionCount,
			SyncDeltaMs: req.SyncDeltaMs,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrImplausible):
				http.Error(w, "implausible result, session discarded", http.StatusUnprocessableEntity)
			case errors.Is(err, ErrSealed):
				http.Error(w, "session already completed", http.StatusConflict)
			case errors.Is(err, pets.ErrConflict):
				http.Error(w, "concurrent update, retry", http.StatusConflict)
			default:
				writeServiceError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, completeSessionResponse{
			Session:   toSessionResponse(res.Session),
			XPAwarded: res.XPAwarded,
			Evolved:   res.Evolved,
			Pet:       pets.ToPetResponse(res.Pet),
		})
	}
}

// listSessionsHandler godoc
// @Summary Listar sesiones de mini-juego
// @Tags minigames
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de sesiones (1-200). Por defecto 50"
// @Success 200 {array} sessionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/minigames [get]
func listSessionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		items, err := svc.ListByPet(r.Context(), petID, claims.UserID, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]sessionResponse, 0, len(items))
		for _, sess := range items {
			out = append(out, toSessionResponse(sess))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toSessionResponse(s Session) sessionResponse {
	rank := ""
	if s.Sealed() {
		rank = string(s.Rank)
	}
	return sessionResponse{
		ID:           s.ID,
		PetID:        s.PetID,
		GameType:     string(s.GameType),
		Participants: s.Participants,
		IsCoop:       s.IsCoop,
		RawScore:     s.RawScore,
		Accuracy:     s.Accuracy,
		FinalScore:   s.FinalScore,
		Rank:         rank,
		StartedAt:    s.StartedAt,
		CompletedAt:  s.CompletedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
