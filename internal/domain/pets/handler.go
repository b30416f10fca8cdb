package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, couplesSvc *couples.Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, couplesSvc))
		pr.Get("/", listPetsHandler(svc, couplesSvc))
		pr.Get("/{petID}", getPetHandler(svc, couplesSvc))
	})
}

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species" enums:"dog,cat,rabbit,hamster"`
}

// PetResponse es el snapshot de mascota que devuelven todos los endpoints.
// Exportado porque care/evolution/minigames lo reutilizan en sus respuestas.
type PetResponse struct {
	ID       string `json:"id"`
	CoupleID string `json:"couple_id"`
	Name     string `json:"name"`
	Species  string `json:"species"`
	Stage    string `json:"stage"`

	Hunger      int `json:"hunger"`
	Happiness   int `json:"happiness"`
	Energy      int `json:"energy"`
	Cleanliness int `json:"cleanliness"`

	Playful       int    `json:"playful"`
	Calm          int    `json:"calm"`
	Mischievous   int    `json:"mischievous"`
	Affectionate  int    `json:"affectionate"`
	DominantTrait string `json:"dominant_trait"`

	XP         int       `json:"xp"`
	StreakDays int       `json:"streak_days"`
	LastCareAt time.Time `json:"last_care_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPetResponse arma el snapshot público. Los stats se asumen ya decaídos
// por el caller (Snapshot o gateway).
func ToPetResponse(p Pet) PetResponse {
	return PetResponse{
		ID:            p.ID,
		CoupleID:      p.CoupleID,
		Name:          p.Name,
		Species:       string(p.Species),
		Stage:         string(p.Stage),
		Hunger:        p.Stats.Hunger,
		Happiness:     p.Stats.Happiness,
		Energy:        p.Stats.Energy,
		Cleanliness:   p.Stats.Cleanliness,
		Playful:       p.Traits.Playful,
		Calm:          p.Traits.Calm,
		Mischievous:   p.Traits.Mischievous,
		Affectionate:  p.Traits.Affectionate,
		DominantTrait: string(Dominant(p.Traits)),
		XP:            p.XP,
		StreakDays:    p.StreakDays,
		LastCareAt:    p.LastCareAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea la mascota compartida de la pareja del usuario autenticado. Nace en etapa egg con stats al máximo.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Nombre y especie"
// @Success 201 {object} PetResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "user sin pareja"
// @Router /pets [post]
func createPetHandler(svc *Service, couplesSvc *couples.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := couplesSvc.CoupleOf(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), c.ID, CreateInput{
			Name:    req.Name,
			Species: req.Species,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, ToPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas de mi pareja
// @Tags pets
// @Produce json
// @Success 200 {array} PetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "user sin pareja"
// @Router /pets [get]
func listPetsHandler(svc *Service, couplesSvc *couples.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := couplesSvc.CoupleOf(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByCouple(r.Context(), c.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Snapshot de mascota
// @Description Devuelve la mascota con stats decaídos al momento de la consulta. Solo miembros de la pareja dueña.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, couplesSvc *couples.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.Snapshot(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		c, err := couplesSvc.GetByID(r.Context(), p.CoupleID)
		if err != nil || !c.HasMember(claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
