package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "couple-pet-care/docs"
	mem "couple-pet-care/internal/adapters/storage/memory"
	pg "couple-pet-care/internal/adapters/storage/postgres"
	"couple-pet-care/internal/domain/care"
	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/minigames"
	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/middleware"
	"couple-pet-care/internal/platform/logger"
	"couple-pet-care/internal/ports/auth"
	"couple-pet-care/internal/ports/notify"
	"couple-pet-care/internal/ports/ratelimit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcionales: el router pone defaults razonables (noop / nop).
	Notifier notify.Notifier
	Log      logger.Logger

	// Rate limiting por usuario. Store nil o límites <= 0 desactivan el grupo.
	RateLimitStore     ratelimit.Store
	CareRateLimit      int
	EvolutionRateLimit int
	RateLimitWindow    time.Duration
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log := opts.Log
	if log == nil {
		log = logger.Nop{}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}

	var (
		petsRepo       pets.Repository
		couplesRepo    couples.Repository
		careRepo       care.Repository
		milestonesRepo evolution.Repository
		sessionsRepo   minigames.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		petsRepo = pg.NewPetsRepo(db)
		couplesRepo = pg.NewCouplesRepo(db)
		careRepo = pg.NewCareRepo(db)
		milestonesRepo = pg.NewMilestonesRepo(db)
		sessionsRepo = pg.NewMiniGamesRepo(db)
	} else {
		store := mem.NewStore()
		petsRepo = store.Pets()
		couplesRepo = store.Couples()
		careRepo = store.Care()
		milestonesRepo = store.Evolution()
		sessionsRepo = store.MiniGames()
	}

	// Services por módulo
	couplesSvc := couples.NewService(couplesRepo)
	petsSvc := pets.NewService(petsRepo)
	evolutionSvc := evolution.NewService(petsSvc, couplesSvc, milestonesRepo, notifier, log)
	careSvc := care.NewService(petsSvc, couplesSvc, careRepo, notifier, log)
	minigamesSvc := minigames.NewService(petsSvc, couplesSvc, sessionsRepo, evolutionSvc, log)

	// Rutas por módulo. Care y evolution llevan presupuesto por usuario.
	couples.RegisterRoutes(r, couplesSvc)
	pets.RegisterRoutes(r, petsSvc, couplesSvc)
	minigames.RegisterRoutes(r, minigamesSvc)

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RateLimit(opts.RateLimitStore, "care", opts.CareRateLimit, opts.RateLimitWindow))
		care.RegisterRoutes(gr, careSvc)
	})

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RateLimit(opts.RateLimitStore, "evolution", opts.EvolutionRateLimit, opts.RateLimitWindow))
		evolution.RegisterRoutes(gr, evolutionSvc)
	})

	return r
}
