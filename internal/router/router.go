package router

import (
	"context"
	"net/http"
	"os"

	mem "health-directory/internal/adapters/storage/memory"
	pg "health-directory/internal/adapters/storage/postgres"
	"health-directory/internal/adapters/storage/records"
	"health-directory/internal/alert"
	"health-directory/internal/domain/blood"
	"health-directory/internal/domain/directory"
	"health-directory/internal/domain/profiles"
	"health-directory/internal/domain/reminders"
	"health-directory/internal/middleware"
	"health-directory/internal/platform/logger"
	"health-directory/internal/ports/auth"
	"health-directory/internal/ports/recordstore"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	// DevAuth acepta X-Debug-User-Role cuando no hay verifier.
	DevAuth bool

	// Opcional: si no viene, usa DB_DSN (Postgres) o in-memory.
	Store recordstore.Store

	// Alerts habilita /alerts; nil => sin rutas de alertas.
	Alerts *alert.Hub
	// AlertsWS es el bridge de navegador para /alerts/ws (opcional).
	AlertsWS http.Handler

	// Notifier recibe los cambios de recordatorios; nil => Alerts.
	Notifier reminders.ChangeNotifier

	Logger         logger.Logger
	MetricsHandler http.Handler // nil => sin /metrics
	CORSOrigins    []string     // vacío => "*"
}

// StoreFromEnv: DB_DSN => Postgres; si no, o si falla, in-memory.
func StoreFromEnv(log logger.Logger) recordstore.Store {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := pg.Open(dsn)
		if err == nil {
			if err = pg.Migrate(context.Background(), db); err == nil {
				return pg.NewStore(db)
			}
			_ = db.Close()
		}
		log.Warn("postgres unavailable, using in-memory store", map[string]any{"err": err})
	}
	return mem.NewStore()
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-User-Role"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.AuthVerifier == nil && opts.DevAuth {
		r.Use(middleware.DevAuthContext())
	} else {
		r.Use(middleware.AuthContext(opts.AuthVerifier))
	}
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	store := opts.Store
	if store == nil {
		store = StoreFromEnv(log)
	}

	// Repos sobre el record store
	remindersRepo := records.NewRemindersRepo(store)
	directoryRepo := records.NewDirectoryRepo(store)
	bloodRepo := records.NewBloodRepo(store)
	profilesRepo := records.NewProfilesRepo(store)

	notifier := opts.Notifier
	if notifier == nil && opts.Alerts != nil {
		notifier = opts.Alerts
	}

	// Services por módulo
	remindersSvc := reminders.NewService(remindersRepo, notifier)
	directorySvc := directory.NewService(directoryRepo)
	bloodSvc := blood.NewService(bloodRepo)
	profilesSvc := profiles.NewService(profilesRepo)

	// Rutas por módulo
	directory.RegisterRoutes(r, directorySvc)
	reminders.RegisterRoutes(r, remindersSvc)
	blood.RegisterRoutes(r, bloodSvc, profilesSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	if opts.Alerts != nil {
		alert.RegisterRoutes(r, opts.Alerts, opts.AlertsWS)
	}

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(middleware.RequireAdmin(profilesSvc))
		directory.RegisterAdminRoutes(ar, directorySvc)
		blood.RegisterAdminRoutes(ar, bloodSvc)
		profiles.RegisterAdminRoutes(ar, profilesSvc)
	})

	return r
}
