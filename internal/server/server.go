package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/momentumx/momentumx/internal/auth"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

// Store is the persistence the handlers need. Implemented by *storage.DB.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.UserRow, error)
	GetActiveUserByUsername(ctx context.Context, username string) (*models.UserRow, error)
	TouchLastLogin(ctx context.Context, userID int) error
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)

	GetPreferences(ctx context.Context, userID int) (*models.PreferencesRow, error)
	UpdatePreferences(ctx context.Context, userID int, u models.PreferencesUpdate) error

	ListMachines(ctx context.Context, userID int) ([]models.MachineRow, error)
	MachineNames(ctx context.Context, userID int) ([]string, error)
	AddMachine(ctx context.Context, userID int, name string) error
	RemoveMachine(ctx context.Context, userID, machineID int) error

	SaveWorkout(ctx context.Context, row models.WorkoutRow, exercises []models.WorkoutExerciseRow) (uuid.UUID, error)
	ListWorkouts(ctx context.Context, userID, limit, offset int) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutRow, error)
	ListWorkoutExercises(ctx context.Context, id uuid.UUID, userID int) ([]models.WorkoutExerciseRow, error)

	UpdateStats(ctx context.Context, userID int, u models.StatsUpdate) error
	InsertUsageLog(ctx context.Context, l models.UsageLogRow) error
}

var _ Store = (*storage.DB)(nil)

// Generator produces workout text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorSource returns the generator to use for a user's own API key.
// An empty key selects the server-wide key.
type GeneratorSource func(apiKey string) Generator

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      Store
	issuer     *auth.Issuer
	generators GeneratorSource
	log        *slog.Logger
	corsOrigin string
	now        func() time.Time
	frontend   fs.FS
	router     chi.Router
}

// New creates a new Server with all API routes configured.
func New(store Store, issuer *auth.Issuer, corsOrigin string, log *slog.Logger) *Server {
	s := &Server{
		store:      store,
		issuer:     issuer,
		log:        log,
		corsOrigin: corsOrigin,
		now:        time.Now,
		router:     chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(s.corsOrigin))
	s.router.NotFound(s.handleNotFound)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.issuer))
			r.Use(UsageLogging(s.store, s.log))

			r.Get("/user/profile", s.handleProfile)
			r.Put("/user/preferences", s.handleUpdatePreferences)
			r.Get("/user/machines", s.handleListMachines)
			r.Post("/user/machines", s.handleAddMachine)
			r.Delete("/user/machines/{id}", s.handleRemoveMachine)
			r.Put("/user/stats", s.handleUpdateStats)
			r.Get("/user/today", s.handleToday)
			r.Get("/user/export", s.handleExport)

			r.Get("/workouts", s.handleListWorkouts)
			r.Post("/workouts", s.handleSaveWorkout)
			r.Post("/workouts/generate", s.handleGenerate)
			r.Post("/workouts/parse", s.handleParse)
			r.Get("/workouts/{id}", s.handleGetWorkout)
			r.Get("/workouts/{id}/render", s.handleRender)
		})
	})
}

// SetGenerator enables workout generation.
func (s *Server) SetGenerator(src GeneratorSource) {
	s.generators = src
}

// SetMCP mounts an MCP handler at /mcp behind bearer authentication.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(Authenticate(s.issuer)).Handle("/mcp", h)
}

// SetFrontend serves static files for every path outside /api.
// Unmatched paths serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	s.frontend = webFS
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if s.frontend == nil || strings.HasPrefix(r.URL.Path, "/api/") || r.Method != http.MethodGet {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
		return
	}

	fileServer := http.FileServerFS(s.frontend)
	f, err := s.frontend.Open(strings.TrimPrefix(r.URL.Path, "/"))
	if err == nil {
		f.Close()
		fileServer.ServeHTTP(w, r)
		return
	}
	r.URL.Path = "/"
	fileServer.ServeHTTP(w, r)
}
