package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
// It returns 0 when none was set; remote data sources identify the user by
// their bearer token instead.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 0
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("MomentumX", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("MomentumX workout server. Resolve the training day for a split, parse and render workout text, and browse the user's saved workouts. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log, now: time.Now}

	s.AddTools(
		server.ServerTool{Tool: toolResolveDay, Handler: h.resolveDay},
		server.ServerTool{Tool: toolParseWorkout, Handler: h.parseWorkout},
		server.ServerTool{Tool: toolRenderWorkout, Handler: h.renderWorkout},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetTrainingProfile, Handler: h.getTrainingProfile},
	)

	s.AddResources(
		server.ServerResource{Resource: resSplits, Handler: h.splits},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// NewHTTPHandler serves s over streamable HTTP. identify maps each request to
// the authenticated user, which tools read back with UserIDFromContext.
func NewHTTPHandler(s *server.MCPServer, identify func(context.Context) int) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return WithUserID(ctx, identify(r.Context()))
		}),
	)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resSplits = mcp.NewResource(
	"momentumx://splits",
	"Split Schedules",
	mcp.WithResourceDescription("Weekly schedule of every built-in split and the available day overrides"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"momentumx://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The user's ten most recent saved workouts"),
	mcp.WithMIMEType("application/json"),
)
