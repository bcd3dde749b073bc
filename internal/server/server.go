package server

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/flyboysam/SRG.Dashboard/internal/hub"
	"github.com/flyboysam/SRG.Dashboard/internal/state"
	"github.com/flyboysam/SRG.Dashboard/internal/users"
)

// Server exposes the telemetry snapshot, the account endpoints and the
// static dashboard over HTTP. It only ever reads from the state store.
type Server struct {
	engine       *gin.Engine
	store        *state.Store
	users        *users.Store
	hub          *hub.Hub
	dashboardDir string
}

// New creates the HTTP server. dashboardDir may be empty or missing; the
// static dashboard is then simply not served.
func New(store *state.Store, accounts *users.Store, h *hub.Hub, dashboardDir string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	s := &Server{
		engine:       engine,
		store:        store,
		users:        accounts,
		hub:          h,
		dashboardDir: dashboardDir,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/telemetry", s.handleTelemetry)
	api.GET("/health", s.handleHealth)
	api.GET("/users", s.handleListUsers)
	api.POST("/users", s.handleCreateUser)
	api.POST("/users/delete", s.handleDeleteUser)
	api.POST("/auth", s.handleAuth)

	s.engine.GET("/ws", s.handleWebSocket)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The dashboard frontend lives outside this binary; serve it for any
	// non-API route when the directory exists.
	if s.dashboardDir != "" {
		if info, err := os.Stat(s.dashboardDir); err == nil && info.IsDir() {
			fileServer := http.FileServer(http.Dir(s.dashboardDir))
			s.engine.NoRoute(func(c *gin.Context) {
				fileServer.ServeHTTP(c.Writer, c.Request)
			})
		} else {
			log.Warn().Str("dir", s.dashboardDir).Msg("dashboard directory not found, static serving disabled")
		}
	}
}

// Handler returns the underlying http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// ---------------------------------------------------------------------------
// Telemetry + health
// ---------------------------------------------------------------------------

func (s *Server) handleTelemetry(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

type authRequest struct {
	ID string `json:"id"`
	PW string `json:"pw"`
}

func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request body"})
		return
	}

	u, ok := s.users.Authenticate(strings.TrimSpace(req.ID), req.PW)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": gin.H{
			"id":      u.ID,
			"role":    u.Role,
			"created": u.Created,
		},
	})
}

func (s *Server) handleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.users.Public())
}

type createUserRequest struct {
	AdminID string `json:"adminId"`
	AdminPW string `json:"adminPw"`
	ID      string `json:"id"`
	PW      string `json:"pw"`
	Role    string `json:"role"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request body"})
		return
	}

	if !s.users.IsAdmin(strings.TrimSpace(req.AdminID), req.AdminPW) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Admin required"})
		return
	}

	id := strings.TrimSpace(req.ID)
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = users.RoleGuest
	}

	if len(id) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Username required (≥3 chars)"})
		return
	}
	if len(req.PW) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Password must be ≥6 characters"})
		return
	}
	if s.users.Exists(id) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Username already exists"})
		return
	}

	u := users.User{
		ID:       id,
		Password: req.PW,
		Role:     role,
		Created:  time.Now().UTC().Format("2006-01-02"),
	}
	if err := s.users.Add(u); err != nil {
		log.Error().Err(err).Msg("persist users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not save user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type deleteUserRequest struct {
	AdminID string `json:"adminId"`
	AdminPW string `json:"adminPw"`
	ID      string `json:"id"`
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request body"})
		return
	}

	adminID := strings.TrimSpace(req.AdminID)
	if !s.users.IsAdmin(adminID, req.AdminPW) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Admin required"})
		return
	}

	target := strings.TrimSpace(req.ID)
	if strings.EqualFold(target, users.Protected) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Protected user"})
		return
	}
	if strings.EqualFold(target, adminID) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Cannot remove your own account"})
		return
	}

	if err := s.users.Remove(target); err != nil {
		log.Error().Err(err).Msg("persist users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not save user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
