// Package stubserver is a development stand-in for the remote coaching
// API. It speaks the same wire contract as the real backend but serves
// canned, deterministic data from memory: no AI, no database. The client
// binary and the integration tests run against it.
package stubserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/pkg/middleware"
)

type Server struct {
	store  *Store
	tokens *tokenIssuer

	requestDump   bool
	ratePerSecond int
}

type Option func(*Server)

func WithRequestDump() Option {
	return func(s *Server) { s.requestDump = true }
}

func WithRateLimit(perSecond int) Option {
	return func(s *Server) { s.ratePerSecond = perSecond }
}

func NewServer(store *Store, tokenSecret string, opts ...Option) *Server {
	s := &Server{
		store:  store,
		tokens: newTokenIssuer(tokenSecret),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with the full contract mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if s.ratePerSecond > 0 {
		r.Use(middleware.RateLimitMiddleware(s.ratePerSecond))
	}
	if s.requestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/signup", s.signup)
		auth.POST("/verify", s.verifyToken)
	}

	generate := r.Group("/generate")
	{
		generate.POST("/check-existing", s.checkExisting)
		generate.POST("/generate-workout", s.generateWorkout)
		generate.POST("/chat-follow-up", s.chatFollowUp)
		generate.GET("/history/:uid", s.conversationHistory)
		generate.GET("/messages/:conversationId", s.conversationMessages)
		generate.POST("/pdf", s.exportPDF)
	}

	workout := r.Group("/workout")
	{
		workout.GET("/current/:uid", s.currentWorkout)
		workout.GET("/progress/:uid", s.workoutProgress)
		workout.POST("/exercise/:id/complete", s.toggleExercise)
		workout.POST("/day/complete", s.completeDay)
		workout.GET("/health", s.health)
	}

	r.GET("/dashboard/full/:uid", s.fullDashboard)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "service": "coachstub", "timestamp": time.Now().Unix()})
}
