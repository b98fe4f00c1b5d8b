package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"profile-service/internal/auth"
	"profile-service/internal/config"
	"profile-service/internal/db"
	"profile-service/internal/models"
	"profile-service/internal/profile"
	"profile-service/internal/redis"
	"profile-service/internal/security"
	"profile-service/internal/storage"
)

// ProfileStore is the persistence surface the handlers depend on; the real
// implementation is profile.Store, tests swap in fakes.
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error)
	Apply(ctx context.Context, userID uuid.UUID, u *profile.Update) error
}

// profileCache is the slice of the redis client the profile handlers touch;
// nil disables caching entirely.
type profileCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Server struct {
	log      *slog.Logger
	db       *db.DB
	redis    *redis.Client // nil when REDIS_DSN is unset
	cache    profileCache  // backed by redis; nil when redis is nil
	profiles ProfileStore
	avatars  storage.Client
	verifier auth.Verifier
	cfg      config.Config
	router   *gin.Engine

	// fallbacks when redis is nil; the avatar route keeps its stricter
	// budget in-process too
	limiter       *security.LimiterStore
	avatarLimiter *security.LimiterStore
}

func NewServer(log *slog.Logger, dbConn *db.DB, redisClient *redis.Client, profiles ProfileStore, avatars storage.Client, verifier auth.Verifier, cfg config.Config) *Server {
	s := &Server{
		log:      log,
		db:       dbConn,
		redis:    redisClient,
		profiles: profiles,
		avatars:  avatars,
		verifier: verifier,
		cfg:      cfg,
		router:   gin.New(),

		limiter:       security.NewLimiterStore(1, 60, 10*time.Minute),
		avatarLimiter: security.NewLimiterStore(rate.Every(6*time.Second), 10, 10*time.Minute),
	}
	if redisClient != nil {
		s.cache = redisClient
	}

	gin.SetMode(gin.ReleaseMode)
	r := s.router
	r.Use(gin.Recovery())
	r.Use(s.corsMiddleware())
	r.Use(s.loggingMiddleware())
	r.Use(s.rateLimitMiddleware())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.health)

		authed := v1.Group("")
		authed.Use(s.authMiddleware())
		{
			authed.GET("/profile", s.getProfile)
			authed.PUT("/profile", s.updateProfile)
			authed.POST("/profile/avatar", s.uploadAvatar)
		}
	}

	// Unversioned aliases for clients predating the /api/v1 prefix
	legacy := r.Group("", s.authMiddleware())
	legacy.GET("/profile", s.getProfile)
	legacy.PUT("/profile", s.updateProfile)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

// currentUserID reads the identity the auth middleware stored on the context.
func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxKeyUserID).(uuid.UUID)
}
