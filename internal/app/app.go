package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/core/cache"
	"sentle-driving/internal/core/config"
	"sentle-driving/internal/core/database"
	"sentle-driving/internal/core/server"
	"sentle-driving/internal/feature/lesson"
	"sentle-driving/internal/feature/session"
	"sentle-driving/internal/feature/user"
	"sentle-driving/internal/repo"
	"sentle-driving/internal/service"
	"sentle-driving/internal/transport/http/handler"
	"sentle-driving/internal/transport/http/router"
)

// App holds the process-wide resources and the services built on them.
type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache

	Gate        *auth.Gate
	Users       *repo.UserRepo
	Credentials *service.CredentialService
	Sessions    *service.SessionRegistry
	Auth        *service.AuthService
	Booking     *service.BookingService
	Catalog     *service.CatalogService

	limiter *cache.Limiter
}

// Models lists every table the application owns, in dependency order.
func Models() []any {
	var ms []any
	ms = append(ms, user.Models()...)
	ms = append(ms, session.Models()...)
	ms = append(ms, lesson.Models()...)
	return ms
}

// Open connects to the database (and redis when enabled), migrates when
// configured, and wires the services.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, Models()...); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		log.Info("automigrate done")
	}

	var rdb *redis.Client
	if cfg.Redis.Enable {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unreachable, running without cache and login limiter", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		}
	}

	a, err := New(cfg, log, db, rdb)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return a, nil
}

// New wires services over already opened resources. rdb may be nil.
func New(cfg *config.Config, log *zap.Logger, db *gorm.DB, rdb *redis.Client) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Cfg: cfg, Log: log, DB: db}
	if rdb != nil {
		a.Cache = cache.NewFromClient(rdb)
		a.limiter = &cache.Limiter{
			RDB:    rdb,
			Prefix: "ratelimit:",
			Limit:  int64(cfg.Auth.LoginMaxAttempts),
			Window: time.Duration(cfg.Auth.LoginWindowSec) * time.Second,
		}
	}

	access := &auth.JWTer{
		Secret: []byte(cfg.JWT.AccessSecret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.AccessTTL(),
		Kind:   auth.KindAccess,
		Leeway: cfg.JWT.Leeway(),
	}
	refresh := &auth.JWTer{
		Secret: []byte(cfg.JWT.RefreshSecret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.RefreshTTL(),
		Kind:   auth.KindRefresh,
		Leeway: cfg.JWT.Leeway(),
	}
	a.Gate = auth.NewGate(access)

	a.Users = repo.NewUserRepo(db)
	creds, err := service.NewCredentialService(a.Users, cfg.Auth.BcryptCost, log.Named("credentials"))
	if err != nil {
		return nil, err
	}
	a.Credentials = creds
	a.Sessions = service.NewSessionRegistry(repo.NewSessionRepo(db), nil)

	deps := service.AuthDeps{
		Credentials: creds,
		Sessions:    a.Sessions,
		Access:      access,
		Refresh:     refresh,
		Log:         log.Named("auth"),
	}
	if a.limiter != nil {
		deps.Limiter = a.limiter
	}
	a.Auth = service.NewAuthService(deps)
	a.Booking = service.NewBookingService(repo.NewLessonRepo(db), log.Named("booking"))
	a.Catalog = service.NewCatalogService(repo.NewCatalogRepo(db), a.Cache, time.Duration(cfg.Redis.CatalogTTLSec)*time.Second)
	return a, nil
}

func (a *App) serverOptions() server.Options {
	return server.Options{
		Name:        a.Cfg.App.Name,
		Mode:        server.ModeFor(a.Cfg.App.Env),
		CORSOrigins: a.Cfg.App.HTTP.CORSOrigins,
	}
}

func (a *App) cookie() handler.CookieOptions {
	return handler.CookieOptions{
		Name:   a.Cfg.Auth.CookieName,
		Path:   a.Cfg.Auth.CookiePath,
		Secure: a.Cfg.Auth.CookieSecure,
	}
}

// APIEngine builds the public engine.
func (a *App) APIEngine(lim router.Limits) *gin.Engine {
	reg := router.NewRegistry(
		handler.NewSystemHandler(a.DB, a.Log),
		handler.NewAuthHandler(a.Auth, a.Credentials, a.Catalog, a.cookie(), a.Log),
		handler.NewLessonHandler(a.Booking, a.Log),
		handler.NewCatalogHandler(a.Catalog, a.Log),
	)
	return router.NewAPIEngine(a.Log, a.serverOptions(), a.Gate, reg, lim)
}

// AdminEngine builds the admin engine.
func (a *App) AdminEngine(lim router.Limits) *gin.Engine {
	reg := router.NewRegistry(handler.NewAdminHandler(a.Users, a.Sessions, a.Log))
	return router.NewAdminEngine(a.Log, a.serverOptions(), a.Gate, reg, lim)
}

func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Log.Warn("redis close", zap.Error(err))
	}
	if err := database.Close(a.DB); err != nil {
		a.Log.Warn("db close", zap.Error(err))
	}
}
