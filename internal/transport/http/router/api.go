package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sentle-driving/internal/core/auth"
	"sentle-driving/internal/core/server"
	mdw "sentle-driving/internal/transport/http/middleware"
)

// Limits tunes the shared middleware chain.
type Limits struct {
	GlobalRPS      float64
	GlobalBurst    int
	PerIPRPS       float64
	PerIPBurst     int
	MaxConcurrency int64
	MaxBodyBytes   int64
	Timeout        time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		GlobalRPS:      200,
		GlobalBurst:    400,
		PerIPRPS:       20,
		PerIPBurst:     40,
		MaxConcurrency: 300,
		MaxBodyBytes:   1 << 20,
		Timeout:        10 * time.Second,
	}
}

func (lim Limits) chain(l *zap.Logger) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.Recovery(l),
		mdw.RateLimit(rateLimit(lim.GlobalRPS), lim.GlobalBurst),
		mdw.RateLimitPerIP(rateLimit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(lim.MaxConcurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.Timeout),
	}
}

// NewAPIEngine builds the public engine: routes at the root, /metrics
// for prometheus.
func NewAPIEngine(l *zap.Logger, opts server.Options, gate *auth.Gate, reg *Registry, lim Limits) *gin.Engine {
	r := server.NewEngine(opts)
	r.Use(lim.chain(l)...)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("")
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(gate))

	reg.MountAPI(public, authed)
	return r
}

func rateLimit(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}
