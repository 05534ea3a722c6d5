package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/interface/middleware"
)

type DebugModule struct {
	Metrics *middleware.Metrics
	Limiter middleware.RateLimiter
	Logger  *logrus.Logger
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// rate-limited per IP; private networks are not counted
	rl := middleware.RateLimit(m.Limiter, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP(), m.Logger)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/debug/metrics", rl, gin.WrapH(m.Metrics.Handler()))
}
