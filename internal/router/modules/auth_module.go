package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/Vadim-3/b2-hm14/internal/interface/http"
	"github.com/Vadim-3/b2-hm14/internal/interface/middleware"
)

type AuthModule struct {
	Handler  *handlers.AuthHandler
	Resolver middleware.AccountResolver
	Limiter  middleware.RateLimiter
	Logger   *logrus.Logger
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	perIP := func(max int) gin.HandlerFunc {
		return middleware.RateLimit(m.Limiter, max, time.Minute, middleware.KeyByIPAndPath(), nil, m.Logger)
	}

	g := rg.Group("/auth")
	g.POST("/signup", perIP(5), m.Handler.Signup)
	g.POST("/login", perIP(10), m.Handler.Login)
	g.GET("/refresh_token", perIP(60), m.Handler.Refresh)
	g.GET("/confirmed_email/:token", perIP(30), m.Handler.ConfirmEmail)
	g.POST("/request_email", perIP(5), m.Handler.RequestEmail)
	g.POST("/logout", middleware.Auth(m.Resolver), m.Handler.Logout)
}
