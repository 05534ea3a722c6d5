package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/Vadim-3/b2-hm14/internal/interface/http"
	"github.com/Vadim-3/b2-hm14/internal/interface/middleware"
)

// ContactModule serves /contacts. Every route requires a caller; the
// directory routes share a per-caller, per-route quota while the caller's
// own profile routes are not throttled.
type ContactModule struct {
	Contacts *handlers.ContactHandler
	Accounts *handlers.AccountHandler
	Resolver middleware.AccountResolver
	Limiter  middleware.RateLimiter
	Max      int
	Window   time.Duration
	// FailOpen lets requests through when the limiter errors.
	FailOpen bool
	Logger   *logrus.Logger
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/contacts")
	g.Use(middleware.Auth(m.Resolver))

	g.GET("/me", m.Accounts.Me)
	g.PATCH("/avatar", m.Accounts.Avatar)

	limit := middleware.RateLimitStrict
	if m.FailOpen {
		limit = middleware.RateLimit
	}
	quota := limit(m.Limiter, m.Max, m.Window, middleware.KeyByUserAndPath(), nil, m.Logger)
	g.GET("", quota, m.Contacts.List)
	g.POST("", quota, m.Contacts.Create)
	g.GET("/birthdays", quota, m.Contacts.Birthdays)
	g.GET("/search", quota, m.Contacts.Search)
	g.GET("/lookup", quota, m.Contacts.Lookup)
	g.GET("/:id", quota, m.Contacts.Get)
	g.PUT("/:id", quota, m.Contacts.Update)
	g.DELETE("/:id", quota, m.Contacts.Delete)
}
