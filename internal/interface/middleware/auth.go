package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
	"github.com/Vadim-3/b2-hm14/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey  = "userID"
	CtxAccountKey = "account"
)

// AccountResolver maps an access token to the calling account.
type AccountResolver interface {
	Resolve(ctx context.Context, accessToken string) (*entity.Account, error)
}

// Auth resolves the caller from the Authorization bearer token, falling back
// to the access_token cookie, and aborts with 401 when it cannot.
func Auth(resolver AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		acc, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrUnauthorized) {
				response.Abort(c, http.StatusUnauthorized, "could not validate credentials", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "failed to resolve account", nil)
			return
		}
		c.Set(CtxUserIDKey, acc.ID)
		c.Set(CtxAccountKey, acc)
		c.Next()
	}
}

// CurrentAccount returns the account stored by Auth.
func CurrentAccount(c *gin.Context) *entity.Account {
	v, ok := c.Get(CtxAccountKey)
	if !ok {
		return nil
	}
	acc, _ := v.(*entity.Account)
	return acc
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}
