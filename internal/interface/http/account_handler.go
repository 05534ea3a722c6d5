package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/internal/interface/middleware"
	"github.com/Vadim-3/b2-hm14/pkg/response"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

// Me GET /api/contacts/me
func (h *AccountHandler) Me(c *gin.Context) {
	acc := middleware.CurrentAccount(c)
	if acc == nil {
		fail(c, h.Logger, application.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, toAccountResponse(acc), "profile", nil)
}

// Avatar PATCH /api/contacts/avatar (multipart field "file")
func (h *AccountHandler) Avatar(c *gin.Context) {
	acc := middleware.CurrentAccount(c)
	if acc == nil {
		fail(c, h.Logger, application.ErrUnauthorized)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", map[string]string{"file": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	updated, err := h.Svc.UpdateAvatar(c.Request.Context(), acc, f, contentType)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccountResponse(updated), "avatar updated", nil)
}
