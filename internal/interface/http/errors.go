package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
	"github.com/Vadim-3/b2-hm14/pkg/response"
	"github.com/Vadim-3/b2-hm14/pkg/validation"
)

// fail maps application errors onto HTTP statuses. Unknown errors are
// logged and reported as 500.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrUnauthorized),
		errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrEmailNotConfirmed),
		errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrImageUpload):
		response.Error[any](c, http.StatusBadGateway, "image upload failed", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{"path": c.FullPath(), "request_id": c.GetString("request_id")})
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func invalid(c *gin.Context, err error) {
	response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(err))
}

func notFound(c *gin.Context, what string) {
	response.Error[any](c, http.StatusNotFound, what+" not found", nil)
}
