package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		validation  *model.ValidationError
		encoding    *model.EncodingError
		unsupported *model.UnsupportedSectionError
		notFound    *model.NotFoundError
		protected   *model.ActiveTemplateProtectedError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &encoding), errors.As(err, &unsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &protected):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var validation *model.ValidationError
	if errors.As(err, &validation) {
		resp.Error = "validation failed"
		resp.Field = validation.Field
		resp.Details = validation.Error()
	}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{Error: "internal error"}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
