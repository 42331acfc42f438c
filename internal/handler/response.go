package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/campus-schedule-optimizer/internal/domain"
)

type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondDomainError maps request errors onto status codes: validation
// problems are 400, unusable preferences 422, anything else 500.
func respondDomainError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		slog.InfoContext(ctx, "request validation failed",
			slog.Int("field_count", len(verr.Fields)),
			slog.String("path", c.FullPath()),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: verr.Fields})
		return
	}

	var cerr *domain.ConfigurationError
	if errors.As(err, &cerr) {
		slog.InfoContext(ctx, "request configuration rejected",
			slog.String("field", cerr.Field),
			slog.String("path", c.FullPath()),
		)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   cerr.Error(),
			Details: []domain.FieldError{{Field: cerr.Field, Message: cerr.Message}},
		})
		return
	}

	slog.ErrorContext(ctx, "request failed",
		slog.String("error", err.Error()),
		slog.String("path", c.FullPath()),
	)
	respondError(c, http.StatusInternalServerError, "internal server error")
}
