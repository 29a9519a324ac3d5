package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/orchestrator"
)

// statusClientClosedRequest is reported when the caller went away mid-run.
const statusClientClosedRequest = 499

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func statusFor(err error) int {
	var (
		unknownWorkflow *orchestrator.ErrUnknownWorkflow
		unknownAction   *orchestrator.ErrUnknownAction
		validation      *orchestrator.ErrValidation
	)
	switch {
	case errors.As(err, &unknownWorkflow), errors.As(err, &unknownAction):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == statusClientClosedRequest {
		c.AbortWithStatus(status)
		return
	}
	body := errorBody{Error: err.Error()}
	var validation *orchestrator.ErrValidation
	if errors.As(err, &validation) {
		body.Field = validation.Field
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		body.Error = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}
