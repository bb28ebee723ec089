package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nextjob/nextjob/internal/auth"
	"github.com/nextjob/nextjob/internal/job"
	"github.com/nextjob/nextjob/internal/store"
)

// FieldError is one violated constraint in a validation failure. Every
// violated field is listed at once.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: true, Message: message})
}

// fail maps a typed error from the service and store layers onto a status
// code and a uniform JSON envelope. Every failure funnels through here;
// nothing upstream swallows or retries.
func (a *API) fail(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal Server Error"

	switch {
	case errors.Is(err, store.ErrInvalidInput):
		status, message = http.StatusBadRequest, "All fields are required."
	case errors.Is(err, store.ErrEmailTaken):
		status, message = http.StatusBadRequest, "User already exists."
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, auth.ErrNotVerified):
		status, message = http.StatusUnauthorized, "Please verify your email before logging in."
	case errors.Is(err, store.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found."
	case errors.Is(err, store.ErrOTPNotFound):
		status, message = http.StatusBadRequest, "OTP not found or expired."
	case errors.Is(err, store.ErrOTPMismatch):
		status, message = http.StatusBadRequest, "Invalid OTP."
	case errors.Is(err, store.ErrOTPExpired):
		status, message = http.StatusBadRequest, "OTP expired."
	case errors.Is(err, job.ErrJobNotFound):
		status, message = http.StatusNotFound, "Job not found."
	case errors.Is(err, job.ErrAlreadyApplied):
		status, message = http.StatusBadRequest, "You have already applied to this job."
	}

	body := envelope{Success: false, Message: message}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", "path", c.FullPath(), "err", err)
		if !a.production {
			// Diagnostic detail stays out of production responses.
			body.Error = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes and validates the request body against the contract
// declared by the binding tags on req. On failure it writes a 400 carrying
// a field-level error list and reports false.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var violations validator.ValidationErrors
	if errors.As(err, &violations) {
		fields := make([]FieldError, 0, len(violations))
		for _, v := range violations {
			fields = append(fields, FieldError{Path: v.Field(), Message: fieldMessage(v)})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{
			Success: false,
			Message: "Validation Error",
			Errors:  fields,
		})
		return false
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{
		Success: false,
		Message: "Invalid request body.",
	})
	return false
}

func fieldMessage(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", v.Field())
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", v.Field(), v.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", v.Field(), v.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", v.Field(), v.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", v.Field(), v.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", v.Field())
	default:
		return fmt.Sprintf("%s is invalid", v.Field())
	}
}
