package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jengzang/filmday-backend-go/internal/logging"
	"github.com/jengzang/filmday-backend-go/internal/models"
)

// Messages shown for domain errors
const (
	MsgEmptySet           = "First select filters! Nothing to pick from."
	MsgInvalidCredentials = "Username/password is incorrect"
	MsgUnauthorized       = "Please log in first"
	MsgNotFound           = "Not found"
	MsgInternal           = "Internal server error"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithData sends an error response carrying details
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError maps err onto a status code and message. Unknown errors are
// logged and hidden behind a generic 500.
func FromError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		ErrorWithData(c, http.StatusBadRequest, ve.Message, ve)
	case errors.Is(err, models.ErrEmptySet):
		NotFound(c, MsgEmptySet)
	case errors.Is(err, models.ErrNotFound):
		NotFound(c, MsgNotFound)
	case errors.Is(err, models.ErrInvalidCredentials):
		Unauthorized(c, MsgInvalidCredentials)
	default:
		_ = c.Error(err)
		logging.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		InternalError(c, MsgInternal)
	}
}

// BindError answers a request whose body or query could not be bound
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, "Invalid request body")
		return
	}

	fields := make([]models.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.ValidationError{
			Field:   fieldName(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	ErrorWithData(c, http.StatusBadRequest, fields[0].Field+": "+fields[0].Message, fields)
}

// fieldName turns "FilterSelection.Sort.Column" into "sort.column"
func fieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
