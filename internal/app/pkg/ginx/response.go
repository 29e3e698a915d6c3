package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pickup/pkg/errorx"
)

// Response is the envelope of every JSON response.
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

// Meta carries the status of a response.
type Meta struct {
	Code      int           `json:"code" example:"200"`
	Message   string        `json:"message" example:"OK"`
	Reason    string        `json:"reason,omitempty" example:"ORDER_NOT_FOUND"`
	Retryable bool          `json:"retryable,omitempty"`
	Details   []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail points at the offending request field.
type ErrorDetail struct {
	Path string `json:"path" example:"items"`
	Info string `json:"info" example:"items is required"`
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:    http.StatusOK,
			Message: "OK",
		},
		Data: data,
	})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Meta: Meta{
			Code:    http.StatusCreated,
			Message: "Created",
		},
		Data: data,
	})
}

// Error writes an error envelope.
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Message: message,
		},
	})
}

// ErrorWithDetails writes an error envelope with field details.
func ErrorWithDetails(c *gin.Context, httpCode int, message string, details []ErrorDetail) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Message: message,
			Details: details,
		},
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// BadRequestWithValidation reports binding failures field by field.
func BadRequestWithValidation(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{
				Path: fieldErr.Field(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	BadRequest(c, err.Error())
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError maps a domain error onto the envelope. Validation 400, not found 404,
// invalid transition 409, verification 402, transient 503 (504 on timeout), else 500.
func FromError(c *gin.Context, err error) {
	e := errorx.Wrap(err)

	code := StatusOf(e)
	message := e.Message
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}

	c.JSON(code, Response{
		Meta: Meta{
			Code:      code,
			Message:   message,
			Reason:    e.Reason,
			Retryable: e.Retryable,
		},
	})
}

// StatusOf returns the HTTP status for e.
func StatusOf(e *errorx.Error) int {
	switch e.Kind {
	case errorx.KindValidation:
		return http.StatusBadRequest
	case errorx.KindNotFound:
		return http.StatusNotFound
	case errorx.KindInvalidTransition:
		return http.StatusConflict
	case errorx.KindExternalVerification:
		return http.StatusPaymentRequired
	case errorx.KindTransientIO:
		if e.Reason == errorx.ReasonTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "oneof":
		return fieldErr.Field() + " must be one of: " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}
