package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a 200 with the given body.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ErrorJSON writes {"error": message} with the given status.
func ErrorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

// BadRequestResponse writes validation errors as a single 400 message.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return ErrorJSON(c, http.StatusBadRequest, strings.Join(msgs, "; "))
}

// InternalServerErrorResponse writes a 500 with the error message.
func InternalServerErrorResponse(c echo.Context, err error) error {
	msg := "Internal Server Error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorJSON(c, http.StatusInternalServerError, msg)
}

// AppErrorResponse writes application error response. Errors that are not
// an *AppError become a 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorJSON(c, appErr.Status, appErr.Message)
	}
	return InternalServerErrorResponse(c, err)
}
