package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"shop/internal/adapters/in/http/servers"
	"shop/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// StatusClientClosedRequest is the nginx convention for a request whose client
// went away before the response was written.
const StatusClientClosedRequest = 499

// StatusFor maps a read failure to its HTTP status.
func StatusFor(err error) int {
	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErrs),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrPaginationIncompatible):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorHandler renders every handler error as servers.Error. Server side
// failures are logged and their details kept out of the body.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := StatusFor(err)
		message := http.StatusText(code)
		switch {
		case code == StatusClientClosedRequest:
			logger.Debug("client went away", "path", c.Path())
			message = "client closed request"
		case code < http.StatusInternalServerError:
			message = clientMessage(err)
		case errors.Is(err, errs.ErrEntityLeaked):
			logger.Error("entity leaked into response", "path", c.Path(), "error", err)
		default:
			logger.Error("read failed", "path", c.Path(), "status", code, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, servers.Error{Code: code, Message: message})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}

func clientMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(httpErr.Code)
	}
	return err.Error()
}
