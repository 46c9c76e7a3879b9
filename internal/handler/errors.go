package handler

import (
	"errors"
	"net/http"

	"neurogrid-backend/internal/service/serverrors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{serverrors.ErrInvalidItem, http.StatusBadRequest},
	{serverrors.ErrInvalidPaymentType, http.StatusBadRequest},
	{serverrors.ErrInvalidProgress, http.StatusBadRequest},
	{serverrors.ErrInvalidCourse, http.StatusBadRequest},
	{serverrors.ErrNotFound, http.StatusNotFound},
	{serverrors.ErrForbidden, http.StatusForbidden},
	{serverrors.ErrAccessDenied, http.StatusForbidden},
	{serverrors.ErrGateway, http.StatusBadGateway},
	{serverrors.ErrConsistencyConflict, http.StatusConflict},
}

// ToHTTPError maps service errors onto the status codes clients see.
// Unknown errors become a 500 without leaking their text.
func ToHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.status, m.err.Error()).SetInternal(err)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
}

func ErrorHandler(e *echo.Echo, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		he := ToHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", he.Code),
				zap.Error(err),
			)
		}
		e.DefaultHTTPErrorHandler(he, c)
	}
}
