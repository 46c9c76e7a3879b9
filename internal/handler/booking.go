package handler

import (
	"net/http"

	"neurogrid-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.MyBookings(ctx, p)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookings)
}
