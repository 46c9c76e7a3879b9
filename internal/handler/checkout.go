package handler

import (
	"net/http"

	"neurogrid-backend/internal/dto"
	"neurogrid-backend/internal/middleware"
	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func principal(c echo.Context) (*model.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return p, nil
}

func (h *CheckoutHandler) Packages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"packages": h.checkoutService.Packages(c.Request().Context()),
	})
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CheckoutSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	// POST bodies are optional; the query string carries the same fields
	if req.PaymentType == "" {
		req.PaymentType = c.QueryParam("payment_type")
	}
	if req.PackageID == "" {
		req.PackageID = c.QueryParam("package_id")
	}
	if req.ItemID == "" {
		req.ItemID = c.QueryParam("item_id")
	}
	if req.PaymentType == "" {
		req.PaymentType = string(model.PaymentTypeConsultation)
	}

	paymentType := model.PaymentType(req.PaymentType)
	itemReference := req.ItemID
	if paymentType == model.PaymentTypeCourse {
		itemReference = req.PackageID
	}

	result, err := h.checkoutService.CreateSession(ctx, p, paymentType, itemReference, c.Request().Header.Get(echo.HeaderOrigin))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session id")
	}

	result, err := h.checkoutService.GetStatus(ctx, p, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) History(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	items, err := h.checkoutService.History(ctx, p)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}
