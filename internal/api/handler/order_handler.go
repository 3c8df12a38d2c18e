package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcraft/shop-api/internal/core/domain"
	"github.com/shopcraft/shop-api/internal/core/ports"
)

// OrderHandler handles both the owner-scoped and the administrative order
// endpoints.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// MyOrders handles GET /user-orders — every order owned by the caller.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /user-orders [get]
func (h *OrderHandler) MyOrders(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListForCustomer(c.Request().Context(), principal.Email)
	if err != nil {
		return err
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, resp)
}

// MyOrder handles GET /user-orders/:id. An order owned by someone else reads
// as 404, indistinguishable from a missing one.
//
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /user-orders/{id} [get]
func (h *OrderHandler) MyOrder(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetForCustomer(c.Request().Context(), c.Param("id"), principal.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Pay handles PUT /orders/:id/pay.
//
// @Summary      Pay a pending order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id}/pay [put]
func (h *OrderHandler) Pay(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Pay(c.Request().Context(), c.Param("id"), principal.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Order paid successfully"})
}

// Cancel handles DELETE /orders/:id/cancel. Only Pending orders may be
// canceled; a Paid order yields 400 with the documented reason.
//
// @Summary      Cancel a pending order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id}/cancel [delete]
func (h *OrderHandler) Cancel(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Cancel(c.Request().Context(), c.Param("id"), principal.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Order canceled successfully"})
}

// List handles GET /orders — administrative listing.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /orders/:id — administrative read of any order.
//
// @Summary      Get any order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Create handles POST /orders. Orders are recorded as-is: product existence
// and stock are not validated here. An Idempotency-Key header makes the
// request safely repeatable.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  orderResponse
// @Failure      400              {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateOrderInput{
		CustomerEmail:  req.CustomerEmail,
		Items:          items,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toOrderResponse(result.Order))
}

// UpdateStatus handles PUT /orders/:id/status. The transition table still
// applies: Shipped and Completed are only reachable through Paid.
//
// @Summary      Update an order's status
// @Tags         orders
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  updateOrderStatusRequest  true  "New status"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /orders/:id — administrative removal of any order.
//
// @Summary      Delete any order
// @Tags         orders
// @Security     BearerAuth
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return orderResponse{
		ID:            o.ID,
		CustomerEmail: o.CustomerEmail,
		Items:         items,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}
