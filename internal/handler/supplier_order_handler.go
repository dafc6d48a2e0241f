package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SupplierOrderHandler struct {
	supplierOrderService service.SupplierOrderService
}

func NewSupplierOrderHandler(supplierOrderService service.SupplierOrderService) *SupplierOrderHandler {
	return &SupplierOrderHandler{supplierOrderService: supplierOrderService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SupplierOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/supplier-orders", middleware.RequireAuth())
	{
		orders.GET("", h.ListSupplierOrders)
		orders.GET("/:id", h.GetSupplierOrder)
		orders.POST("", middleware.RequireRole("admin", "manager"), h.CreateSupplierOrder)
		orders.POST("/:id/deliveries", middleware.RequireRole("admin", "manager"), h.ReceiveDelivery)
		orders.PUT("/:id/status", middleware.RequireRole("admin", "manager"), h.PinStatus)
		orders.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteSupplierOrder)
	}
}

// CreateSupplierOrder records an inbound purchase order
// @Summary      Create supplier order
// @Tags         supplier-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSupplierOrderRequest  true  "Supplier order payload"
// @Success      201      {object}  response.Response{data=service.SupplierOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/supplier-orders [post]
func (h *SupplierOrderHandler) CreateSupplierOrder(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.CreateSupplierOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.supplierOrderService.CreateSupplierOrder(c.Request.Context(), sess.TenantID, sess.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetSupplierOrder returns an order with its resolved delivery status
// @Summary      Get supplier order
// @Tags         supplier-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Supplier order ID"
// @Success      200  {object}  response.Response{data=service.SupplierOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/supplier-orders/{id} [get]
func (h *SupplierOrderHandler) GetSupplierOrder(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	order, err := h.supplierOrderService.GetSupplierOrder(c.Request.Context(), sess.TenantID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListSupplierOrders returns paginated supplier orders
// @Summary      List supplier orders
// @Tags         supplier-orders
// @Security     BearerAuth
// @Produce      json
// @Param        supplier_id  query     string  false  "Filter by supplier"
// @Param        page         query     int     false  "Page number (default: 1)"
// @Param        limit        query     int     false  "Items per page (default: 20)"
// @Success      200          {object}  response.Response
// @Router       /api/supplier-orders [get]
func (h *SupplierOrderHandler) ListSupplierOrders(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)
	p := pagination.Parse(c)

	orders, total, err := h.supplierOrderService.ListSupplierOrders(c.Request.Context(), sess.TenantID, c.Query("supplier_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, p.Page, p.Limit, total))
}

// ReceiveDelivery adds a received quantity to the order
// @Summary      Receive delivery
// @Description  Records a partial or full delivery; the running total drives the derived status
// @Tags         supplier-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Supplier order ID"
// @Param        payload  body      service.ReceiveDeliveryRequest  true  "Delivery payload"
// @Success      200      {object}  response.Response{data=service.SupplierOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/supplier-orders/{id}/deliveries [post]
func (h *SupplierOrderHandler) ReceiveDelivery(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.ReceiveDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.supplierOrderService.ReceiveDelivery(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// PinStatus sets or clears an explicit delivery status override
// @Summary      Pin delivery status
// @Description  A pinned status overrides the counter-derived one; an empty status clears the pin
// @Tags         supplier-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Supplier order ID"
// @Param        payload  body      service.PinStatusRequest  true  "Status payload"
// @Success      200      {object}  response.Response{data=service.SupplierOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/supplier-orders/{id}/status [put]
func (h *SupplierOrderHandler) PinStatus(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req service.PinStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.supplierOrderService.PinStatus(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteSupplierOrder soft deletes a supplier order
// @Summary      Delete supplier order
// @Tags         supplier-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Supplier order ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/supplier-orders/{id} [delete]
func (h *SupplierOrderHandler) DeleteSupplierOrder(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	if err := h.supplierOrderService.DeleteSupplierOrder(c.Request.Context(), sess.TenantID, sess.UserID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier order deleted"}))
}
