package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ngcore/storefront-api/internal/api/metrics"
	"github.com/ngcore/storefront-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product inventory.
type ProductHandler struct {
	service ports.ProductService
	logger  zerolog.Logger
}

func NewProductHandler(service ports.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

// GetProducts handles GET /api/Product/GetProducts.
//
// @Summary      List products
// @Tags         product
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/Product/GetProducts [get]
func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// AddProduct handles POST /api/Product/AddProduct.
//
// @Summary      Add a product
// @Tags         product
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  productRequest  true  "Product"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/Product/AddProduct [post]
func (h *ProductHandler) AddProduct(c echo.Context) error {
	req, err := bindProduct(c)
	if err != nil {
		return err
	}

	p, err := h.service.Add(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("add").Inc()
	h.audit(c, "add", p.ID)
	return c.NoContent(http.StatusOK)
}

// UpdateProduct handles PUT /api/Product/UpdateProduct/:id.
//
// @Summary      Update a product
// @Tags         product
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product id"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/Product/UpdateProduct/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	req, err := bindProduct(c)
	if err != nil {
		return err
	}

	if _, err := h.service.Update(c.Request().Context(), id, req.toInput()); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	h.audit(c, "update", id)
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Product with id %d is updated", id)})
}

// DeleteProduct handles DELETE /api/Product/DeleteProduct/:id.
//
// @Summary      Delete a product
// @Tags         product
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/Product/DeleteProduct/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	h.audit(c, "delete", id)
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Product with id %d is deleted.", id)})
}

func (h *ProductHandler) audit(c echo.Context, op string, id int64) {
	username, role := ctxUser(c)
	h.logger.Info().
		Str("op", op).
		Int64("product_id", id).
		Str("username", username).
		Str("role", role).
		Msg("product changed")
}

func bindProduct(c echo.Context) (*productRequest, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func productID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "product id must be an integer")
	}
	return id, nil
}
