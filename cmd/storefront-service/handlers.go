package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/catalog"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/storefront"
)

type errorResponse struct {
	Error string `json:"error"`
}

type cartView struct {
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"item_count"`
	Subtotal  int64       `json:"subtotal"`
	CGST      int64       `json:"cgst"`
	SGST      int64       `json:"sgst"`
	Total     int64       `json:"total"`
	Applied   *bool       `json:"applied,omitempty"`
}

func newCartView(s cart.State) cartView {
	return cartView{
		Lines:     s.OrderedLines(),
		ItemCount: s.ItemCount(),
		Subtotal:  s.Subtotal,
		CGST:      s.CGST,
		SGST:      s.SGST,
		Total:     s.Total,
	}
}

type addItemRequest struct {
	Dish catalog.Dish `json:"dish"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type scrolledRequest struct {
	LastVisible *int `json:"last_visible"`
}

// detached keeps a fetch or write running to completion when the client goes away.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var pe *order.PersistenceError
	switch {
	case catalog.IsFetchError(err):
		status = http.StatusBadGateway
	case errors.Is(err, catalog.ErrLookupNotFound), errors.Is(err, order.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrLookupBusy):
		status = http.StatusConflict
	case errors.Is(err, order.ErrEmptyCart):
		status = http.StatusConflict
	case errors.As(err, &pe):
		status = http.StatusInternalServerError
	}
	httpx.FromContext(c.Request.Context(), nil).Warn("request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	)
	c.JSON(status, errorResponse{Error: err.Error()})
}

func registerRoutes(r *gin.Engine, s *storefront.Session) {
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.GET("/catalog", getCatalogHandler(s))
	r.POST("/catalog/next", nextPageHandler(s))
	r.POST("/catalog/retry", retryHandler(s))
	r.POST("/catalog/scrolled", scrolledHandler(s))
	r.GET("/catalog/entries/:id", lookupHandler(s))
	r.POST("/catalog/lookup/reset", lookupResetHandler(s))

	r.GET("/cart", getCartHandler(s))
	r.POST("/cart/items", addItemHandler(s))
	r.DELETE("/cart/items/:id", removeItemHandler(s))
	r.PUT("/cart/items/:id", setQuantityHandler(s))
	r.DELETE("/cart", clearCartHandler(s))

	r.POST("/orders", placeOrderHandler(s))
	r.GET("/orders", listOrdersHandler(s))
	r.GET("/orders/:id", getOrderHandler(s))
	r.GET("/orders/:id/qrcode", orderQRHandler(s))
}

// getCatalogHandler godoc
// @Summary      Catalog snapshot
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalog.State
// @Router       /catalog [get]
func getCatalogHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Catalog.State())
	}
}

// nextPageHandler godoc
// @Summary      Load the next catalog page
// @Description  No-op while a page is in flight or the catalog is exhausted.
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalog.State
// @Failure      502  {object}  errorResponse
// @Router       /catalog/next [post]
func nextPageHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Catalog.LoadNextPage(detached(c))
		catalogResponse(c, s.Catalog.State())
	}
}

// retryHandler godoc
// @Summary      Retry the failed catalog page
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalog.State
// @Failure      502  {object}  errorResponse
// @Router       /catalog/retry [post]
func retryHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Catalog.Retry(detached(c))
		catalogResponse(c, s.Catalog.State())
	}
}

// scrolledHandler godoc
// @Summary      Report the last visible catalog position
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      scrolledRequest  true  "position"
// @Success      200   {object}  catalog.State
// @Failure      400   {object}  errorResponse
// @Router       /catalog/scrolled [post]
func scrolledHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scrolledRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.LastVisible == nil || *req.LastVisible < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "last_visible must be a non-negative integer"})
			return
		}
		s.OnScrolled(detached(c), *req.LastVisible)
		catalogResponse(c, s.Catalog.State())
	}
}

// catalogResponse reports a failed page as 502 while still returning the state.
func catalogResponse(c *gin.Context, st catalog.State) {
	if st.Error != "" {
		c.JSON(http.StatusBadGateway, st)
		return
	}
	c.JSON(http.StatusOK, st)
}

// lookupHandler godoc
// @Summary      Find a catalog entry by id
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "entry id"
// @Success      200  {object}  catalog.Entry
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /catalog/entries/{id} [get]
func lookupHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := s.Lookup.Find(detached(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// lookupResetHandler godoc
// @Summary      Restart the entry lookup from page 1
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  catalog.LookupState
// @Router       /catalog/lookup/reset [post]
func lookupResetHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Lookup.Reset()
		c.JSON(http.StatusOK, s.Lookup.State())
	}
}

// getCartHandler godoc
// @Summary      Current cart with taxes
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartView
// @Router       /cart [get]
func getCartHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newCartView(s.Cart.State()))
	}
}

// addItemHandler godoc
// @Summary      Add one unit of a dish
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addItemRequest  true  "dish"
// @Success      200   {object}  cartView
// @Failure      400   {object}  errorResponse
// @Router       /cart/items [post]
func addItemHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}
		if req.Dish.ID == "" || req.Dish.PriceMinorUnits < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "dish needs an id and a non-negative price"})
			return
		}
		st, applied := s.AddItem(req.Dish)
		cartResponse(c, st, applied)
	}
}

// removeItemHandler godoc
// @Summary      Remove one unit of a dish
// @Description  The line is dropped at zero; absent dishes are ignored.
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "dish id"
// @Success      200  {object}  cartView
// @Router       /cart/items/{id} [delete]
func removeItemHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, applied := s.RemoveItem(c.Param("id"))
		cartResponse(c, st, applied)
	}
}

// setQuantityHandler godoc
// @Summary      Set a line's quantity
// @Description  Zero removes the line; negative values are ignored.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "dish id"
// @Param        body  body      setQuantityRequest  true  "quantity"
// @Success      200   {object}  cartView
// @Failure      400   {object}  errorResponse
// @Router       /cart/items/{id} [put]
func setQuantityHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "quantity is required"})
			return
		}
		st, applied := s.SetQuantity(c.Param("id"), *req.Quantity)
		cartResponse(c, st, applied)
	}
}

// clearCartHandler godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartView
// @Router       /cart [delete]
func clearCartHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newCartView(s.ClearCart()))
	}
}

func cartResponse(c *gin.Context, st cart.State, applied bool) {
	v := newCartView(st)
	v.Applied = &applied
	c.JSON(http.StatusOK, v)
}

// placeOrderHandler godoc
// @Summary      Place the current cart as an order
// @Tags         orders
// @Produce      json
// @Success      201  {object}  order.Order
// @Failure      409  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /orders [post]
func placeOrderHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := s.PlaceOrder(detached(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// listOrdersHandler godoc
// @Summary      Order history, newest first
// @Tags         orders
// @Produce      json
// @Success      200  {array}  order.Order
// @Router       /orders [get]
func listOrdersHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders := s.History.Orders()
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

// getOrderHandler godoc
// @Summary      One order from the history
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "order id"
// @Success      200  {object}  order.Order
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func getOrderHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := s.History.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// orderQRHandler godoc
// @Summary      Receipt QR code for an order
// @Tags         orders
// @Produce      png
// @Param        id   path  string  true  "order id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id}/qrcode [get]
func orderQRHandler(s *storefront.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := s.History.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		png, err := order.ReceiptQR(o, order.DefaultQRSize)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "image/png", png)
	}
}
