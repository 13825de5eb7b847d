// Package api is a contract stub of the external POS REST backend. The real
// backend owns persistence, stock and invoice numbering; this stub mirrors
// its HTTP surface over in-memory state so the till and the tests can run
// without it.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/internal/pos"
)

// InitRoutes registers the backend contract endpoints on the given Gin
// engine, backed by the provided store.
func InitRoutes(e *gin.Engine, store *LocalStorage, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := newStubHandler(store, logger)

	e.GET("/pos", h.handleListProducts)

	e.GET("/customer", h.handleListCustomers)
	e.POST("/customer", h.handleCreateCustomer)

	e.POST("/invoice", h.handleCreateInvoice)
	e.GET("/invoice/retailsale", h.handleListInvoices(pos.SaleSystemRetail))
	e.GET("/invoice/wholesale", h.handleListInvoices(pos.SaleSystemWholesale))
	e.GET("/invoice/:id", h.handleGetInvoice)
	e.PUT("/invoice/:id", h.handleUpdateInvoice)
	e.DELETE("/invoice/:id", h.handleDeleteInvoice)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
