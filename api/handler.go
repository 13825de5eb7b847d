package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/internal/pos"
)

// stubHandler implements the backend contract over a LocalStorage.
type stubHandler struct {
	store  *LocalStorage
	logger *zap.Logger
}

func newStubHandler(store *LocalStorage, logger *zap.Logger) *stubHandler {
	return &stubHandler{store: store, logger: logger}
}

// handleListProducts handles GET /pos.
func (h *stubHandler) handleListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ListProducts())
}

// handleListCustomers handles GET /customer.
func (h *stubHandler) handleListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ListCustomers())
}

// handleCreateCustomer handles POST /customer. A duplicate phone number
// answers 409, which the client maps to its conflict error.
func (h *stubHandler) handleCreateCustomer(c *gin.Context) {
	var in pos.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("stub: failed to bind customer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if in.CustomerName == "" || in.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "customerName and phone are required"})
		return
	}

	customer, err := h.store.CreateCustomer(in)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Customer already exists."})
		return
	}

	h.logger.Info("stub: customer created",
		zap.String("customer_id", customer.CustomerID),
		zap.String("phone", customer.Phone))
	c.JSON(http.StatusCreated, customer)
}

// handleCreateInvoice handles POST /invoice.
func (h *stubHandler) handleCreateInvoice(c *gin.Context) {
	var draft pos.InvoiceDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("stub: failed to bind invoice payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	invoice, err := h.store.CreateInvoice(draft)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	h.logger.Info("stub: invoice created",
		zap.Int("transaction_id", invoice.TransactionID),
		zap.String("sale_system", string(invoice.SaleSystem)))
	c.JSON(http.StatusCreated, invoice)
}

// handleListInvoices handles GET /invoice/retailsale and GET /invoice/wholesale.
func (h *stubHandler) handleListInvoices(system pos.SaleSystem) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.store.ListInvoicesBySystem(system))
	}
}

// handleGetInvoice handles GET /invoice/:id.
func (h *stubHandler) handleGetInvoice(c *gin.Context) {
	invoice, err := h.store.GetInvoice(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// handleUpdateInvoice handles PUT /invoice/:id.
func (h *stubHandler) handleUpdateInvoice(c *gin.Context) {
	var update pos.DuePaymentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	invoice, err := h.store.UpdateInvoice(c.Param("id"), update)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// handleDeleteInvoice handles DELETE /invoice/:id.
func (h *stubHandler) handleDeleteInvoice(c *gin.Context) {
	if err := h.store.DeleteInvoice(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
