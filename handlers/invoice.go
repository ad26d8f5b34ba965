package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/madebyaram2024/PPC-CRM-sub000/models"
	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

type InvoiceHandler struct {
	db     *gorm.DB
	logger *utils.Logger
}

func NewInvoiceHandler(db *gorm.DB, logger *utils.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		db:     db,
		logger: logger,
	}
}

// ListInvoices handles GET /api/v1/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, pageSize := parsePagination(c)
	status := c.Query("status")
	customerID := c.Query("customer_id")

	query := h.db.Model(&models.Invoice{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("Failed to count invoices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count invoices"})
		return
	}

	var invoices []models.Invoice
	offset := (page - 1) * pageSize
	if err := query.Preload("Customer").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&invoices).Error; err != nil {
		h.logger.Error("Failed to fetch invoices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	c.JSON(http.StatusOK, listResponse(invoices, total, page, pageSize))
}

// CreateInvoice handles POST /api/v1/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer not found"})
		return
	}

	userID, _ := c.Get("userID")

	items := lo.Map(req.Items, func(item models.CreateInvoiceItemRequest, _ int) models.InvoiceItem {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		return models.InvoiceItem{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   item.UnitPrice,
		}
	})

	invoice := models.Invoice{
		Number:     fmt.Sprintf("INV-%d", time.Now().UnixMilli()),
		CustomerID: req.CustomerID,
		Status:     models.InvoiceStatusDraft,
		Total: lo.SumBy(items, func(item models.InvoiceItem) float64 {
			return float64(item.Quantity) * item.UnitPrice
		}),
		DueAt:     req.DueAt,
		Items:     items,
		CreatedBy: userID.(string),
	}

	if err := h.db.Create(&invoice).Error; err != nil {
		h.logger.Error("Failed to create invoice", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	var invoice models.Invoice
	if err := h.db.Preload("Customer").Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// IssueInvoice handles PUT /api/v1/invoices/:id/issue
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	h.transitionStatus(c, models.InvoiceStatusDraft, models.InvoiceStatusIssued)
}

// PayInvoice handles PUT /api/v1/invoices/:id/pay
func (h *InvoiceHandler) PayInvoice(c *gin.Context) {
	h.transitionStatus(c, models.InvoiceStatusIssued, models.InvoiceStatusPaid)
}

// CancelInvoice handles PUT /api/v1/invoices/:id/cancel
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	var invoice models.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	if invoice.Status == models.InvoiceStatusPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Paid invoices cannot be cancelled"})
		return
	}

	if err := h.db.Model(&invoice).Update("status", models.InvoiceStatusCancelled).Error; err != nil {
		h.logger.Error("Failed to cancel invoice", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invoice"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) transitionStatus(c *gin.Context, from, to models.InvoiceStatus) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	var invoice models.Invoice
	if err := h.db.First(&invoice, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	if invoice.Status != from {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Invoice is %s, expected %s", invoice.Status, from),
		})
		return
	}

	updates := map[string]interface{}{"status": to}
	if to == models.InvoiceStatusIssued {
		now := time.Now()
		updates["issued_at"] = &now
	}

	if err := h.db.Model(&invoice).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to update invoice status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice status"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}
