package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madebyaram2024/PPC-CRM-sub000/models"
	"github.com/madebyaram2024/PPC-CRM-sub000/realtime"
	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// WorkOrderHandler owns work-order CRUD. Lifecycle changes are pushed to
// connected clients through the realtime notifier; a notifier that is not
// running degrades to a no-op, so database writes never fail on account of
// realtime delivery.
type WorkOrderHandler struct {
	db       *gorm.DB
	notifier *realtime.Notifier
	logger   *utils.Logger
}

func NewWorkOrderHandler(db *gorm.DB, notifier *realtime.Notifier, logger *utils.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

// ListWorkOrders handles GET /api/v1/workorders
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)
	status := c.Query("status")
	customerID := c.Query("customer_id")
	assignedTo := c.Query("assigned_to")

	query := h.db.Model(&models.WorkOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("Failed to count work orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count work orders"})
		return
	}

	var workOrders []models.WorkOrder
	offset := (page - 1) * pageSize
	if err := query.Preload("Customer").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&workOrders).Error; err != nil {
		h.logger.Error("Failed to fetch work orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work orders"})
		return
	}

	c.JSON(http.StatusOK, listResponse(workOrders, total, page, pageSize))
}

// CreateWorkOrder handles POST /api/v1/workorders
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	var req models.CreateWorkOrderRequest
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

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	workOrder := models.WorkOrder{
		Number:      fmt.Sprintf("WO-%d", time.Now().UnixMilli()),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.WorkOrderStatusPending,
		Priority:    priority,
		CustomerID:  req.CustomerID,
		AssignedTo:  req.AssignedTo,
		DueAt:       req.DueAt,
		CreatedBy:   userID.(string),
	}

	if err := h.db.Create(&workOrder).Error; err != nil {
		h.logger.Error("Failed to create work order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create work order"})
		return
	}

	h.notifier.NotifyWorkOrderCreated(&workOrder)
	c.JSON(http.StatusCreated, workOrder)
}

// GetWorkOrder handles GET /api/v1/workorders/:id
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
		return
	}

	var workOrder models.WorkOrder
	if err := h.db.Preload("Customer").First(&workOrder, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		return
	}

	c.JSON(http.StatusOK, workOrder)
}

// UpdateWorkOrder handles PUT /api/v1/workorders/:id
func (h *WorkOrderHandler) UpdateWorkOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
		return
	}

	var req models.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var workOrder models.WorkOrder
	if err := h.db.First(&workOrder, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.DueAt != nil {
		updates["due_at"] = req.DueAt
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == models.WorkOrderStatusCompleted {
			now := time.Now()
			updates["completed_at"] = &now
		}
	}

	if err := h.db.Model(&workOrder).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to update work order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update work order"})
		return
	}

	if req.Status != nil && *req.Status == models.WorkOrderStatusCompleted {
		h.notifier.NotifyWorkOrderCompleted(&workOrder)
	} else {
		h.notifier.NotifyWorkOrderUpdated(&workOrder)
	}
	c.JSON(http.StatusOK, workOrder)
}

// CompleteWorkOrder handles PUT /api/v1/workorders/:id/complete
func (h *WorkOrderHandler) CompleteWorkOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
		return
	}

	var workOrder models.WorkOrder
	if err := h.db.First(&workOrder, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		return
	}

	if workOrder.Status == models.WorkOrderStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Work order already completed"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.WorkOrderStatusCompleted,
		"completed_at": &now,
	}
	if err := h.db.Model(&workOrder).Updates(updates).Error; err != nil {
		h.logger.Error("Failed to complete work order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete work order"})
		return
	}

	h.notifier.NotifyWorkOrderCompleted(&workOrder)
	c.JSON(http.StatusOK, workOrder)
}

// DeleteWorkOrder handles DELETE /api/v1/workorders/:id
func (h *WorkOrderHandler) DeleteWorkOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
		return
	}

	result := h.db.Delete(&models.WorkOrder{}, "id = ?", id)
	if result.Error != nil {
		h.logger.Error("Failed to delete work order", "error", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete work order"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Work order deleted"})
}
