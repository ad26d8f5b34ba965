package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkOrder tracks a manufacturing job from intake to completion.
type WorkOrder struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Number      string          `json:"number" gorm:"uniqueIndex;not null"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description"`
	Status      WorkOrderStatus `json:"status" gorm:"default:pending"`
	Priority    string          `json:"priority" gorm:"default:normal"`
	CustomerID  uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null"`
	AssignedTo  string          `json:"assigned_to"`
	DueAt       *time.Time      `json:"due_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CreatedBy   string          `json:"created_by"`

	// Relations
	Customer Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

// Request/Response DTOs
type CreateWorkOrderRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	CustomerID  uuid.UUID  `json:"customer_id" binding:"required"`
	AssignedTo  string     `json:"assigned_to"`
	DueAt       *time.Time `json:"due_at"`
}

type UpdateWorkOrderRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *string          `json:"priority"`
	Status      *WorkOrderStatus `json:"status"`
	AssignedTo  *string          `json:"assigned_to"`
	DueAt       *time.Time       `json:"due_at"`
}
