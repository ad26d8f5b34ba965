package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a company or individual the shop does business with.
type Customer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null" binding:"required"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
}

func (Customer) TableName() string {
	return "customers"
}

// Product represents a catalog item used on invoices and work orders.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SKU         string    `json:"sku" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Invoice groups billed line items for a customer.
type Invoice struct {
	ID         uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Number     string        `json:"number" gorm:"uniqueIndex;not null"`
	CustomerID uuid.UUID     `json:"customer_id" gorm:"type:uuid;not null"`
	Status     InvoiceStatus `json:"status" gorm:"default:draft"`
	Total      float64       `json:"total"`
	IssuedAt   *time.Time    `json:"issued_at"`
	DueAt      *time.Time    `json:"due_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	CreatedBy  string        `json:"created_by"`

	// Relations
	Customer Customer      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID   uuid.UUID  `json:"invoice_id" gorm:"type:uuid;not null"`
	ProductID   *uuid.UUID `json:"product_id" gorm:"type:uuid"`
	Description string     `json:"description" gorm:"not null"`
	Quantity    int        `json:"quantity" gorm:"default:1"`
	UnitPrice   float64    `json:"unit_price"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Enums
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Request/Response DTOs
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"is_active"`
}

type CreateProductRequest struct {
	SKU         string  `json:"sku" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unit_price"`
	IsActive    *bool    `json:"is_active"`
}

type CreateInvoiceRequest struct {
	CustomerID uuid.UUID                  `json:"customer_id" binding:"required"`
	DueAt      *time.Time                 `json:"due_at"`
	Items      []CreateInvoiceItemRequest `json:"items" binding:"required,min=1"`
}

type CreateInvoiceItemRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	Description string     `json:"description" binding:"required"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
}

type ListResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}
