package models

import "time"

// Invoice links a billing record to a user. No cascade logic lives in this
// layer; user_id is trusted as provided.
type Invoice struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	Amount        float64   `db:"amount" json:"amount"`
	Status        string    `db:"status" json:"status"`
	DueDate       *string   `db:"due_date" json:"due_date,omitempty"`
	IssueDate     *string   `db:"issue_date" json:"issue_date,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceRequest carries the payload for creating or updating an invoice.
type InvoiceRequest struct {
	UserID        int64   `json:"user_id" validate:"required"`
	InvoiceNumber string  `json:"invoice_number" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
	Status        string  `json:"status"`
	DueDate       *string `json:"due_date"`
	IssueDate     *string `json:"issue_date"`
	Notes         *string `json:"notes"`
}
