package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentRow is one shipment/invoice line of a penalty worksheet.
type ShipmentRow struct {
	// Identity
	ID uuid.UUID // Assigned at creation, never reused

	// Amounts
	Sum      decimal.Decimal // Committed principal, 2 fractional digits
	SumInput string          // Text currently in the sum field, may be uncommitted
	SumSet   bool            // A sum has been committed at least once

	// Reference
	Document string // Invoice / act (УПД) number

	// Dates
	ShipmentDate *time.Time // Date goods shipped (nil until set)
	PaymentDate  *time.Time // Derived: ShipmentDate + payment term (nil if not derivable)

	// Reporting
	Checked bool // Selected for the claim letter; ignored by calculations
}

// NewShipmentRow returns an empty row with a fresh identifier.
func NewShipmentRow() ShipmentRow {
	return ShipmentRow{
		ID:  uuid.New(),
		Sum: decimal.Zero,
	}
}

// Clone returns a copy that shares no pointers with r.
func (r ShipmentRow) Clone() ShipmentRow {
	out := r
	if r.ShipmentDate != nil {
		d := *r.ShipmentDate
		out.ShipmentDate = &d
	}
	if r.PaymentDate != nil {
		d := *r.PaymentDate
		out.PaymentDate = &d
	}
	return out
}

// DocumentRef is the document/checked pair published to reporting.
type DocumentRef struct {
	Document string `json:"document"`
	Checked  bool   `json:"checked"`
}

// Party identifies the buyer a claim is made against.
type Party struct {
	Buyer     string `json:"buyer"`      // Legal form and name
	TaxNumber string `json:"tax_number"` // ИНН
	Address   string `json:"address"`
	Contract  string `json:"contract"` // Contract number and date
}
