package model

import "time"

// BookingUpdate carries a partial edit of a booking. Only non-nil fields
// are applied, and each one is checked against the caller's per-role
// editable-field set before anything is touched.
type BookingUpdate struct {
	PaxName       *string `json:"paxName,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`

	SectorType      *string      `json:"sectorType,omitempty" validate:"omitempty,oneof='One Way' 'Round Trip' 'Multiple'"`
	TravelDate      *time.Time   `json:"travelDate,omitempty"`
	From            *string      `json:"from,omitempty"`
	To              *string      `json:"to,omitempty"`
	ReturnDate      *time.Time   `json:"returnDate,omitempty"`
	MultipleSectors *[]SectorLeg `json:"multipleSectors,omitempty"`
	Note            *string      `json:"note,omitempty"`

	Airline                *string              `json:"airline,omitempty"`
	Supplier               *string              `json:"supplier,omitempty"`
	OurCost                *float64             `json:"ourCost,omitempty"`
	SalePrice              *float64             `json:"salePrice,omitempty"`
	AdditionalService      *string              `json:"additionalService,omitempty"`
	AdditionalServicePrice *float64             `json:"additionalServicePrice,omitempty"`
	AdditionalServices     *[]AdditionalService `json:"additionalServices,omitempty"`

	PaymentType *string    `json:"paymentType,omitempty" validate:"omitempty,oneof=Full Installments"`
	Payments    *[]Payment `json:"payments,omitempty"`

	// Admin-only overrides.
	Status        *string `json:"status,omitempty"`
	BillingStatus *string `json:"billingStatus,omitempty"`
}

// DateChangeRequest asks for a post-booking date amendment. Remarks are
// mandatory; omitted prices keep their current values.
type DateChangeRequest struct {
	ChangeTravelDate bool       `json:"changeTravelDate"`
	ChangeReturnDate bool       `json:"changeReturnDate"`
	NewTravelDate    *time.Time `json:"newTravelDate,omitempty"`
	NewReturnDate    *time.Time `json:"newReturnDate,omitempty"`
	NewOurCost       *float64   `json:"newOurCost,omitempty"`
	NewSalePrice     *float64   `json:"newSalePrice,omitempty"`
	Remarks          string     `json:"remarks" validate:"required"`
}

type FlightChangeRequest struct {
	NewDetails FlightDetails `json:"newDetails"`
	Remarks    string        `json:"remarks" validate:"required"`
}

type SeatBookRequest struct {
	NewOurCost   *float64 `json:"newOurCost,omitempty"`
	NewSalePrice *float64 `json:"newSalePrice,omitempty"`
	NewSupplier  *string  `json:"newSupplier,omitempty"`
	PaymentMode  string   `json:"paymentMode,omitempty" validate:"omitempty,oneof=Cash Cheque 'Credit Card' UPI 'Bank Transfer'"`
	Remarks      string   `json:"remarks" validate:"required"`
}

// CancellationRequest carries the settlement inputs. ChargeFromClient is
// required on the credit-card path, CommittedToClient on every other one.
type CancellationRequest struct {
	PaymentModeWas              string   `json:"paymentModeWas" validate:"required,oneof=Cash Cheque 'Credit Card'"`
	SupplierCancellationCharges float64  `json:"supplierCancellationCharges"`
	OurCancellationCharges      float64  `json:"ourCancellationCharges"`
	ChargeFromClient            *float64 `json:"chargeFromClient,omitempty"`
	CommittedToClient           *float64 `json:"committedToClient,omitempty"`
	Remarks                     string   `json:"remarks" validate:"required"`
}

// AssignRequest hands a booking to another actor.
type AssignRequest struct {
	AssigneeID   string `json:"assigneeId" validate:"required"`
	AssigneeName string `json:"assigneeName" validate:"required"`
	AssigneeRole Role   `json:"assigneeRole" validate:"required"`
}

// ListFilter narrows the booking list. Status accepts either a raw
// lifecycle status or one of the display groupings Ticked / Unticketed /
// Cancelled.
type ListFilter struct {
	Status        string
	Supplier      string
	PNR           string
	ContactNumber string
	DateFrom      *time.Time
	DateTo        *time.Time
}
