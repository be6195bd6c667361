package model

import (
	"encoding/json"
	"time"

	"travelwindow/pkg/sanitizer"
)

// Booking lifecycle statuses.
const (
	StatusDraft               = "Draft"
	StatusPendingVerification = "Pending Verification"
	StatusAccountVerified     = "Account Verified"
	StatusAdminVerified       = "Admin Verified"
	StatusBilled              = "Billed"
	StatusPaid                = "Paid"
	StatusUnticketed          = "Unticketed"
	StatusTicked              = "Ticked"
	StatusCancelled           = "Cancelled"
)

// Billing statuses derived from payments.
const (
	BillingUnpaid      = "Unpaid"
	BillingPartialPaid = "Partial Paid"
	BillingFullyPaid   = "Fully Paid"
)

// Payment modes.
const (
	PaymentModeCash         = "Cash"
	PaymentModeCheque       = "Cheque"
	PaymentModeCreditCard   = "Credit Card"
	PaymentModeUPI          = "UPI"
	PaymentModeBankTransfer = "Bank Transfer"
)

// Sector types.
const (
	SectorOneWay    = "One Way"
	SectorRoundTrip = "Round Trip"
	SectorMultiple  = "Multiple"
)

// Payment types.
const (
	PaymentTypeFull         = "Full"
	PaymentTypeInstallments = "Installments"
)

// Booking is the aggregate root. Field names mirror the wire contract
// one to one; derived totals are recomputed by the finance package after
// every mutation and never set directly by callers.
type Booking struct {
	ID string `json:"id,omitempty" bson:"_id,omitempty"`

	DateOfSubmission *time.Time `json:"dateOfSubmission,omitempty" bson:"dateOfSubmission,omitempty"`
	SubmittedBy      string     `json:"submittedBy" bson:"submittedBy"`
	SubmittedByName  string     `json:"submittedByName" bson:"submittedByName"`

	PaxName       string `json:"paxName" bson:"paxName" validate:"required"`
	ContactPerson string `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	ContactNumber string `json:"contactNumber" bson:"contactNumber" validate:"required"`
	PNR           string `json:"pnr" bson:"pnr" validate:"required"`

	SectorType      string      `json:"sectorType" bson:"sectorType" validate:"required,oneof='One Way' 'Round Trip' 'Multiple'"`
	TravelDate      time.Time   `json:"travelDate" bson:"travelDate" validate:"required"`
	From            string      `json:"from" bson:"from" validate:"required"`
	To              string      `json:"to" bson:"to" validate:"required"`
	ReturnDate      *time.Time  `json:"returnDate,omitempty" bson:"returnDate,omitempty"`
	MultipleSectors []SectorLeg `json:"multipleSectors,omitempty" bson:"multipleSectors,omitempty"`
	Note            string      `json:"note,omitempty" bson:"note,omitempty"`

	Airline                string              `json:"airline,omitempty" bson:"airline,omitempty"`
	Supplier               string              `json:"supplier,omitempty" bson:"supplier,omitempty"`
	SupplierName           string              `json:"supplierName,omitempty" bson:"supplierName,omitempty"`
	OutsourcedChannel      bool                `json:"outsourcedChannel" bson:"outsourcedChannel"`
	OurCost                float64             `json:"ourCost" bson:"ourCost"`
	SalePrice              float64             `json:"salePrice" bson:"salePrice"`
	AdditionalService      string              `json:"additionalService,omitempty" bson:"additionalService,omitempty"`
	AdditionalServicePrice float64             `json:"additionalServicePrice" bson:"additionalServicePrice"`
	AdditionalServices     []AdditionalService `json:"additionalServices,omitempty" bson:"additionalServices,omitempty"`
	TotalSalePrice         float64             `json:"totalSalePrice" bson:"totalSalePrice"`

	PaymentType     string    `json:"paymentType" bson:"paymentType" validate:"omitempty,oneof=Full Installments"`
	Payments        []Payment `json:"payments" bson:"payments"`
	TotalPaidAmount float64   `json:"totalPaidAmount" bson:"totalPaidAmount"`
	BalanceAmount   float64   `json:"balanceAmount" bson:"balanceAmount"`
	BillingStatus   string    `json:"billingStatus" bson:"billingStatus"`

	Status string `json:"status" bson:"status"`

	VerifiedByAccount     bool       `json:"verifiedByAccount" bson:"verifiedByAccount"`
	VerifiedByAccountDate *time.Time `json:"verifiedByAccountDate,omitempty" bson:"verifiedByAccountDate,omitempty"`
	VerifiedByAccountUser string     `json:"verifiedByAccountUser,omitempty" bson:"verifiedByAccountUser,omitempty"`
	VerifiedByAdmin       bool       `json:"verifiedByAdmin" bson:"verifiedByAdmin"`
	VerifiedByAdminDate   *time.Time `json:"verifiedByAdminDate,omitempty" bson:"verifiedByAdminDate,omitempty"`
	VerifiedByAdminUser   string     `json:"verifiedByAdminUser,omitempty" bson:"verifiedByAdminUser,omitempty"`

	AssignedTo     string `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	AssignedToName string `json:"assignedToName,omitempty" bson:"assignedToName,omitempty"`

	ProgressHistory []ProgressHistoryEntry `json:"progressHistory" bson:"progressHistory"`

	DateChanges     []DateChange     `json:"dateChanges,omitempty" bson:"dateChanges,omitempty"`
	FlightChanges   []FlightChange   `json:"flightChanges,omitempty" bson:"flightChanges,omitempty"`
	SeatBookChanges []SeatBookChange `json:"seatBookChanges,omitempty" bson:"seatBookChanges,omitempty"`

	Cancellation Cancellation `json:"cancellation" bson:"cancellation"`

	// Revision is checked and incremented on every write; a stale
	// revision fails the write instead of overwriting newer state.
	Revision int64 `json:"revision" bson:"revision"`

	CreatedAt time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// SectorLeg is one leg of a multi-sector itinerary.
type SectorLeg struct {
	TravelDate time.Time `json:"travelDate" bson:"travelDate"`
	From       string    `json:"from" bson:"from"`
	To         string    `json:"to" bson:"to"`
}

type AdditionalService struct {
	ServiceName string  `json:"serviceName" bson:"serviceName"`
	ServiceCost float64 `json:"serviceCost" bson:"serviceCost"`
}

// Payment is one received payment against a booking.
type Payment struct {
	PaidAmount  float64   `json:"paidAmount" bson:"paidAmount"`
	PaymentMode string    `json:"paymentMode" bson:"paymentMode"`
	PaymentDate time.Time `json:"paymentDate" bson:"paymentDate"`
	ReferenceNo string    `json:"referenceNo,omitempty" bson:"referenceNo,omitempty"`
}

// UnmarshalJSON tolerates the loose payloads clients actually send:
// amounts as strings, dates in several formats, a missing mode.
// Unparseable amounts become 0, unparseable dates become now, a missing
// mode defaults to Cash.
func (p *Payment) UnmarshalJSON(data []byte) error {
	var raw struct {
		PaidAmount  json.RawMessage `json:"paidAmount"`
		PaymentMode string          `json:"paymentMode"`
		PaymentDate json.RawMessage `json:"paymentDate"`
		ReferenceNo string          `json:"referenceNo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.PaidAmount = sanitizer.CoerceAmount(raw.PaidAmount)
	p.PaymentDate = sanitizer.CoerceTimestamp(raw.PaymentDate)
	p.PaymentMode = raw.PaymentMode
	if p.PaymentMode == "" {
		p.PaymentMode = PaymentModeCash
	}
	p.ReferenceNo = raw.ReferenceNo
	return nil
}

// ProgressHistoryEntry is one line of the append-only audit trail.
type ProgressHistoryEntry struct {
	ID              string         `json:"id" bson:"id"`
	Action          string         `json:"action" bson:"action"`
	PerformedBy     string         `json:"performedBy" bson:"performedBy"`
	PerformedByName string         `json:"performedByName" bson:"performedByName"`
	Timestamp       time.Time      `json:"timestamp" bson:"timestamp"`
	Changes         map[string]any `json:"changes,omitempty" bson:"changes,omitempty"`
	Remarks         string         `json:"remarks,omitempty" bson:"remarks,omitempty"`
}

// DateChange is an immutable before/after snapshot of a date amendment.
type DateChange struct {
	OldTravelDate time.Time  `json:"oldTravelDate" bson:"oldTravelDate"`
	NewTravelDate time.Time  `json:"newTravelDate" bson:"newTravelDate"`
	OldReturnDate *time.Time `json:"oldReturnDate,omitempty" bson:"oldReturnDate,omitempty"`
	NewReturnDate *time.Time `json:"newReturnDate,omitempty" bson:"newReturnDate,omitempty"`
	OldOurCost    float64    `json:"oldOurCost" bson:"oldOurCost"`
	NewOurCost    float64    `json:"newOurCost" bson:"newOurCost"`
	OldSalePrice  float64    `json:"oldSalePrice" bson:"oldSalePrice"`
	NewSalePrice  float64    `json:"newSalePrice" bson:"newSalePrice"`
	Remarks       string     `json:"remarks" bson:"remarks"`
	ChangedBy     string     `json:"changedBy" bson:"changedBy"`
	ChangedAt     time.Time  `json:"changedAt" bson:"changedAt"`
}

// FlightDetails is the flight-level slice of a booking captured on either
// side of a flight change.
type FlightDetails struct {
	Airline    string     `json:"airline,omitempty" bson:"airline,omitempty"`
	From       string     `json:"from,omitempty" bson:"from,omitempty"`
	To         string     `json:"to,omitempty" bson:"to,omitempty"`
	TravelDate *time.Time `json:"travelDate,omitempty" bson:"travelDate,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty" bson:"returnDate,omitempty"`
}

type FlightChange struct {
	OldDetails FlightDetails `json:"oldDetails" bson:"oldDetails"`
	NewDetails FlightDetails `json:"newDetails" bson:"newDetails"`
	Remarks    string        `json:"remarks" bson:"remarks"`
	ChangedBy  string        `json:"changedBy" bson:"changedBy"`
	ChangedAt  time.Time     `json:"changedAt" bson:"changedAt"`
}

type SeatBookChange struct {
	OldOurCost   float64   `json:"oldOurCost" bson:"oldOurCost"`
	NewOurCost   float64   `json:"newOurCost" bson:"newOurCost"`
	OldSalePrice float64   `json:"oldSalePrice" bson:"oldSalePrice"`
	NewSalePrice float64   `json:"newSalePrice" bson:"newSalePrice"`
	OldSupplier  string    `json:"oldSupplier,omitempty" bson:"oldSupplier,omitempty"`
	NewSupplier  string    `json:"newSupplier,omitempty" bson:"newSupplier,omitempty"`
	PaymentMode  string    `json:"paymentMode,omitempty" bson:"paymentMode,omitempty"`
	Remarks      string    `json:"remarks" bson:"remarks"`
	ChangedBy    string    `json:"changedBy" bson:"changedBy"`
	ChangedAt    time.Time `json:"changedAt" bson:"changedAt"`
}

// Cancellation holds the settlement computed at cancellation time. The
// monetary fields are written once and never recomputed afterwards.
type Cancellation struct {
	IsCancelled             bool    `json:"isCancelled" bson:"isCancelled"`
	PaymentModeWas          string  `json:"paymentModeWas,omitempty" bson:"paymentModeWas,omitempty"`
	TotalAmountPaidByClient float64 `json:"totalAmountPaidByClient" bson:"totalAmountPaidByClient"`
	OldMargin               float64 `json:"oldMargin" bson:"oldMargin"`
	NewMargin               float64 `json:"newMargin" bson:"newMargin"`
	CurrentMargin           float64 `json:"currentMargin" bson:"currentMargin"`
	CommittedToClient       float64 `json:"committedToClient" bson:"committedToClient"`
	ChargeFromClient        float64 `json:"chargeFromClient" bson:"chargeFromClient"`

	SupplierCancellationCharges float64 `json:"supplierCancellationCharges" bson:"supplierCancellationCharges"`
	OurCancellationCharges      float64 `json:"ourCancellationCharges" bson:"ourCancellationCharges"`
	TotalCancellationCharges    float64 `json:"totalCancellationCharges" bson:"totalCancellationCharges"`

	RefundableAmountToClient          float64 `json:"refundableAmountToClient" bson:"refundableAmountToClient"`
	RefundableAmountCommittedToClient float64 `json:"refundableAmountCommittedToClient" bson:"refundableAmountCommittedToClient"`
	RefundCommittedToClient           float64 `json:"refundCommittedToClient" bson:"refundCommittedToClient"`

	RefundProcessed     bool       `json:"refundProcessed" bson:"refundProcessed"`
	RefundProcessedBy   string     `json:"refundProcessedBy,omitempty" bson:"refundProcessedBy,omitempty"`
	RefundProcessedDate *time.Time `json:"refundProcessedDate,omitempty" bson:"refundProcessedDate,omitempty"`

	Remarks     string     `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CancelledBy string     `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
}
