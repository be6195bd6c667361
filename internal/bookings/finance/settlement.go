package finance

import (
	"errors"

	"travelwindow/pkg/model"
)

// Settlement input/validation errors, mapped to validation failures by
// the caller.
var (
	ErrChargeFromClientRequired  = errors.New("charge from client is required for credit card payments")
	ErrCommittedToClientRequired = errors.New("committed to client is required")
)

// SettlementInput carries everything the cancellation arithmetic needs.
// ChargeFromClient is consulted only on the credit-card path,
// CommittedToClient only on the others.
type SettlementInput struct {
	PaymentModeWas string

	SalePrice      float64
	OurCost        float64
	TotalSalePrice float64
	TotalPaid      float64

	SupplierCancellationCharges float64
	OurCancellationCharges      float64

	ChargeFromClient  *float64
	CommittedToClient *float64
}

// Settle computes the cancellation settlement. The result is written
// once onto the booking's cancellation record and never recomputed.
func Settle(in SettlementInput) (model.Cancellation, error) {
	oldMargin := in.SalePrice - in.OurCost

	c := model.Cancellation{
		IsCancelled:                 true,
		PaymentModeWas:              in.PaymentModeWas,
		TotalAmountPaidByClient:     in.TotalPaid,
		OldMargin:                   oldMargin,
		SupplierCancellationCharges: in.SupplierCancellationCharges,
		OurCancellationCharges:      in.OurCancellationCharges,
	}

	if in.PaymentModeWas == model.PaymentModeCreditCard {
		if in.ChargeFromClient == nil {
			return model.Cancellation{}, ErrChargeFromClientRequired
		}
		charge := *in.ChargeFromClient

		c.ChargeFromClient = charge
		c.RefundableAmountToClient = in.TotalSalePrice - in.SupplierCancellationCharges
		c.CurrentMargin = oldMargin + in.SupplierCancellationCharges + c.RefundableAmountToClient - in.TotalSalePrice
		c.NewMargin = charge + c.CurrentMargin
		c.RefundCommittedToClient = in.TotalSalePrice - in.SupplierCancellationCharges - charge
		return c, nil
	}

	// A committed amount of exactly 0 means the field was never filled
	// in, not a zero refund; reject it the same as a missing value.
	if in.CommittedToClient == nil || *in.CommittedToClient == 0 {
		return model.Cancellation{}, ErrCommittedToClientRequired
	}
	committed := *in.CommittedToClient

	c.CommittedToClient = committed
	c.TotalCancellationCharges = oldMargin + in.SupplierCancellationCharges + in.OurCancellationCharges
	c.RefundableAmountCommittedToClient = in.TotalSalePrice - c.TotalCancellationCharges
	c.NewMargin = in.TotalSalePrice - committed
	return c, nil
}
