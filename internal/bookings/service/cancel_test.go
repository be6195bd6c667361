package service

import (
	"context"
	"testing"
	"time"

	apperrors "travelwindow/pkg/errors"
	"travelwindow/pkg/model"
)

func paidBooking() *model.Booking {
	b := draftBooking()
	b.Status = model.StatusAccountVerified
	b.VerifiedByAccount = true
	b.TotalSalePrice = 1000
	b.Payments = []model.Payment{{PaidAmount: 1000, PaymentMode: model.PaymentModeCreditCard, PaymentDate: time.Now()}}
	b.TotalPaidAmount = 1000
	b.BillingStatus = model.BillingFullyPaid
	return b
}

func TestCancel_CreditCardSettlement(t *testing.T) {
	svc := newTestService(stored(paidBooking()))

	charge := 500.0
	got, err := svc.Cancel(context.Background(), account(), "booking-1", &model.CancellationRequest{
		PaymentModeWas:              model.PaymentModeCreditCard,
		SupplierCancellationCharges: 100,
		ChargeFromClient:            &charge,
		Remarks:                     "client requested cancellation",
	})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if got.Status != model.StatusCancelled {
		t.Errorf("status = %q, want Cancelled", got.Status)
	}
	c := got.Cancellation
	if !c.IsCancelled {
		t.Error("isCancelled not set")
	}
	if c.RefundableAmountToClient != 900 {
		t.Errorf("refundableAmountToClient = %v, want 900", c.RefundableAmountToClient)
	}
	if c.NewMargin != 700 {
		t.Errorf("newMargin = %v, want 700", c.NewMargin)
	}
	if c.CancelledBy != "ac1" || c.CancelledAt == nil {
		t.Error("canceller stamp missing")
	}
	if got.ProgressHistory[0].Action != "cancelled" {
		t.Errorf("trail action = %q", got.ProgressHistory[0].Action)
	}
}

func TestCancel_CreditCardWithoutCharge(t *testing.T) {
	svc := newTestService(stored(paidBooking()))

	_, err := svc.Cancel(context.Background(), account(), "booking-1", &model.CancellationRequest{
		PaymentModeWas: model.PaymentModeCreditCard,
		Remarks:        "missing charge",
	})
	wantCode(t, err, apperrors.CodeValidation)
}

func TestCancel_CashPathNeedsCommitted(t *testing.T) {
	svc := newTestService(stored(paidBooking()))

	req := &model.CancellationRequest{
		PaymentModeWas: model.PaymentModeCash,
		Remarks:        "cash refund",
	}
	_, err := svc.Cancel(context.Background(), account(), "booking-1", req)
	wantCode(t, err, apperrors.CodeValidation)

	committed := 700.0
	req.CommittedToClient = &committed
	got, err := svc.Cancel(context.Background(), account(), "booking-1", req)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Cancellation.NewMargin != 300 {
		t.Errorf("newMargin = %v, want 300", got.Cancellation.NewMargin)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	b := paidBooking()
	b.Status = model.StatusCancelled
	b.Cancellation.IsCancelled = true
	svc := newTestService(stored(b))

	committed := 100.0
	_, err := svc.Cancel(context.Background(), account(), "booking-1", &model.CancellationRequest{
		PaymentModeWas:    model.PaymentModeCash,
		CommittedToClient: &committed,
		Remarks:           "again",
	})
	wantCode(t, err, apperrors.CodeConflict)
}

func TestCancel_RequiresRemarks(t *testing.T) {
	svc := newTestService(stored(paidBooking()))

	committed := 100.0
	_, err := svc.Cancel(context.Background(), account(), "booking-1", &model.CancellationRequest{
		PaymentModeWas:    model.PaymentModeCash,
		CommittedToClient: &committed,
	})
	wantCode(t, err, apperrors.CodeValidation)
}

func TestProcessRefund(t *testing.T) {
	b := paidBooking()
	b.Status = model.StatusCancelled
	b.Cancellation.IsCancelled = true
	svc := newTestService(stored(b))

	_, err := svc.ProcessRefund(context.Background(), agent(), "booking-1")
	wantCode(t, err, apperrors.CodeForbidden)

	got, err := svc.ProcessRefund(context.Background(), account(), "booking-1")
	if err != nil {
		t.Fatalf("ProcessRefund: %v", err)
	}
	if !got.Cancellation.RefundProcessed {
		t.Error("refundProcessed not set")
	}
	if got.Cancellation.RefundProcessedBy != "ac1" || got.Cancellation.RefundProcessedDate == nil {
		t.Error("processor stamp missing")
	}
}

func TestProcessRefund_NotCancelled(t *testing.T) {
	svc := newTestService(stored(paidBooking()))

	_, err := svc.ProcessRefund(context.Background(), account(), "booking-1")
	wantCode(t, err, apperrors.CodeConflict)
}

func TestRevertCancellation(t *testing.T) {
	b := paidBooking()
	b.Status = model.StatusCancelled
	now := time.Now().UTC()
	b.DateOfSubmission = &now
	b.Cancellation = model.Cancellation{
		IsCancelled:    true,
		PaymentModeWas: model.PaymentModeCash,
		NewMargin:      300,
	}
	svc := newTestService(stored(b))

	_, err := svc.RevertCancellation(context.Background(), account(), "booking-1")
	wantCode(t, err, apperrors.CodeForbidden)

	got, err := svc.RevertCancellation(context.Background(), admin(), "booking-1")
	if err != nil {
		t.Fatalf("RevertCancellation: %v", err)
	}

	if got.Cancellation.IsCancelled {
		t.Error("cancellation record not cleared")
	}
	if got.Cancellation.NewMargin != 0 {
		t.Error("settlement figures survived the revert")
	}
	// Account verification happened before the cancel, so the booking
	// lands back on that rung.
	if got.Status != model.StatusAccountVerified {
		t.Errorf("status = %q, want Account Verified", got.Status)
	}
}

func TestRevertCancellation_BackToDraft(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusCancelled
	b.Cancellation.IsCancelled = true
	svc := newTestService(stored(b))

	got, err := svc.RevertCancellation(context.Background(), admin(), "booking-1")
	if err != nil {
		t.Fatalf("RevertCancellation: %v", err)
	}
	if got.Status != model.StatusDraft {
		t.Errorf("status = %q, want Draft", got.Status)
	}
}
