package validator

import (
	"testing"
	"time"

	"travelwindow/pkg/logger"
	"travelwindow/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{Level: "error", Format: "text", Service: "test"})
	return NewBookingValidator(log)
}

func validBooking() *model.Booking {
	return &model.Booking{
		PaxName:       "JOHN DOE",
		ContactNumber: "+911234567890",
		PNR:           "AB123",
		SectorType:    model.SectorOneWay,
		TravelDate:    time.Now().Add(24 * time.Hour),
		From:          "DEL",
		To:            "BOM",
		OurCost:       800,
		SalePrice:     1000,
	}
}

func TestValidate_AcceptsValidBooking(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RequiresPaxName(t *testing.T) {
	v := newTestValidator()
	b := validBooking()
	b.PaxName = ""

	err := v.Validate(b)
	if err == nil {
		t.Fatal("expected validation error for missing paxName")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if verrs[0].Field != "PaxName" {
		t.Errorf("field = %q, want PaxName", verrs[0].Field)
	}
}

func TestValidate_RejectsBadSectorType(t *testing.T) {
	v := newTestValidator()
	b := validBooking()
	b.SectorType = "Triangular"

	if err := v.Validate(b); err == nil {
		t.Fatal("expected validation error for unknown sector type")
	}
}

func TestValidate_RejectsNegativeAmounts(t *testing.T) {
	v := newTestValidator()
	b := validBooking()
	b.SalePrice = -10

	if err := v.Validate(b); err == nil {
		t.Fatal("expected validation error for negative salePrice")
	}
}

func TestValidate_ReturnBeforeTravel(t *testing.T) {
	v := newTestValidator()
	b := validBooking()
	b.SectorType = model.SectorRoundTrip
	ret := b.TravelDate.Add(-48 * time.Hour)
	b.ReturnDate = &ret

	if err := v.Validate(b); err == nil {
		t.Fatal("expected validation error for return before travel")
	}
}

func TestValidate_MultipleNeedsLegs(t *testing.T) {
	v := newTestValidator()
	b := validBooking()
	b.SectorType = model.SectorMultiple
	b.MultipleSectors = nil

	if err := v.Validate(b); err == nil {
		t.Fatal("expected validation error for empty sector legs")
	}
}

func TestValidateRequest_MandatoryRemarks(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  any
	}{
		{"date change", &model.DateChangeRequest{ChangeTravelDate: true}},
		{"flight change", &model.FlightChangeRequest{}},
		{"seat book", &model.SeatBookRequest{PaymentMode: model.PaymentModeCash}},
		{"cancel", &model.CancellationRequest{PaymentModeWas: model.PaymentModeCash}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.ValidateRequest(tc.req); err == nil {
				t.Fatal("expected validation error for missing remarks")
			}
		})
	}
}

func TestValidateRequest_CancelRejectsUnknownMode(t *testing.T) {
	v := newTestValidator()
	req := &model.CancellationRequest{PaymentModeWas: "Barter", Remarks: "client request"}

	if err := v.ValidateRequest(req); err == nil {
		t.Fatal("expected validation error for unknown payment mode")
	}
}
