package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBooking_JSONRoundTrip(t *testing.T) {
	travel := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	ret := travel.Add(7 * 24 * time.Hour)
	submitted := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	original := Booking{
		ID:               "65f1a2b3c4d5e6f7a8b9c0d1",
		DateOfSubmission: &submitted,
		SubmittedBy:      "a1",
		SubmittedByName:  "Agent One",
		PaxName:          "JANE DOE",
		ContactPerson:    "Jane",
		ContactNumber:    "+911234567890",
		PNR:              "XY789",
		SectorType:       SectorRoundTrip,
		TravelDate:       travel,
		From:             "Delhi",
		To:               "Singapore",
		ReturnDate:       &ret,
		Note:             "window seat",
		Airline:          "Air India",
		Supplier:         "sup-1",
		SupplierName:     "Skylink Travels",
		OurCost:          800,
		SalePrice:        1000,
		AdditionalServices: []AdditionalService{
			{ServiceName: "Meal", ServiceCost: 50},
		},
		TotalSalePrice: 1050,
		PaymentType:    PaymentTypeInstallments,
		Payments: []Payment{
			{PaidAmount: 500, PaymentMode: PaymentModeUPI, PaymentDate: travel.Add(-30 * 24 * time.Hour), ReferenceNo: "TXN1"},
		},
		TotalPaidAmount: 500,
		BalanceAmount:   550,
		BillingStatus:   BillingPartialPaid,
		Status:          StatusPendingVerification,
		ProgressHistory: []ProgressHistoryEntry{
			{ID: "e1", Action: "created", PerformedBy: "a1", PerformedByName: "Agent One", Timestamp: submitted},
		},
		Revision: 3,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Booking
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	again, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("round trip mutated the booking:\n before: %s\n after:  %s", data, again)
	}

	if decoded.PNR != "XY789" || decoded.Revision != 3 || !decoded.TravelDate.Equal(travel) {
		t.Error("decoded fields do not match the original")
	}
}

func TestPayment_LooseDecoding(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantAmt  float64
		wantMode string
	}{
		{
			name:     "string amount",
			payload:  `{"paidAmount":"1500.50","paymentMode":"UPI","paymentDate":"2026-01-15T00:00:00Z"}`,
			wantAmt:  1500.50,
			wantMode: PaymentModeUPI,
		},
		{
			name:     "numeric amount and default mode",
			payload:  `{"paidAmount":200,"paymentDate":"2026-01-15"}`,
			wantAmt:  200,
			wantMode: PaymentModeCash,
		},
		{
			name:     "garbage amount becomes zero",
			payload:  `{"paidAmount":"n/a","paymentMode":"Cash"}`,
			wantAmt:  0,
			wantMode: PaymentModeCash,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p Payment
			if err := json.Unmarshal([]byte(tc.payload), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.PaidAmount != tc.wantAmt {
				t.Errorf("paidAmount = %v, want %v", p.PaidAmount, tc.wantAmt)
			}
			if p.PaymentMode != tc.wantMode {
				t.Errorf("paymentMode = %q, want %q", p.PaymentMode, tc.wantMode)
			}
			if p.PaymentDate.IsZero() {
				t.Error("paymentDate not set")
			}
		})
	}
}

func TestRole_Helpers(t *testing.T) {
	if !RoleAgent1.IsAgent() || !RoleAgent2.IsAgent() {
		t.Error("agent roles not recognized")
	}
	if RoleAccount.IsAgent() {
		t.Error("account misclassified as agent")
	}
	if !RoleAccount.IsElevated() || !RoleAdmin.IsElevated() {
		t.Error("elevated roles not recognized")
	}
	if Role("GUEST").Valid() {
		t.Error("unknown role accepted")
	}
}
