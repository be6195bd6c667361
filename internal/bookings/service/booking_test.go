package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "travelwindow/internal/bookings/errors"
	"travelwindow/internal/bookings/repository"
	"travelwindow/internal/bookings/validator"
	"travelwindow/pkg/config"
	mongotx "travelwindow/pkg/db/mongo"
	apperrors "travelwindow/pkg/errors"
	"travelwindow/pkg/logger"
	"travelwindow/pkg/model"
)

type mockRepo struct {
	createFn    func(ctx context.Context, b *model.Booking) error
	findByIDFn  func(ctx context.Context, id string) (*model.Booking, error)
	findByPNRFn func(ctx context.Context, pnr string) (*model.Booking, error)
	findFn      func(ctx context.Context, f model.ListFilter, hideDrafts bool, limit int, offset int64) ([]*model.Booking, error)
	countFn     func(ctx context.Context, f model.ListFilter, hideDrafts bool) (int64, error)
	replaceFn   func(ctx context.Context, b *model.Booking, rev int64) error
}

var _ repository.BookingRepository = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, b *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	b.ID = "booking-1"
	b.Revision = 1
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockRepo) FindByPNR(ctx context.Context, pnr string) (*model.Booking, error) {
	if m.findByPNRFn != nil {
		return m.findByPNRFn(ctx, pnr)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockRepo) Find(ctx context.Context, f model.ListFilter, hideDrafts bool, limit int, offset int64) ([]*model.Booking, error) {
	if m.findFn != nil {
		return m.findFn(ctx, f, hideDrafts, limit, offset)
	}
	return nil, nil
}

func (m *mockRepo) Count(ctx context.Context, f model.ListFilter, hideDrafts bool) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, f, hideDrafts)
	}
	return 0, nil
}

func (m *mockRepo) Replace(ctx context.Context, b *model.Booking, rev int64) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, b, rev)
	}
	b.Revision = rev + 1
	return nil
}

func (m *mockRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockDirectory struct {
	suppliers map[string]*model.Supplier
}

func (m *mockDirectory) Lookup(ctx context.Context, id string) (*model.Supplier, error) {
	if s, ok := m.suppliers[id]; ok {
		return s, nil
	}
	return nil, apperrors.NotFoundWithID("Supplier", id)
}

func newTestService(repo *mockRepo) BookingService {
	log := logger.New(logger.Config{Level: "error", Format: "text", Service: "test"})
	cfg := &config.Config{Log: log}
	dir := &mockDirectory{suppliers: map[string]*model.Supplier{
		"sup-direct":     {ID: "sup-direct", Name: "Skylink Travels", IsActive: true},
		"sup-outsourced": {ID: "sup-outsourced", Name: "Partner Desk", IsActive: true, IsOutsourcedChannel: true},
	}}
	return NewBookingService(repo, dir, validator.NewBookingValidator(log), nil, cfg)
}

func agent() model.Actor   { return model.Actor{ID: "a1", Name: "Agent One", Role: model.RoleAgent1} }
func account() model.Actor { return model.Actor{ID: "ac1", Name: "Accounts", Role: model.RoleAccount} }
func admin() model.Actor   { return model.Actor{ID: "ad1", Name: "Admin", Role: model.RoleAdmin} }

func draftBooking() *model.Booking {
	return &model.Booking{
		ID:            "booking-1",
		PaxName:       "JOHN DOE",
		ContactNumber: "+911234567890",
		PNR:           "AB123",
		SectorType:    model.SectorOneWay,
		TravelDate:    time.Now().Add(72 * time.Hour),
		From:          "Delhi",
		To:            "Mumbai",
		OurCost:       800,
		SalePrice:     1000,
		Status:        model.StatusDraft,
		Revision:      1,
	}
}

func stored(b *model.Booking) *mockRepo {
	return &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			if id != b.ID {
				return nil, bookingserrors.ErrNotFound
			}
			copy := *b
			return &copy, nil
		},
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != code {
		t.Fatalf("err code = %s (%v), want %s", appErr.Code, err, code)
	}
}

func TestCreate_AgentGetsDraft(t *testing.T) {
	svc := newTestService(&mockRepo{})

	b := draftBooking()
	b.ID = ""
	b.PNR = "  ab123 "
	b.Status = ""

	if err := svc.Create(context.Background(), agent(), b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Status != model.StatusDraft {
		t.Errorf("status = %q, want Draft", b.Status)
	}
	if b.PNR != "AB123" {
		t.Errorf("pnr = %q, want AB123", b.PNR)
	}
	if b.DateOfSubmission != nil {
		t.Error("draft should have no submission timestamp")
	}
	if len(b.ProgressHistory) != 1 {
		t.Fatalf("history length = %d, want 1 creation entry", len(b.ProgressHistory))
	}
	if b.SubmittedBy != "a1" {
		t.Errorf("submittedBy = %q", b.SubmittedBy)
	}
}

func TestCreate_ElevatedRoleSkipsDraft(t *testing.T) {
	svc := newTestService(&mockRepo{})

	b := draftBooking()
	b.ID = ""
	b.Status = ""

	if err := svc.Create(context.Background(), account(), b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Status != model.StatusPendingVerification {
		t.Errorf("status = %q, want Pending Verification", b.Status)
	}
	if b.DateOfSubmission == nil {
		t.Error("submission timestamp not set")
	}
}

func TestCreate_OutsourcedSupplierStartsUnticketed(t *testing.T) {
	svc := newTestService(&mockRepo{})

	b := draftBooking()
	b.ID = ""
	b.Status = ""
	b.Supplier = "sup-outsourced"

	if err := svc.Create(context.Background(), admin(), b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Status != model.StatusUnticketed {
		t.Errorf("status = %q, want Unticketed", b.Status)
	}
	if !b.OutsourcedChannel {
		t.Error("outsourcedChannel flag not snapshotted")
	}
	if b.SupplierName != "Partner Desk" {
		t.Errorf("supplierName = %q", b.SupplierName)
	}
}

func TestCreate_OutsourcedSupplierSubmitsImmediately(t *testing.T) {
	svc := newTestService(&mockRepo{})

	b := draftBooking()
	b.ID = ""
	b.Status = ""
	b.Supplier = "sup-outsourced"

	if err := svc.Create(context.Background(), agent(), b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Status != model.StatusUnticketed {
		t.Errorf("status = %q, want Unticketed", b.Status)
	}
	if b.DateOfSubmission == nil {
		t.Error("dateOfSubmission not set for an outsourced-channel booking")
	}
}

func TestCreate_DuplicatePNR(t *testing.T) {
	svc := newTestService(&mockRepo{
		createFn: func(ctx context.Context, b *model.Booking) error {
			return bookingserrors.ErrDuplicatePNR
		},
	})

	b := draftBooking()
	b.ID = ""

	wantCode(t, svc.Create(context.Background(), agent(), b), apperrors.CodeValidation)
}

func TestSubmit_DraftToPendingVerification(t *testing.T) {
	repo := stored(draftBooking())
	svc := newTestService(repo)

	got, err := svc.Submit(context.Background(), agent(), "booking-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got.Status != model.StatusPendingVerification {
		t.Errorf("status = %q, want Pending Verification", got.Status)
	}
	if got.DateOfSubmission == nil {
		t.Error("submission timestamp not set")
	}
	if got.Revision != 2 {
		t.Errorf("revision = %d, want 2", got.Revision)
	}
}

func TestSubmit_OutsourcedGoesUnticketed(t *testing.T) {
	b := draftBooking()
	b.Supplier = "sup-outsourced"
	b.OutsourcedChannel = true
	svc := newTestService(stored(b))

	got, err := svc.Submit(context.Background(), agent(), "booking-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Status != model.StatusUnticketed {
		t.Errorf("status = %q, want Unticketed", got.Status)
	}
}

func TestSubmit_AlreadySubmitted(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusPendingVerification
	svc := newTestService(stored(b))

	_, err := svc.Submit(context.Background(), agent(), "booking-1")
	wantCode(t, err, apperrors.CodeConflict)
}

func TestSubmit_KeepsExistingSubmissionTimestamp(t *testing.T) {
	first := time.Now().Add(-24 * time.Hour).UTC()
	b := draftBooking()
	b.DateOfSubmission = &first
	svc := newTestService(stored(b))

	got, err := svc.Submit(context.Background(), agent(), "booking-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !got.DateOfSubmission.Equal(first) {
		t.Error("submission timestamp was overwritten")
	}
}

func TestVerifyAccount_Advances(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusPendingVerification
	svc := newTestService(stored(b))

	got, err := svc.VerifyAccount(context.Background(), account(), "booking-1")
	if err != nil {
		t.Fatalf("VerifyAccount: %v", err)
	}

	if got.Status != model.StatusAccountVerified {
		t.Errorf("status = %q, want Account Verified", got.Status)
	}
	if !got.VerifiedByAccount || got.VerifiedByAccountUser != "ac1" || got.VerifiedByAccountDate == nil {
		t.Error("verification flag, user or date missing")
	}
}

func TestVerifyAccount_DoesNotDowngrade(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusAdminVerified
	svc := newTestService(stored(b))

	got, err := svc.VerifyAccount(context.Background(), account(), "booking-1")
	if err != nil {
		t.Fatalf("VerifyAccount: %v", err)
	}
	if got.Status != model.StatusAdminVerified {
		t.Errorf("status downgraded to %q", got.Status)
	}
}

func TestVerifyAccount_IdempotentStamp(t *testing.T) {
	earlier := time.Now().Add(-time.Hour).UTC()
	b := draftBooking()
	b.Status = model.StatusUnticketed
	b.VerifiedByAccount = true
	b.VerifiedByAccountDate = &earlier
	b.VerifiedByAccountUser = "someone-else"
	svc := newTestService(stored(b))

	got, err := svc.VerifyAccount(context.Background(), account(), "booking-1")
	if err != nil {
		t.Fatalf("VerifyAccount: %v", err)
	}
	if got.VerifiedByAccountUser != "someone-else" || !got.VerifiedByAccountDate.Equal(earlier) {
		t.Error("existing verification stamp was overwritten")
	}
	if got.Status != model.StatusAccountVerified {
		t.Errorf("status = %q, want Account Verified", got.Status)
	}
}

func TestVerifyAdmin_LeavesBilledAlone(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusBilled
	svc := newTestService(stored(b))

	got, err := svc.VerifyAdmin(context.Background(), admin(), "booking-1")
	if err != nil {
		t.Fatalf("VerifyAdmin: %v", err)
	}
	if got.Status != model.StatusBilled {
		t.Errorf("status = %q, want Billed untouched", got.Status)
	}
	if !got.VerifiedByAdmin {
		t.Error("admin verification flag not set")
	}
}

func TestUpdate_AgentLockedAfterVerification(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusAccountVerified
	b.VerifiedByAccount = true
	svc := newTestService(stored(b))

	note := "later"
	_, err := svc.Update(context.Background(), agent(), "booking-1", &model.BookingUpdate{Note: &note})
	wantCode(t, err, apperrors.CodeForbidden)

	// Account keeps edit rights on the same booking.
	if _, err := svc.Update(context.Background(), account(), "booking-1", &model.BookingUpdate{Note: &note}); err != nil {
		t.Fatalf("account update: %v", err)
	}
}

func TestUpdate_StatusOverrideIsAdminOnly(t *testing.T) {
	svc := newTestService(stored(draftBooking()))

	status := model.StatusBilled
	_, err := svc.Update(context.Background(), account(), "booking-1", &model.BookingUpdate{Status: &status})
	wantCode(t, err, apperrors.CodeForbidden)

	got, err := svc.Update(context.Background(), admin(), "booking-1", &model.BookingUpdate{Status: &status})
	if err != nil {
		t.Fatalf("admin override: %v", err)
	}
	if got.Status != model.StatusBilled {
		t.Errorf("status = %q, want Billed", got.Status)
	}
}

func TestUpdate_BillingStatusOverrideSurvivesRecompute(t *testing.T) {
	svc := newTestService(stored(draftBooking()))

	billing := model.BillingFullyPaid
	got, err := svc.Update(context.Background(), admin(), "booking-1", &model.BookingUpdate{BillingStatus: &billing})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.BillingStatus != model.BillingFullyPaid {
		t.Errorf("billingStatus = %q, want Fully Paid", got.BillingStatus)
	}
}

func TestUpdate_SupplierChangeDrivesTicketingAxis(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusPendingVerification
	svc := newTestService(stored(b))

	out := "sup-outsourced"
	got, err := svc.Update(context.Background(), agent(), "booking-1", &model.BookingUpdate{Supplier: &out})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != model.StatusUnticketed {
		t.Errorf("status = %q, want Unticketed", got.Status)
	}

	// Moving back to a direct supplier forces Ticked.
	b2 := draftBooking()
	b2.Status = model.StatusUnticketed
	b2.Supplier = "sup-outsourced"
	b2.OutsourcedChannel = true
	svc2 := newTestService(stored(b2))

	direct := "sup-direct"
	got2, err := svc2.Update(context.Background(), agent(), "booking-1", &model.BookingUpdate{Supplier: &direct})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got2.Status != model.StatusTicked {
		t.Errorf("status = %q, want Ticked", got2.Status)
	}
	if got2.OutsourcedChannel {
		t.Error("outsourcedChannel flag not cleared")
	}
}

func TestUpdate_UnknownSupplier(t *testing.T) {
	svc := newTestService(stored(draftBooking()))

	ghost := "sup-ghost"
	_, err := svc.Update(context.Background(), agent(), "booking-1", &model.BookingUpdate{Supplier: &ghost})
	wantCode(t, err, apperrors.CodeValidation)
}

func TestUpdate_RecomputesTotals(t *testing.T) {
	svc := newTestService(stored(draftBooking()))

	price := 2000.0
	services := []model.AdditionalService{{ServiceName: "Meal", ServiceCost: 100}}
	got, err := svc.Update(context.Background(), agent(), "booking-1", &model.BookingUpdate{
		SalePrice:          &price,
		AdditionalServices: &services,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.TotalSalePrice != 2100 {
		t.Errorf("totalSalePrice = %v, want 2100", got.TotalSalePrice)
	}
	if got.BalanceAmount != 2100 || got.BillingStatus != model.BillingUnpaid {
		t.Errorf("balance/billing = %v/%q", got.BalanceAmount, got.BillingStatus)
	}
}

func TestPersist_StaleRevisionIsConflict(t *testing.T) {
	b := draftBooking()
	repo := stored(b)
	repo.replaceFn = func(ctx context.Context, bk *model.Booking, rev int64) error {
		return bookingserrors.ErrStaleRevision
	}
	svc := newTestService(repo)

	note := "x"
	_, err := svc.Update(context.Background(), agent(), "booking-1", &model.BookingUpdate{Note: &note})
	wantCode(t, err, apperrors.CodeConflict)
}

func TestAssign_Matrix(t *testing.T) {
	b := draftBooking()

	req := &model.AssignRequest{AssigneeID: "a2", AssigneeName: "Agent Two", AssigneeRole: model.RoleAgent2}

	svc := newTestService(stored(b))
	_, err := svc.Assign(context.Background(), model.Actor{ID: "x", Role: model.RoleAgent2}, "booking-1", req)
	wantCode(t, err, apperrors.CodeForbidden)

	got, err := svc.Assign(context.Background(), account(), "booking-1", req)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got.AssignedTo != "a2" || got.AssignedToName != "Agent Two" {
		t.Errorf("assignment = %q/%q", got.AssignedTo, got.AssignedToName)
	}
}

func TestGetByID_AccountCannotSeeDraft(t *testing.T) {
	svc := newTestService(stored(draftBooking()))

	_, err := svc.GetByID(context.Background(), account(), "booking-1")
	wantCode(t, err, apperrors.CodeForbidden)

	if _, err := svc.GetByID(context.Background(), agent(), "booking-1"); err != nil {
		t.Fatalf("agent view: %v", err)
	}
}

func TestGetByPNR_Normalizes(t *testing.T) {
	b := draftBooking()
	b.Status = model.StatusPendingVerification
	repo := stored(b)
	repo.findByPNRFn = func(ctx context.Context, pnr string) (*model.Booking, error) {
		if pnr != "AB123" {
			return nil, bookingserrors.ErrNotFound
		}
		copy := *b
		return &copy, nil
	}
	svc := newTestService(repo)

	got, err := svc.GetByPNR(context.Background(), account(), "  ab123 ")
	if err != nil {
		t.Fatalf("GetByPNR: %v", err)
	}
	if got.ID != "booking-1" {
		t.Errorf("id = %q", got.ID)
	}
}

func TestList_AccountHidesDrafts(t *testing.T) {
	var sawHide bool
	repo := &mockRepo{
		findFn: func(ctx context.Context, f model.ListFilter, hideDrafts bool, limit int, offset int64) ([]*model.Booking, error) {
			sawHide = hideDrafts
			return nil, nil
		},
	}
	svc := newTestService(repo)

	if _, _, err := svc.List(context.Background(), account(), model.ListFilter{}, 50, 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !sawHide {
		t.Error("draft filter not applied for account role")
	}
}

func TestDateChange_RequiresRemarks(t *testing.T) {
	svc := newTestService(stored(draftBooking()))

	_, err := svc.DateChange(context.Background(), agent(), "booking-1", &model.DateChangeRequest{})
	wantCode(t, err, apperrors.CodeValidation)
}

func TestDateChange_RecordsSnapshot(t *testing.T) {
	b := draftBooking()
	svc := newTestService(stored(b))

	newDate := b.TravelDate.Add(7 * 24 * time.Hour)
	cost := 900.0
	got, err := svc.DateChange(context.Background(), agent(), "booking-1", &model.DateChangeRequest{
		ChangeTravelDate: true,
		NewTravelDate:    &newDate,
		NewOurCost:       &cost,
		Remarks:          "client pushed the trip a week",
	})
	if err != nil {
		t.Fatalf("DateChange: %v", err)
	}

	if len(got.DateChanges) != 1 {
		t.Fatalf("dateChanges length = %d", len(got.DateChanges))
	}
	dc := got.DateChanges[0]
	if !dc.OldTravelDate.Equal(b.TravelDate) || !dc.NewTravelDate.Equal(newDate) {
		t.Error("travel date snapshot wrong")
	}
	if dc.OldOurCost != 800 || dc.NewOurCost != 900 {
		t.Errorf("cost snapshot = %v -> %v", dc.OldOurCost, dc.NewOurCost)
	}
	if !got.TravelDate.Equal(newDate) || got.OurCost != 900 {
		t.Error("booking fields not applied")
	}
	if got.ProgressHistory[0].Remarks != "client pushed the trip a week" {
		t.Error("remarks not on the trail")
	}
}

func TestSeatBook_SupplierSwitch(t *testing.T) {
	b := draftBooking()
	b.Supplier = "sup-outsourced"
	b.OutsourcedChannel = true
	b.Status = model.StatusUnticketed
	svc := newTestService(stored(b))

	direct := "sup-direct"
	got, err := svc.SeatBook(context.Background(), agent(), "booking-1", &model.SeatBookRequest{
		NewSupplier: &direct,
		PaymentMode: model.PaymentModeUPI,
		Remarks:     "seats confirmed with direct supplier",
	})
	if err != nil {
		t.Fatalf("SeatBook: %v", err)
	}

	if got.Status != model.StatusTicked {
		t.Errorf("status = %q, want Ticked", got.Status)
	}
	if len(got.SeatBookChanges) != 1 {
		t.Fatalf("seatBookChanges length = %d", len(got.SeatBookChanges))
	}
	sc := got.SeatBookChanges[0]
	if sc.OldSupplier != "sup-outsourced" || sc.NewSupplier != "sup-direct" {
		t.Errorf("supplier snapshot = %q -> %q", sc.OldSupplier, sc.NewSupplier)
	}
}

func TestFlightChange_AppliesDetails(t *testing.T) {
	b := draftBooking()
	originalDate := b.TravelDate
	newDate := originalDate.Add(48 * time.Hour)
	svc := newTestService(stored(b))

	got, err := svc.FlightChange(context.Background(), agent(), "booking-1", &model.FlightChangeRequest{
		NewDetails: model.FlightDetails{Airline: "IndiGo", From: "delhi", To: "goa", TravelDate: &newDate},
		Remarks:    "rerouted via new carrier",
	})
	if err != nil {
		t.Fatalf("FlightChange: %v", err)
	}

	if got.Airline != "IndiGo" || got.From != "Delhi" || got.To != "Goa" {
		t.Errorf("details = %q %q %q", got.Airline, got.From, got.To)
	}
	if !got.TravelDate.Equal(newDate) {
		t.Errorf("travelDate = %v, want %v", got.TravelDate, newDate)
	}
	if len(got.FlightChanges) != 1 {
		t.Fatalf("flightChanges length = %d", len(got.FlightChanges))
	}
	old := got.FlightChanges[0].OldDetails
	if old.From != "Delhi" {
		t.Errorf("old from = %q", old.From)
	}
	if old.TravelDate == nil || !old.TravelDate.Equal(originalDate) {
		t.Errorf("old travelDate = %v, want %v", old.TravelDate, originalDate)
	}
}
