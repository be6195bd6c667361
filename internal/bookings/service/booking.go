package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"travelwindow/internal/bookings/audit"
	bookingserrors "travelwindow/internal/bookings/errors"
	"travelwindow/internal/bookings/events"
	"travelwindow/internal/bookings/finance"
	"travelwindow/internal/bookings/policy"
	"travelwindow/internal/bookings/repository"
	"travelwindow/internal/bookings/validator"
	"travelwindow/pkg/config"
	apperrors "travelwindow/pkg/errors"
	"travelwindow/pkg/model"
	"travelwindow/pkg/sanitizer"
)

// SupplierDirectory resolves supplier ids when a booking references one.
// Implemented by the suppliers service.
type SupplierDirectory interface {
	Lookup(ctx context.Context, id string) (*model.Supplier, error)
}

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, booking *model.Booking) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	GetByPNR(ctx context.Context, actor model.Actor, pnr string) (*model.Booking, error)
	List(ctx context.Context, actor model.Actor, filter model.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Submit(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	VerifyAccount(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	VerifyAdmin(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	DateChange(ctx context.Context, actor model.Actor, id string, req *model.DateChangeRequest) (*model.Booking, error)
	FlightChange(ctx context.Context, actor model.Actor, id string, req *model.FlightChangeRequest) (*model.Booking, error)
	SeatBook(ctx context.Context, actor model.Actor, id string, req *model.SeatBookRequest) (*model.Booking, error)
	Cancel(ctx context.Context, actor model.Actor, id string, req *model.CancellationRequest) (*model.Booking, error)
	ProcessRefund(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	RevertCancellation(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	Assign(ctx context.Context, actor model.Actor, id string, req *model.AssignRequest) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	suppliers SupplierDirectory
	validator *validator.BookingValidator
	publisher *events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	suppliers SupplierDirectory,
	validator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		suppliers: suppliers,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	if err := policy.Authorize(actor, policy.OpCreate, nil); err != nil {
		return err
	}

	s.sanitize(booking)

	booking.SubmittedBy = actor.ID
	booking.SubmittedByName = actor.Name
	booking.Status = model.StatusDraft
	booking.ProgressHistory = nil
	booking.Cancellation = model.Cancellation{}
	booking.VerifiedByAccount = false
	booking.VerifiedByAdmin = false

	if booking.Supplier != "" {
		if err := s.applySupplier(ctx, booking, booking.Supplier); err != nil {
			return err
		}
	}

	// Outsourced-channel bookings are submitted immediately no matter
	// who creates them. Elevated roles skip the draft stage entirely.
	if booking.Status == model.StatusUnticketed || actor.Role.IsElevated() {
		now := time.Now().UTC()
		booking.DateOfSubmission = &now
		if booking.Status != model.StatusUnticketed {
			booking.Status = model.StatusPendingVerification
		}
	}

	if err := s.validate(booking); err != nil {
		return err
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionCreated, actor, map[string]any{"status": booking.Status}, "")

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicatePNR) {
			return apperrors.Validation("A booking with this PNR already exists", map[string]any{"pnr": booking.PNR})
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"pnr", booking.PNR,
		"status", booking.Status,
		"actor", actor.ID,
	)
	s.publisher.Publish(ctx, events.TypeCreated, booking, actor)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpView, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetByPNR(ctx context.Context, actor model.Actor, pnr string) (*model.Booking, error) {
	pnr = sanitizer.NormalizePNR(pnr)
	if pnr == "" {
		return nil, apperrors.InvalidInput("PNR cannot be empty")
	}

	booking, err := s.repo.FindByPNR(ctx, pnr)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", pnr)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if err := policy.Authorize(actor, policy.OpView, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, actor model.Actor, filter model.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if err := policy.Authorize(actor, policy.OpView, nil); err != nil {
		return nil, 0, err
	}

	if filter.PNR != "" {
		filter.PNR = sanitizer.NormalizePNR(filter.PNR)
	}
	hideDrafts := policy.HidesDrafts(actor.Role)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter, hideDrafts)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Find(ctx, filter, hideDrafts, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to list bookings", errFind)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, actor model.Actor, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpUpdate, booking); err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be edited")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, translateValidation(err)
	}

	var statusFields []string
	if updates.Status != nil {
		statusFields = append(statusFields, "status")
	}
	if updates.BillingStatus != nil {
		statusFields = append(statusFields, "billingStatus")
	}
	if err := policy.AuthorizeFieldUpdates(actor, statusFields); err != nil {
		return nil, err
	}

	revision := booking.Revision
	changes, err := s.applyUpdate(ctx, booking, updates)
	if err != nil {
		return nil, err
	}

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	finance.Recompute(booking)
	// An explicit billing-status override wins over the recomputed one.
	if updates.BillingStatus != nil {
		booking.BillingStatus = *updates.BillingStatus
		changes["billingStatus"] = booking.BillingStatus
	}
	audit.Record(booking, audit.ActionUpdated, actor, changes, "")

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeUpdated, booking, actor)
	return booking, nil
}

func (s *bookingService) Submit(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpSubmit, booking); err != nil {
		return nil, err
	}
	if booking.Status != model.StatusDraft {
		return nil, apperrors.Conflict("Booking has already been submitted")
	}

	revision := booking.Revision

	if booking.OutsourcedChannel {
		booking.Status = model.StatusUnticketed
	} else {
		booking.Status = model.StatusPendingVerification
	}
	if booking.DateOfSubmission == nil {
		now := time.Now().UTC()
		booking.DateOfSubmission = &now
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionSubmitted, actor, map[string]any{"status": booking.Status}, "")

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeSubmitted, booking, actor)
	return booking, nil
}

func (s *bookingService) VerifyAccount(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpVerifyAccount, booking); err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be verified")
	}

	revision := booking.Revision

	if !booking.VerifiedByAccount {
		now := time.Now().UTC()
		booking.VerifiedByAccount = true
		booking.VerifiedByAccountDate = &now
		booking.VerifiedByAccountUser = actor.ID
	}
	if booking.Status == model.StatusPendingVerification || booking.Status == model.StatusUnticketed {
		booking.Status = model.StatusAccountVerified
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionVerifiedByAccount, actor, map[string]any{"status": booking.Status}, "")

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeVerified, booking, actor)
	return booking, nil
}

func (s *bookingService) VerifyAdmin(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpVerifyAdmin, booking); err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be verified")
	}

	revision := booking.Revision

	now := time.Now().UTC()
	booking.VerifiedByAdmin = true
	booking.VerifiedByAdminDate = &now
	booking.VerifiedByAdminUser = actor.ID

	// Billed and Paid are already past admin verification.
	if booking.Status != model.StatusBilled && booking.Status != model.StatusPaid {
		booking.Status = model.StatusAdminVerified
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionVerifiedByAdmin, actor, map[string]any{"status": booking.Status}, "")

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeVerified, booking, actor)
	return booking, nil
}

func (s *bookingService) DateChange(ctx context.Context, actor model.Actor, id string, req *model.DateChangeRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, translateValidation(err)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpAmend, booking); err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be amended")
	}

	revision := booking.Revision

	change := model.DateChange{
		OldTravelDate: booking.TravelDate,
		NewTravelDate: booking.TravelDate,
		OldReturnDate: booking.ReturnDate,
		NewReturnDate: booking.ReturnDate,
		OldOurCost:    booking.OurCost,
		NewOurCost:    booking.OurCost,
		OldSalePrice:  booking.SalePrice,
		NewSalePrice:  booking.SalePrice,
		Remarks:       req.Remarks,
		ChangedBy:     actor.ID,
		ChangedAt:     time.Now().UTC(),
	}

	if req.ChangeTravelDate {
		if req.NewTravelDate == nil {
			return nil, apperrors.Validation("newTravelDate is required when changing the travel date", nil)
		}
		booking.TravelDate = *req.NewTravelDate
		change.NewTravelDate = *req.NewTravelDate
	}
	if req.ChangeReturnDate {
		if req.NewReturnDate == nil {
			return nil, apperrors.Validation("newReturnDate is required when changing the return date", nil)
		}
		booking.ReturnDate = req.NewReturnDate
		change.NewReturnDate = req.NewReturnDate
	}
	if req.NewOurCost != nil {
		booking.OurCost = *req.NewOurCost
		change.NewOurCost = *req.NewOurCost
	}
	if req.NewSalePrice != nil {
		booking.SalePrice = *req.NewSalePrice
		change.NewSalePrice = *req.NewSalePrice
	}

	booking.DateChanges = append(booking.DateChanges, change)

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionDateChanged, actor, map[string]any{
		"travelDate": booking.TravelDate,
		"ourCost":    booking.OurCost,
		"salePrice":  booking.SalePrice,
	}, req.Remarks)

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeAmended, booking, actor)
	return booking, nil
}

func (s *bookingService) FlightChange(ctx context.Context, actor model.Actor, id string, req *model.FlightChangeRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, translateValidation(err)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpAmend, booking); err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be amended")
	}

	revision := booking.Revision

	// Snapshot by value so the record keeps the pre-change date after
	// the amendment mutates the aggregate.
	oldTravelDate := booking.TravelDate
	old := model.FlightDetails{
		Airline:    booking.Airline,
		From:       booking.From,
		To:         booking.To,
		TravelDate: &oldTravelDate,
		ReturnDate: booking.ReturnDate,
	}

	if req.NewDetails.Airline != "" {
		booking.Airline = req.NewDetails.Airline
	}
	if req.NewDetails.From != "" {
		booking.From = sanitizer.CapitalizeRoute(req.NewDetails.From)
	}
	if req.NewDetails.To != "" {
		booking.To = sanitizer.CapitalizeRoute(req.NewDetails.To)
	}
	if req.NewDetails.TravelDate != nil {
		booking.TravelDate = *req.NewDetails.TravelDate
	}
	if req.NewDetails.ReturnDate != nil {
		booking.ReturnDate = req.NewDetails.ReturnDate
	}

	booking.FlightChanges = append(booking.FlightChanges, model.FlightChange{
		OldDetails: old,
		NewDetails: req.NewDetails,
		Remarks:    req.Remarks,
		ChangedBy:  actor.ID,
		ChangedAt:  time.Now().UTC(),
	})

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionFlightChanged, actor, map[string]any{
		"airline": booking.Airline,
		"from":    booking.From,
		"to":      booking.To,
	}, req.Remarks)

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeAmended, booking, actor)
	return booking, nil
}

func (s *bookingService) SeatBook(ctx context.Context, actor model.Actor, id string, req *model.SeatBookRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, translateValidation(err)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpAmend, booking); err != nil {
		return nil, err
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be amended")
	}

	revision := booking.Revision

	change := model.SeatBookChange{
		OldOurCost:   booking.OurCost,
		NewOurCost:   booking.OurCost,
		OldSalePrice: booking.SalePrice,
		NewSalePrice: booking.SalePrice,
		OldSupplier:  booking.Supplier,
		NewSupplier:  booking.Supplier,
		PaymentMode:  req.PaymentMode,
		Remarks:      req.Remarks,
		ChangedBy:    actor.ID,
		ChangedAt:    time.Now().UTC(),
	}

	if req.NewOurCost != nil {
		booking.OurCost = *req.NewOurCost
		change.NewOurCost = *req.NewOurCost
	}
	if req.NewSalePrice != nil {
		booking.SalePrice = *req.NewSalePrice
		change.NewSalePrice = *req.NewSalePrice
	}
	if req.NewSupplier != nil && *req.NewSupplier != booking.Supplier {
		if err := s.applySupplier(ctx, booking, *req.NewSupplier); err != nil {
			return nil, err
		}
		change.NewSupplier = booking.Supplier
	}

	booking.SeatBookChanges = append(booking.SeatBookChanges, change)

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionSeatBooked, actor, map[string]any{
		"ourCost":   booking.OurCost,
		"salePrice": booking.SalePrice,
		"supplier":  booking.Supplier,
	}, req.Remarks)

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeAmended, booking, actor)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor model.Actor, id string, req *model.CancellationRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, translateValidation(err)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpCancel, booking); err != nil {
		return nil, err
	}
	if booking.Cancellation.IsCancelled {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	revision := booking.Revision

	settlement, err := finance.Settle(finance.SettlementInput{
		PaymentModeWas:              req.PaymentModeWas,
		SalePrice:                   booking.SalePrice,
		OurCost:                     booking.OurCost,
		TotalSalePrice:              booking.TotalSalePrice,
		TotalPaid:                   booking.TotalPaidAmount,
		SupplierCancellationCharges: req.SupplierCancellationCharges,
		OurCancellationCharges:      req.OurCancellationCharges,
		ChargeFromClient:            req.ChargeFromClient,
		CommittedToClient:           req.CommittedToClient,
	})
	if err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	now := time.Now().UTC()
	settlement.Remarks = req.Remarks
	settlement.CancelledBy = actor.ID
	settlement.CancelledAt = &now

	booking.Cancellation = settlement
	booking.Status = model.StatusCancelled

	audit.Record(booking, audit.ActionCancelled, actor, map[string]any{
		"paymentModeWas": req.PaymentModeWas,
		"newMargin":      settlement.NewMargin,
	}, req.Remarks)

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeCancelled, booking, actor)
	return booking, nil
}

// ProcessRefund re-reads and overwrites the cancellation stamp inside
// a single transaction. Re-running it on the same booking is allowed.
func (s *bookingService) ProcessRefund(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	var booking *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		b, err := s.load(sessCtx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, policy.OpProcessRefund, b); err != nil {
			return err
		}
		if !b.Cancellation.IsCancelled {
			return apperrors.Conflict("Booking is not cancelled, nothing to refund")
		}

		revision := b.Revision

		now := time.Now().UTC()
		b.Cancellation.RefundProcessed = true
		b.Cancellation.RefundProcessedBy = actor.ID
		b.Cancellation.RefundProcessedDate = &now

		audit.Record(b, audit.ActionRefundProcessed, actor, nil, "")

		if err := s.persist(sessCtx, b, revision); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeRefundProcessed, booking, actor)
	return booking, nil
}

func (s *bookingService) RevertCancellation(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OpRevertCancellation, booking); err != nil {
		return nil, err
	}
	if !booking.Cancellation.IsCancelled {
		return nil, apperrors.Conflict("Booking is not cancelled")
	}

	revision := booking.Revision

	booking.Cancellation = model.Cancellation{}
	booking.Status = s.statusAfterRevert(booking)

	finance.Recompute(booking)
	audit.Record(booking, audit.ActionCancellationRevert, actor, map[string]any{"status": booking.Status}, "")

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeCancellationRevert, booking, actor)
	return booking, nil
}

// statusAfterRevert rebuilds the lifecycle position from the flags the
// cancellation never touched.
func (s *bookingService) statusAfterRevert(b *model.Booking) string {
	switch {
	case b.VerifiedByAdmin:
		return model.StatusAdminVerified
	case b.VerifiedByAccount:
		return model.StatusAccountVerified
	case b.DateOfSubmission != nil:
		if b.OutsourcedChannel {
			return model.StatusUnticketed
		}
		return model.StatusPendingVerification
	default:
		return model.StatusDraft
	}
}

func (s *bookingService) Assign(ctx context.Context, actor model.Actor, id string, req *model.AssignRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, translateValidation(err)
	}
	if !req.AssigneeRole.Valid() {
		return nil, apperrors.InvalidInput("Unknown assignee role")
	}
	if err := policy.AuthorizeAssign(actor, req.AssigneeRole); err != nil {
		return nil, err
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	revision := booking.Revision

	booking.AssignedTo = req.AssigneeID
	booking.AssignedToName = req.AssigneeName

	audit.Record(booking, audit.ActionAssigned, actor, map[string]any{
		"assignedTo":     req.AssigneeID,
		"assignedToName": req.AssigneeName,
	}, "")

	if err := s.persist(ctx, booking, revision); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeAssigned, booking, actor)
	return booking, nil
}

// applyUpdate copies non-nil fields onto the booking and returns a diff
// for the audit trail. The supplier field routes through applySupplier
// so the ticketing axis stays consistent.
func (s *bookingService) applyUpdate(ctx context.Context, b *model.Booking, u *model.BookingUpdate) (map[string]any, error) {
	changes := map[string]any{}

	if u.PaxName != nil {
		b.PaxName = sanitizer.NormalizePaxName(*u.PaxName)
		changes["paxName"] = b.PaxName
	}
	if u.ContactPerson != nil {
		b.ContactPerson = sanitizer.TrimAndNormalize(*u.ContactPerson)
		changes["contactPerson"] = b.ContactPerson
	}
	if u.ContactNumber != nil {
		b.ContactNumber = sanitizer.TrimAndNormalize(*u.ContactNumber)
		changes["contactNumber"] = b.ContactNumber
	}
	if u.SectorType != nil {
		b.SectorType = *u.SectorType
		changes["sectorType"] = b.SectorType
	}
	if u.TravelDate != nil {
		b.TravelDate = *u.TravelDate
		changes["travelDate"] = b.TravelDate
	}
	if u.From != nil {
		b.From = sanitizer.CapitalizeRoute(*u.From)
		changes["from"] = b.From
	}
	if u.To != nil {
		b.To = sanitizer.CapitalizeRoute(*u.To)
		changes["to"] = b.To
	}
	if u.ReturnDate != nil {
		b.ReturnDate = u.ReturnDate
		changes["returnDate"] = *u.ReturnDate
	}
	if u.MultipleSectors != nil {
		b.MultipleSectors = *u.MultipleSectors
		changes["multipleSectors"] = len(b.MultipleSectors)
	}
	if u.Note != nil {
		b.Note = *u.Note
		changes["note"] = b.Note
	}
	if u.Airline != nil {
		b.Airline = *u.Airline
		changes["airline"] = b.Airline
	}
	if u.Supplier != nil && *u.Supplier != b.Supplier {
		if err := s.applySupplier(ctx, b, *u.Supplier); err != nil {
			return nil, err
		}
		changes["supplier"] = b.Supplier
		changes["status"] = b.Status
	}
	if u.OurCost != nil {
		b.OurCost = *u.OurCost
		changes["ourCost"] = b.OurCost
	}
	if u.SalePrice != nil {
		b.SalePrice = *u.SalePrice
		changes["salePrice"] = b.SalePrice
	}
	if u.AdditionalService != nil {
		b.AdditionalService = *u.AdditionalService
		changes["additionalService"] = b.AdditionalService
	}
	if u.AdditionalServicePrice != nil {
		b.AdditionalServicePrice = *u.AdditionalServicePrice
		changes["additionalServicePrice"] = b.AdditionalServicePrice
	}
	if u.AdditionalServices != nil {
		b.AdditionalServices = *u.AdditionalServices
		changes["additionalServices"] = len(b.AdditionalServices)
	}
	if u.PaymentType != nil {
		b.PaymentType = *u.PaymentType
		changes["paymentType"] = b.PaymentType
	}
	if u.Payments != nil {
		b.Payments = *u.Payments
		changes["payments"] = len(b.Payments)
	}
	if u.Status != nil {
		b.Status = *u.Status
		changes["status"] = b.Status
	}
	if u.BillingStatus != nil {
		b.BillingStatus = *u.BillingStatus
		changes["billingStatus"] = b.BillingStatus
	}

	return changes, nil
}

// applySupplier resolves the supplier and applies the ticketing rule:
// moving onto an outsourced channel forces Unticketed, moving off one
// forces Ticked. Cancelled bookings keep their status.
func (s *bookingService) applySupplier(ctx context.Context, b *model.Booking, supplierID string) error {
	supplier, err := s.suppliers.Lookup(ctx, supplierID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.CodeNotFound {
			return apperrors.Validation("Unknown supplier", map[string]any{"supplier": supplierID})
		}
		return apperrors.Internal("Failed to resolve supplier", err)
	}

	wasOutsourced := b.OutsourcedChannel

	b.Supplier = supplier.ID
	b.SupplierName = supplier.Name
	b.OutsourcedChannel = supplier.IsOutsourcedChannel

	if b.Status == model.StatusCancelled {
		return nil
	}
	if supplier.IsOutsourcedChannel {
		b.Status = model.StatusUnticketed
	} else if wasOutsourced {
		b.Status = model.StatusTicked
	}
	return nil
}

func (s *bookingService) load(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) persist(ctx context.Context, booking *model.Booking, expectedRevision int64) error {
	err := s.repo.Replace(ctx, booking, expectedRevision)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, bookingserrors.ErrStaleRevision):
		return apperrors.Conflict("Booking was modified by someone else, reload and retry")
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", booking.ID)
	case errors.Is(err, bookingserrors.ErrDuplicatePNR):
		return apperrors.Validation("A booking with this PNR already exists", map[string]any{"pnr": booking.PNR})
	default:
		s.cfg.Log.Error("Failed to persist booking", "id", booking.ID, "error", err)
		return apperrors.Internal("Failed to persist booking", err)
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.PaxName = sanitizer.NormalizePaxName(b.PaxName)
	b.ContactPerson = sanitizer.TrimAndNormalize(b.ContactPerson)
	b.ContactNumber = sanitizer.TrimAndNormalize(b.ContactNumber)
	b.PNR = sanitizer.NormalizePNR(b.PNR)
	b.From = sanitizer.CapitalizeRoute(b.From)
	b.To = sanitizer.CapitalizeRoute(b.To)
	b.Airline = sanitizer.TrimAndNormalize(b.Airline)
	b.Note = sanitizer.TrimAndNormalize(b.Note)
}

func (s *bookingService) validate(b *model.Booking) error {
	if err := s.validator.Validate(b); err != nil {
		return translateValidation(err)
	}
	return nil
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := map[string]any{}
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Booking validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}
