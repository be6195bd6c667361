package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"travelwindow/internal/bookings/service"
	apperrors "travelwindow/pkg/errors"
	httputil "travelwindow/pkg/http"
	"travelwindow/pkg/logger"
	"travelwindow/pkg/middleware"
	"travelwindow/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) actor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing or invalid actor identity")); writeErr != nil {
			h.log.Error("failed to write error response", "operation", "WriteError", "error", writeErr)
		}
		return model.Actor{}, false
	}
	return actor, true
}

func (h *BookingHandler) writeErr(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), actor, &booking); err != nil {
		h.writeErr(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetByID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByPNR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetByPNR(r.Context(), actor, ps.ByName("pnr"))
	if err != nil {
		h.writeErr(w, "GetByPNR", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByPNR", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), actor, filter, limit, offset)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func parseListFilter(r *http.Request) (model.ListFilter, error) {
	query := r.URL.Query()

	filter := model.ListFilter{
		Status:        query.Get("status"),
		Supplier:      query.Get("supplier"),
		PNR:           query.Get("pnr"),
		ContactNumber: query.Get("contact_number"),
	}

	if fromStr := query.Get("date_from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return model.ListFilter{}, apperrors.InvalidInput("invalid date_from format, must be RFC3339")
		}
		filter.DateFrom = &parsed
	}
	if toStr := query.Get("date_to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return model.ListFilter{}, apperrors.InvalidInput("invalid date_to format, must be RFC3339")
		}
		filter.DateTo = &parsed
	}

	return filter, nil
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeBadBody(w, "Update")
		return
	}

	booking, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &updates)
	if err != nil {
		h.writeErr(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

// lifecycle wraps the no-body transition endpoints, which differ only in
// the service call.
func (h *BookingHandler) lifecycle(
	handlerName string,
	call func(r *http.Request, actor model.Actor, id string) (*model.Booking, error),
) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, ok := h.actor(w, r)
		if !ok {
			return
		}

		booking, err := call(r, actor, ps.ByName("id"))
		if err != nil {
			h.writeErr(w, handlerName, err)
			return
		}

		if err := httputil.WriteSuccess(w, booking); err != nil {
			h.log.Error("failed to write success response", "handler", handlerName, "operation", "WriteSuccess", "error", err)
		}
	}
}

func (h *BookingHandler) DateChange(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.DateChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "DateChange")
		return
	}

	booking, err := h.service.DateChange(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeErr(w, "DateChange", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "DateChange", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) FlightChange(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.FlightChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "FlightChange")
		return
	}

	booking, err := h.service.FlightChange(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeErr(w, "FlightChange", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "FlightChange", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) SeatBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.SeatBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "SeatBook")
		return
	}

	booking, err := h.service.SeatBook(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeErr(w, "SeatBook", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SeatBook", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.CancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Cancel")
		return
	}

	booking, err := h.service.Cancel(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeErr(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Assign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Assign")
		return
	}

	booking, err := h.service.Assign(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeErr(w, "Assign", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Assign", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.GET("/api/v1/bookings/pnr/:pnr", h.GetByPNR)

	router.POST("/api/v1/bookings/id/:id/submit", h.lifecycle("Submit",
		func(r *http.Request, actor model.Actor, id string) (*model.Booking, error) {
			return h.service.Submit(r.Context(), actor, id)
		}))
	router.POST("/api/v1/bookings/id/:id/verify-account", h.lifecycle("VerifyAccount",
		func(r *http.Request, actor model.Actor, id string) (*model.Booking, error) {
			return h.service.VerifyAccount(r.Context(), actor, id)
		}))
	router.POST("/api/v1/bookings/id/:id/verify-admin", h.lifecycle("VerifyAdmin",
		func(r *http.Request, actor model.Actor, id string) (*model.Booking, error) {
			return h.service.VerifyAdmin(r.Context(), actor, id)
		}))
	router.POST("/api/v1/bookings/id/:id/refund", h.lifecycle("ProcessRefund",
		func(r *http.Request, actor model.Actor, id string) (*model.Booking, error) {
			return h.service.ProcessRefund(r.Context(), actor, id)
		}))
	router.POST("/api/v1/bookings/id/:id/revert-cancellation", h.lifecycle("RevertCancellation",
		func(r *http.Request, actor model.Actor, id string) (*model.Booking, error) {
			return h.service.RevertCancellation(r.Context(), actor, id)
		}))

	router.POST("/api/v1/bookings/id/:id/date-change", h.DateChange)
	router.POST("/api/v1/bookings/id/:id/flight-change", h.FlightChange)
	router.POST("/api/v1/bookings/id/:id/seat-book", h.SeatBook)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/id/:id/assign", h.Assign)
}
