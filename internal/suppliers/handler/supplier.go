package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelwindow/internal/suppliers/service"
	apperrors "travelwindow/pkg/errors"
	httputil "travelwindow/pkg/http"
	"travelwindow/pkg/logger"
	"travelwindow/pkg/middleware"
	"travelwindow/pkg/model"
)

type SupplierHandler struct {
	service service.SupplierService
	log     *logger.Logger
}

func NewSupplierHandler(service service.SupplierService, log *logger.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: service,
		log:     log,
	}
}

func (h *SupplierHandler) actor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing or invalid actor identity")); writeErr != nil {
			h.log.Error("failed to write error response", "operation", "WriteError", "error", writeErr)
		}
		return model.Actor{}, false
	}
	return actor, true
}

func (h *SupplierHandler) writeErr(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var supplier model.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), actor, &supplier); err != nil {
		h.writeErr(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, supplier); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	supplier, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, supplier); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SupplierHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "GetAll", err)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	suppliers, total, err := h.service.GetAll(r.Context(), actor, activeOnly, limit, offset)
	if err != nil {
		h.writeErr(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, suppliers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var updates model.SupplierUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	supplier, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &updates)
	if err != nil {
		h.writeErr(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, supplier); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SupplierHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeErr(w, "Deactivate", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SupplierHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/suppliers", h.Create)
	router.GET("/api/v1/suppliers", h.GetAll)
	router.GET("/api/v1/suppliers/id/:id", h.GetByID)
	router.PATCH("/api/v1/suppliers/id/:id", h.Update)
	router.DELETE("/api/v1/suppliers/id/:id", h.Deactivate)
}
