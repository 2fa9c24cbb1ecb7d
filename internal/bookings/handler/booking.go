package handler

import (
	"net/http"

	"homestay/internal/bookings/service"
	"homestay/pkg/auth"
	apperrors "homestay/pkg/errors"
	httputil "homestay/pkg/http"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/julienschmidt/httprouter"
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

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := h.actor(w, r, "Create")
	if !ok {
		return
	}

	var req model.CreateBookingRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "GetByID")
	if !ok {
		return
	}

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// MyBookings serves /api/bookings/user/my-bookings and
// /api/bookings/host/my-bookings, which share the :id segment with the
// single booking routes.
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "MyBookings")
	if !ok {
		return
	}

	list := h.service.GetUserBookings
	switch ps.ByName("id") {
	case "user":
	case "host":
		list = h.service.GetHostBookings
	default:
		h.writeError(w, "MyBookings", apperrors.NotFound("Route"))
		return
	}

	query, err := bookingQuery(r)
	if err != nil {
		h.writeError(w, "MyBookings", err)
		return
	}

	bookings, total, err := list(r.Context(), userID, query)
	if err != nil {
		h.writeError(w, "MyBookings", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, query.Page, total); err != nil {
		h.log.Error("failed to write paginated response", "handler", "MyBookings", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "UpdateStatus")
	if !ok {
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), userID, &req)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "Cancel")
	if !ok {
		return
	}

	var req model.CancelBookingRequest
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	result, err := h.service.Cancel(r.Context(), ps.ByName("id"), userID, &req)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings/:id", h.GetByID)
	router.GET("/api/bookings/:id/my-bookings", h.MyBookings)
	router.PATCH("/api/bookings/:id/status", h.UpdateStatus)
	router.DELETE("/api/bookings/:id/cancel", h.Cancel)
}

func (h *BookingHandler) actor(w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func bookingQuery(r *http.Request) (model.BookingQuery, error) {
	page, err := httputil.ExtractPage(r)
	if err != nil {
		return model.BookingQuery{}, err
	}

	query := model.BookingQuery{Page: page}
	if s := r.URL.Query().Get("status"); s != "" {
		status, ok := model.ParseBookingStatus(s)
		if !ok {
			return model.BookingQuery{}, apperrors.InvalidInput("invalid status parameter: " + s)
		}
		query.Status = &status
	}
	return query, nil
}
