package handler

import (
	"net/http"

	"homestay/internal/reviews/service"
	"homestay/pkg/auth"
	apperrors "homestay/pkg/errors"
	httputil "homestay/pkg/http"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReviewHandler struct {
	service service.ReviewService
	log     *logger.Logger
}

func NewReviewHandler(service service.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log,
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := h.actor(w, r, "Create")
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	review, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "Update")
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	review, err := h.service.Update(r.Context(), ps.ByName("id"), userID, &req)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, review); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "Delete")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), userID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReviewHandler) ListingReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "ListingReviews", err)
		return
	}

	reviews, total, err := h.service.GetListingReviews(r.Context(), ps.ByName("id"), page)
	if err != nil {
		h.writeError(w, "ListingReviews", err)
		return
	}

	if err := httputil.WritePaginated(w, reviews, page, total); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListingReviews", "operation", "WritePaginated", "error", err)
	}
}

// RegisterRoutes wires the review routes. httprouter keeps one tree per
// method, so the GET listing route does not clash with /:id.
func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/reviews", h.Create)
	router.GET("/api/reviews/listing/:id", h.ListingReviews)
	router.PATCH("/api/reviews/:id", h.Update)
	router.DELETE("/api/reviews/:id", h.Delete)
}

func (h *ReviewHandler) actor(w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
