package handler

import (
	"context"
	"net/http"
	"strconv"

	"homestay/internal/listings/service"
	"homestay/pkg/auth"
	apperrors "homestay/pkg/errors"
	httputil "homestay/pkg/http"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ListingHandler struct {
	service service.ListingService
	log     *logger.Logger
}

func NewListingHandler(service service.ListingService, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log,
	}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := h.actor(w, r, "Create")
	if !ok {
		return
	}

	var req model.CreateListingRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	listing, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, listing); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := listingFilter(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	page, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	listings, total, err := h.service.Search(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, listings, page, total); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listing, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "Update")
	if !ok {
		return
	}

	var req model.UpdateListingRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	listing, err := h.service.Update(r.Context(), ps.ByName("id"), userID, &req)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Publish(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.changeStatus(w, r, ps, "Publish", h.service.Publish)
}

func (h *ListingHandler) Unpublish(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.changeStatus(w, r, ps, "Unpublish", h.service.Unpublish)
}

func (h *ListingHandler) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	handler string,
	change func(ctx context.Context, id, hostID string) (*model.Listing, error),
) {
	userID, ok := h.actor(w, r, handler)
	if !ok {
		return
	}

	listing, err := change(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, handler, err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

// MyProperties serves /api/properties/host/my-properties, registered under
// the :id segment shared with the single listing routes.
func (h *ListingHandler) MyProperties(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "host" {
		h.writeError(w, "MyProperties", apperrors.NotFound("Route"))
		return
	}
	userID, ok := h.actor(w, r, "MyProperties")
	if !ok {
		return
	}

	page, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "MyProperties", err)
		return
	}

	listings, total, err := h.service.GetHostListings(r.Context(), userID, page)
	if err != nil {
		h.writeError(w, "MyProperties", err)
		return
	}

	if err := httputil.WritePaginated(w, listings, page, total); err != nil {
		h.log.Error("failed to write paginated response", "handler", "MyProperties", "operation", "WritePaginated", "error", err)
	}
}

func (h *ListingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/properties", h.Create)
	router.GET("/api/properties", h.Search)
	router.GET("/api/properties/:id", h.GetByID)
	router.PATCH("/api/properties/:id", h.Update)
	router.PATCH("/api/properties/:id/publish", h.Publish)
	router.PATCH("/api/properties/:id/unpublish", h.Unpublish)
	router.GET("/api/properties/:id/my-properties", h.MyProperties)
}

func (h *ListingHandler) actor(w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}

func (h *ListingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func listingFilter(r *http.Request) (model.ListingFilter, error) {
	query := r.URL.Query()
	filter := model.ListingFilter{
		City:         query.Get("city"),
		PropertyType: query.Get("propertyType"),
	}

	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		s := query.Get(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return model.ListingFilter{}, apperrors.InvalidInput("invalid " + p.name + " parameter: " + s)
		}
		*p.dst = &v
	}

	if s := query.Get("guests"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return model.ListingFilter{}, apperrors.InvalidInput("invalid guests parameter: " + s)
		}
		filter.Guests = v
	}
	return filter, nil
}
