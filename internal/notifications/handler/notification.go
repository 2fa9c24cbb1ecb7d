package handler

import (
	"net/http"
	"strconv"

	"homestay/internal/notifications/service"
	"homestay/pkg/auth"
	apperrors "homestay/pkg/errors"
	httputil "homestay/pkg/http"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const markAllReadID = "mark-all-read"

type listResponse struct {
	Data        []*model.Notification `json:"data"`
	UnreadCount int64                 `json:"unreadCount"`
	Pagination  httputil.Pagination   `json:"pagination"`
}

type markAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := h.actor(w, r, "List")
	if !ok {
		return
	}

	page, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	filter, err := notificationFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	list, err := h.service.List(r.Context(), userID, filter, page)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	resp := listResponse{
		Data:        list.Notifications,
		UnreadCount: list.UnreadCount,
		Pagination: httputil.Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: list.Total,
			Pages: page.Pages(list.Total),
		},
	}
	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "List", "operation", "WriteJSON", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.actor(w, r, "MarkRead")
	if !ok {
		return
	}

	notification, err := h.service.MarkRead(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	if err := httputil.WriteSuccess(w, notification); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkRead", "operation", "WriteSuccess", "error", err)
	}
}

// Patch serves PATCH /api/notifications/:id. The only action on that path
// is mark-all-read, which shares the :id segment.
func (h *NotificationHandler) Patch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != markAllReadID {
		http.NotFound(w, r)
		return
	}

	userID, ok := h.actor(w, r, "MarkAllRead")
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.writeError(w, "MarkAllRead", err)
		return
	}

	if err := httputil.WriteSuccess(w, markAllReadResponse{Updated: updated}); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkAllRead", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/notifications", h.List)
	router.PATCH("/api/notifications/:id", h.Patch)
	router.PATCH("/api/notifications/:id/read", h.MarkRead)
	router.DELETE("/api/notifications/:id", h.Delete)
}

func notificationFilter(r *http.Request) (model.NotificationFilter, error) {
	var filter model.NotificationFilter
	query := r.URL.Query()

	if s := query.Get("type"); s != "" {
		kind := model.NotificationType(s)
		if !kind.IsValid() {
			return filter, apperrors.InvalidInput("invalid type parameter: " + s)
		}
		filter.Type = &kind
	}
	if s := query.Get("read"); s != "" {
		read, err := strconv.ParseBool(s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid read parameter: " + s)
		}
		filter.Read = &read
	}
	return filter, nil
}

func (h *NotificationHandler) actor(w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
