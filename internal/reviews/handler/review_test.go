package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homestay/pkg/auth"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/logger"
	"homestay/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReviewService struct {
	CreateFunc            func(ctx context.Context, reviewerID string, req *model.CreateReviewRequest) (*model.Review, error)
	UpdateFunc            func(ctx context.Context, id, reviewerID string, req *model.UpdateReviewRequest) (*model.Review, error)
	DeleteFunc            func(ctx context.Context, id, reviewerID string) error
	GetListingReviewsFunc func(ctx context.Context, listingID string, page model.Page) ([]*model.Review, int64, error)
}

func (m *mockReviewService) Create(ctx context.Context, reviewerID string, req *model.CreateReviewRequest) (*model.Review, error) {
	return m.CreateFunc(ctx, reviewerID, req)
}

func (m *mockReviewService) Update(ctx context.Context, id, reviewerID string, req *model.UpdateReviewRequest) (*model.Review, error) {
	return m.UpdateFunc(ctx, id, reviewerID, req)
}

func (m *mockReviewService) Delete(ctx context.Context, id, reviewerID string) error {
	return m.DeleteFunc(ctx, id, reviewerID)
}

func (m *mockReviewService) GetListingReviews(ctx context.Context, listingID string, page model.Page) ([]*model.Review, int64, error) {
	return m.GetListingReviewsFunc(ctx, listingID, page)
}

func serve(svc *mockReviewService, method, target, userID, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewReviewHandler(svc, logger.Discard()).RegisterRoutes(router)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	var gotReviewer string
	svc := &mockReviewService{
		CreateFunc: func(_ context.Context, reviewerID string, req *model.CreateReviewRequest) (*model.Review, error) {
			gotReviewer = reviewerID
			return &model.Review{ID: "r1", Overall: req.Overall}, nil
		},
	}

	w := serve(svc, http.MethodPost, "/api/reviews", "guest-1", `{"bookingId":"507f1f77bcf86cd799439011","overall":5}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "guest-1", gotReviewer)

	w = serve(svc, http.MethodPost, "/api/reviews", "", `{"overall":5}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	notAuthorized := apperrors.New(apperrors.CodeNotFound, "Review not found or not authorized", http.StatusNotFound)
	svc := &mockReviewService{
		UpdateFunc: func(_ context.Context, id, reviewerID string, _ *model.UpdateReviewRequest) (*model.Review, error) {
			if reviewerID != "guest-1" {
				return nil, notAuthorized
			}
			return &model.Review{ID: id}, nil
		},
		DeleteFunc: func(_ context.Context, _, reviewerID string) error {
			if reviewerID != "guest-1" {
				return notAuthorized
			}
			return nil
		},
	}

	assert.Equal(t, http.StatusOK, serve(svc, http.MethodPatch, "/api/reviews/r1", "guest-1", `{"overall":3}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(svc, http.MethodPatch, "/api/reviews/r1", "guest-2", `{"overall":3}`).Code)
	assert.Equal(t, http.StatusNoContent, serve(svc, http.MethodDelete, "/api/reviews/r1", "guest-1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(svc, http.MethodDelete, "/api/reviews/r1", "guest-2", "").Code)
}

func TestListingReviews(t *testing.T) {
	var gotListing string
	var gotPage model.Page
	svc := &mockReviewService{
		GetListingReviewsFunc: func(_ context.Context, listingID string, page model.Page) ([]*model.Review, int64, error) {
			gotListing, gotPage = listingID, page
			return []*model.Review{}, 0, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/reviews/listing/l1?page=2&limit=5", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "l1", gotListing)
	assert.Equal(t, model.Page{Page: 2, Limit: 5}, gotPage)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":2,"limit":5,"total":0,"pages":0}}`, w.Body.String())
}
