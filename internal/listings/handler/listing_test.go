package handler

import (
	"context"
	"encoding/json"
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

type mockListingService struct {
	CreateFunc          func(ctx context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error)
	GetByIDFunc         func(ctx context.Context, id string) (*model.Listing, error)
	UpdateFunc          func(ctx context.Context, id, hostID string, req *model.UpdateListingRequest) (*model.Listing, error)
	PublishFunc         func(ctx context.Context, id, hostID string) (*model.Listing, error)
	UnpublishFunc       func(ctx context.Context, id, hostID string) (*model.Listing, error)
	GetHostListingsFunc func(ctx context.Context, hostID string, page model.Page) ([]*model.Listing, int64, error)
	SearchFunc          func(ctx context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, int64, error)
}

func (m *mockListingService) Create(ctx context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error) {
	return m.CreateFunc(ctx, hostID, req)
}

func (m *mockListingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockListingService) Update(ctx context.Context, id, hostID string, req *model.UpdateListingRequest) (*model.Listing, error) {
	return m.UpdateFunc(ctx, id, hostID, req)
}

func (m *mockListingService) Publish(ctx context.Context, id, hostID string) (*model.Listing, error) {
	return m.PublishFunc(ctx, id, hostID)
}

func (m *mockListingService) Unpublish(ctx context.Context, id, hostID string) (*model.Listing, error) {
	return m.UnpublishFunc(ctx, id, hostID)
}

func (m *mockListingService) GetHostListings(ctx context.Context, hostID string, page model.Page) ([]*model.Listing, int64, error) {
	return m.GetHostListingsFunc(ctx, hostID, page)
}

func (m *mockListingService) Search(ctx context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, int64, error) {
	return m.SearchFunc(ctx, filter, page)
}

func newRouter(svc *mockListingService) *httprouter.Router {
	router := httprouter.New()
	NewListingHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	svc := &mockListingService{
		CreateFunc: func(_ context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error) {
			return &model.Listing{ID: "l1", HostID: hostID, Title: req.Title, Status: model.ListingDraft}, nil
		},
	}

	w := serve(newRouter(svc), http.MethodPost, "/api/properties", "host-1", `{"title":"Loft","city":"Haifa"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data model.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "host-1", resp.Data.HostID)
	assert.Equal(t, model.ListingDraft, resp.Data.Status)

	w = serve(newRouter(svc), http.MethodPost, "/api/properties", "", `{"title":"Loft"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearch_Filters(t *testing.T) {
	var gotFilter model.ListingFilter
	var gotPage model.Page
	svc := &mockListingService{
		SearchFunc: func(_ context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, int64, error) {
			gotFilter, gotPage = filter, page
			return []*model.Listing{}, 0, nil
		},
	}

	w := serve(newRouter(svc), http.MethodGet, "/api/properties?city=Haifa&propertyType=studio&minPrice=100&maxPrice=900.5&guests=2&page=2&limit=10", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Haifa", gotFilter.City)
	assert.Equal(t, "studio", gotFilter.PropertyType)
	require.NotNil(t, gotFilter.MinPrice)
	assert.Equal(t, 100.0, *gotFilter.MinPrice)
	require.NotNil(t, gotFilter.MaxPrice)
	assert.Equal(t, 900.5, *gotFilter.MaxPrice)
	assert.Equal(t, 2, gotFilter.Guests)
	assert.Equal(t, model.Page{Page: 2, Limit: 10}, gotPage)
}

func TestSearch_InvalidParameters(t *testing.T) {
	router := newRouter(&mockListingService{})

	for _, query := range []string{"?minPrice=cheap", "?maxPrice=-1", "?guests=0", "?limit=500"} {
		t.Run(query, func(t *testing.T) {
			w := serve(router, http.MethodGet, "/api/properties"+query, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &mockListingService{
		GetByIDFunc: func(_ context.Context, id string) (*model.Listing, error) {
			return nil, apperrors.NotFoundWithID("Property", id)
		},
	}

	w := serve(newRouter(svc), http.MethodGet, "/api/properties/abc", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishRoutes(t *testing.T) {
	var calls []string
	change := func(name string) func(context.Context, string, string) (*model.Listing, error) {
		return func(_ context.Context, id, hostID string) (*model.Listing, error) {
			calls = append(calls, name+":"+id+":"+hostID)
			if hostID != "host-1" {
				return nil, apperrors.Forbidden("You can only manage your own properties")
			}
			return &model.Listing{ID: id}, nil
		}
	}
	router := newRouter(&mockListingService{PublishFunc: change("publish"), UnpublishFunc: change("unpublish")})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPatch, "/api/properties/l1/publish", "host-1", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPatch, "/api/properties/l1/unpublish", "host-1", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPatch, "/api/properties/l1/publish", "host-2", "").Code)
	assert.Equal(t, []string{"publish:l1:host-1", "unpublish:l1:host-1", "publish:l1:host-2"}, calls)
}

func TestMyProperties(t *testing.T) {
	svc := &mockListingService{
		GetHostListingsFunc: func(_ context.Context, hostID string, _ model.Page) ([]*model.Listing, int64, error) {
			return []*model.Listing{{ID: "l1", HostID: hostID}}, 1, nil
		},
	}
	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/api/properties/host/my-properties", "host-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data       []model.Listing `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.Pages)

	w = serve(router, http.MethodGet, "/api/properties/guest/my-properties", "host-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
