package service

import (
	"context"
	"errors"

	listingserrors "homestay/internal/listings/errors"
	"homestay/internal/listings/repository"
	"homestay/internal/listings/validator"
	"homestay/pkg/config"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/model"
	"homestay/pkg/sanitizer"
	"homestay/pkg/validation"

	"golang.org/x/sync/errgroup"
)

type ListingService interface {
	Create(ctx context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Update(ctx context.Context, id, hostID string, req *model.UpdateListingRequest) (*model.Listing, error)
	Publish(ctx context.Context, id, hostID string) (*model.Listing, error)
	Unpublish(ctx context.Context, id, hostID string) (*model.Listing, error)
	GetHostListings(ctx context.Context, hostID string, page model.Page) ([]*model.Listing, int64, error)
	Search(ctx context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, int64, error)
}

type listingService struct {
	repo      repository.ListingRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(
	repo repository.ListingRepository,
	validator *validator.ListingValidator,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *listingService) Create(ctx context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error) {
	s.sanitizeCreate(req)
	if req.MinNights == 0 {
		req.MinNights = 1
	}
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "host_id", hostID, "error", err)
		return nil, validation.AppError("Listing validation failed", err)
	}

	listing := &model.Listing{
		HostID:          hostID,
		Title:           req.Title,
		Description:     req.Description,
		PropertyType:    req.PropertyType,
		City:            req.City,
		Area:            req.Area,
		Photos:          req.Photos,
		MonthlyPrice:    req.MonthlyPrice,
		NightlyPrice:    req.NightlyPrice,
		CleaningFee:     req.CleaningFee,
		SecurityDeposit: req.SecurityDeposit,
		MinNights:       req.MinNights,
		MaxNights:       req.MaxNights,
		MaxGuests:       req.MaxGuests,
		IsActive:        false,
		Status:          model.ListingDraft,
	}
	if listing.Photos == nil {
		listing.Photos = []string{}
	}
	if err := s.validator.ValidateListing(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "host_id", hostID, "error", err)
		return nil, validation.AppError("Listing validation failed", err)
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Listing created successfully",
		"id", listing.ID,
		"host_id", hostID,
		"city", listing.City,
	)
	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		s.cfg.Log.Error("Failed to get listing by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, id, hostID string, req *model.UpdateListingRequest) (*model.Listing, error) {
	existing, err := s.owned(ctx, id, hostID)
	if err != nil {
		return nil, err
	}

	s.sanitizeUpdate(req)
	if err := s.validator.ValidateUpdate(req); err != nil {
		s.cfg.Log.Warn("Listing update validation failed", "id", id, "error", err)
		return nil, validation.AppError("Invalid update input", err)
	}

	merged := mergeListingUpdates(existing, req)
	if err := s.validator.ValidateListing(merged); err != nil {
		s.cfg.Log.Warn("Listing update validation failed", "id", id, "error", err)
		return nil, validation.AppError("Invalid update input", err)
	}

	if err := s.repo.Update(ctx, merged); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to update listing", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update property", err)
	}

	s.cfg.Log.Info("Listing updated successfully", "id", id)
	return merged, nil
}

func (s *listingService) Publish(ctx context.Context, id, hostID string) (*model.Listing, error) {
	return s.setStatus(ctx, id, hostID, model.ListingActive, true)
}

func (s *listingService) Unpublish(ctx context.Context, id, hostID string) (*model.Listing, error) {
	return s.setStatus(ctx, id, hostID, model.ListingInactive, false)
}

func (s *listingService) setStatus(ctx context.Context, id, hostID string, status model.ListingStatus, isActive bool) (*model.Listing, error) {
	listing, err := s.owned(ctx, id, hostID)
	if err != nil {
		return nil, err
	}

	if status == model.ListingActive {
		if err := s.validator.ValidateListing(listing); err != nil {
			return nil, validation.AppError("Property cannot be published", err)
		}
	}

	if err := s.repo.SetStatus(ctx, id, status, isActive); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to change listing status", "id", id, "status", status, "error", err)
		return nil, apperrors.Internal("Failed to update property status", err)
	}

	listing.Status = status
	listing.IsActive = isActive
	s.cfg.Log.Info("Listing status changed", "id", id, "status", status)
	return listing, nil
}

func (s *listingService) GetHostListings(ctx context.Context, hostID string, page model.Page) ([]*model.Listing, int64, error) {
	return s.paginate(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountByHost(ctx, hostID) },
		func(ctx context.Context) ([]*model.Listing, error) { return s.repo.FindByHost(ctx, hostID, page) },
	)
}

func (s *listingService) Search(ctx context.Context, filter model.ListingFilter, page model.Page) ([]*model.Listing, int64, error) {
	filter.City = sanitizer.NormalizeCity(filter.City)
	filter.PropertyType = sanitizer.NormalizeLabel(filter.PropertyType)
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, apperrors.InvalidInput("minPrice must not exceed maxPrice")
	}

	listings, total, err := s.paginate(ctx,
		func(ctx context.Context) (int64, error) { return s.repo.CountSearch(ctx, filter) },
		func(ctx context.Context) ([]*model.Listing, error) { return s.repo.Search(ctx, filter, page) },
	)
	if err != nil {
		return nil, 0, err
	}

	s.cfg.Log.Debug("Listing search completed",
		"city", filter.City,
		"property_type", filter.PropertyType,
		"count", len(listings),
		"total_count", total,
	)
	return listings, total, nil
}

func (s *listingService) paginate(
	ctx context.Context,
	count func(context.Context) (int64, error),
	find func(context.Context) ([]*model.Listing, error),
) ([]*model.Listing, int64, error) {
	var total int64
	var listings []*model.Listing

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if total, err = count(gctx); err != nil {
			s.cfg.Log.Error("Failed to count listings", "error", err)
			return apperrors.Internal("Failed to count properties", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if listings, err = find(gctx); err != nil {
			s.cfg.Log.Error("Failed to list listings", "error", err)
			return apperrors.Internal("Failed to retrieve properties", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if listings == nil {
		listings = []*model.Listing{}
	}
	return listings, total, nil
}

func (s *listingService) owned(ctx context.Context, id, hostID string) (*model.Listing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.HostID != hostID {
		s.cfg.Log.Warn("Listing access denied", "id", id, "actor_id", hostID)
		return nil, apperrors.Forbidden("You can only manage your own properties")
	}
	return listing, nil
}

func (s *listingService) sanitizeCreate(req *model.CreateListingRequest) {
	req.Title = sanitizer.TrimAndNormalize(req.Title)
	req.Description = sanitizer.NormalizeText(req.Description)
	req.PropertyType = sanitizer.NormalizeLabel(req.PropertyType)
	req.City = sanitizer.NormalizeCity(req.City)
	req.Area = sanitizer.TrimAndNormalize(req.Area)
	req.Photos = sanitizer.NormalizePhotos(req.Photos)
}

func (s *listingService) sanitizeUpdate(req *model.UpdateListingRequest) {
	if req.Title != nil {
		*req.Title = sanitizer.TrimAndNormalize(*req.Title)
	}
	if req.Description != nil {
		*req.Description = sanitizer.NormalizeText(*req.Description)
	}
	if req.PropertyType != nil {
		*req.PropertyType = sanitizer.NormalizeLabel(*req.PropertyType)
	}
	if req.City != nil {
		*req.City = sanitizer.NormalizeCity(*req.City)
	}
	if req.Area != nil {
		*req.Area = sanitizer.TrimAndNormalize(*req.Area)
	}
	if req.Photos != nil {
		photos := sanitizer.NormalizePhotos(*req.Photos)
		req.Photos = &photos
	}
}

func mergeListingUpdates(existing *model.Listing, req *model.UpdateListingRequest) *model.Listing {
	merged := *existing

	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.PropertyType != nil {
		merged.PropertyType = *req.PropertyType
	}
	if req.City != nil {
		merged.City = *req.City
	}
	if req.Area != nil {
		merged.Area = *req.Area
	}
	if req.Photos != nil {
		merged.Photos = *req.Photos
	}
	if req.MonthlyPrice != nil {
		merged.MonthlyPrice = *req.MonthlyPrice
	}
	if req.NightlyPrice != nil {
		merged.NightlyPrice = req.NightlyPrice
	}
	if req.CleaningFee != nil {
		merged.CleaningFee = *req.CleaningFee
	}
	if req.SecurityDeposit != nil {
		merged.SecurityDeposit = *req.SecurityDeposit
	}
	if req.MinNights != nil {
		merged.MinNights = *req.MinNights
	}
	if req.MaxNights != nil {
		merged.MaxNights = *req.MaxNights
	}
	if req.MaxGuests != nil {
		merged.MaxGuests = *req.MaxGuests
	}

	return &merged
}
