package service

import (
	"context"
	"errors"
	"math"
	"net/http"

	bookingserrors "homestay/internal/bookings/errors"
	listingserrors "homestay/internal/listings/errors"
	reviewserrors "homestay/internal/reviews/errors"
	"homestay/internal/reviews/repository"
	"homestay/internal/reviews/validator"
	"homestay/pkg/config"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/model"
	"homestay/pkg/sanitizer"
	"homestay/pkg/validation"

	"golang.org/x/sync/errgroup"
)

type BookingReader interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
}

// ListingStore is the part of the listings store reviews read and keep
// the rating aggregate on.
type ListingStore interface {
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	UpdateRating(ctx context.Context, id string, rating model.RatingAggregate) error
}

type UserReader interface {
	FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

type ReviewService interface {
	Create(ctx context.Context, reviewerID string, req *model.CreateReviewRequest) (*model.Review, error)
	Update(ctx context.Context, id, reviewerID string, req *model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, id, reviewerID string) error
	GetListingReviews(ctx context.Context, listingID string, page model.Page) ([]*model.Review, int64, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	bookings  BookingReader
	listings  ListingStore
	users     UserReader
	validator *validator.ReviewValidator
	cfg       *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	bookings BookingReader,
	listings ListingStore,
	users UserReader,
	validator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:      repo,
		bookings:  bookings,
		listings:  listings,
		users:     users,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reviewService) Create(ctx context.Context, reviewerID string, req *model.CreateReviewRequest) (*model.Review, error) {
	req.Comment = sanitizer.NormalizeText(req.Comment)
	req.RevieweeID = sanitizer.TrimAndNormalize(req.RevieweeID)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Review validation failed", "reviewer_id", reviewerID, "error", err)
		return nil, validation.AppError("Review validation failed", err)
	}

	review := &model.Review{
		ReviewerID:    reviewerID,
		RevieweeID:    req.RevieweeID,
		ListingID:     req.ListingID,
		BookingID:     req.BookingID,
		Overall:       req.Overall,
		Cleanliness:   req.Cleanliness,
		Accuracy:      req.Accuracy,
		Communication: req.Communication,
		Location:      req.Location,
		CheckIn:       req.CheckIn,
		Value:         req.Value,
		Comment:       req.Comment,
	}

	var err error
	switch {
	case req.BookingID != "":
		err = s.resolveBooking(ctx, review)
	case req.ListingID != "":
		err = s.resolveListing(ctx, review)
	case req.RevieweeID == reviewerID:
		err = apperrors.Validation("You cannot review yourself", nil)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("You have already reviewed this booking")
		}
		s.cfg.Log.Error("Failed to create review", "reviewer_id", reviewerID, "error", err)
		return nil, apperrors.Internal("Failed to create review", err)
	}

	s.refreshListingRating(ctx, review.ListingID)
	s.cfg.Log.Info("Review created successfully",
		"id", review.ID,
		"reviewer_id", reviewerID,
		"listing_id", review.ListingID,
		"booking_id", review.BookingID,
	)
	return review, nil
}

// resolveBooking allows one review per completed stay, written by its guest,
// and points the review at the stay's listing and host.
func (s *reviewService) resolveBooking(ctx context.Context, review *model.Review) error {
	booking, err := s.bookings.FindByID(ctx, review.BookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Booking", review.BookingID)
		}
		s.cfg.Log.Error("Failed to load booking for review", "booking_id", review.BookingID, "error", err)
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.GuestID != review.ReviewerID {
		return apperrors.Forbidden("Only the guest of this booking can review it")
	}
	if booking.Status != model.BookingCompleted {
		return apperrors.Validation("You can only review completed stays", map[string]any{
			"status": booking.Status,
		})
	}

	exists, err := s.repo.ExistsForBooking(ctx, booking.ID, review.ReviewerID)
	if err != nil {
		s.cfg.Log.Error("Failed to check existing review", "booking_id", booking.ID, "error", err)
		return apperrors.Internal("Failed to create review", err)
	}
	if exists {
		return apperrors.Conflict("You have already reviewed this booking")
	}

	review.ListingID = booking.ListingID
	review.RevieweeID = booking.HostID
	return nil
}

func (s *reviewService) resolveListing(ctx context.Context, review *model.Review) error {
	listing, err := s.listings.FindByID(ctx, review.ListingID)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) || errors.Is(err, listingserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Property", review.ListingID)
		}
		s.cfg.Log.Error("Failed to load listing for review", "listing_id", review.ListingID, "error", err)
		return apperrors.Internal("Failed to retrieve property", err)
	}
	if listing.HostID == review.ReviewerID {
		return apperrors.Validation("You cannot review your own property", nil)
	}
	review.RevieweeID = listing.HostID
	return nil
}

func (s *reviewService) Update(ctx context.Context, id, reviewerID string, req *model.UpdateReviewRequest) (*model.Review, error) {
	review, err := s.owned(ctx, id, reviewerID)
	if err != nil {
		return nil, err
	}

	if req.Comment != nil {
		*req.Comment = sanitizer.NormalizeText(*req.Comment)
	}
	if err := s.validator.ValidateUpdate(req); err != nil {
		s.cfg.Log.Warn("Review update validation failed", "id", id, "error", err)
		return nil, validation.AppError("Invalid update input", err)
	}
	applyReviewUpdates(review, req)

	if err := s.repo.Update(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, notFoundOrNotAuthorized()
		}
		s.cfg.Log.Error("Failed to update review", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update review", err)
	}

	if req.Overall != nil {
		s.refreshListingRating(ctx, review.ListingID)
	}
	s.cfg.Log.Info("Review updated successfully", "id", id)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id, reviewerID string) error {
	review, err := s.owned(ctx, id, reviewerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return notFoundOrNotAuthorized()
		}
		s.cfg.Log.Error("Failed to delete review", "id", id, "error", err)
		return apperrors.Internal("Failed to delete review", err)
	}

	s.refreshListingRating(ctx, review.ListingID)
	s.cfg.Log.Info("Review deleted successfully", "id", id)
	return nil
}

func (s *reviewService) GetListingReviews(ctx context.Context, listingID string, page model.Page) ([]*model.Review, int64, error) {
	if listingID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID cannot be empty")
	}

	var total int64
	var reviews []*model.Review

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if total, err = s.repo.CountByListing(gctx, listingID); err != nil {
			s.cfg.Log.Error("Failed to count reviews", "listing_id", listingID, "error", err)
			return apperrors.Internal("Failed to count reviews", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if reviews, err = s.repo.FindByListing(gctx, listingID, page); err != nil {
			s.cfg.Log.Error("Failed to list reviews", "listing_id", listingID, "error", err)
			return apperrors.Internal("Failed to retrieve reviews", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if reviews == nil {
		reviews = []*model.Review{}
	}
	s.attachReviewers(ctx, reviews)
	return reviews, total, nil
}

// owned hides reviews of other users behind the same error as missing ones.
func (s *reviewService) owned(ctx context.Context, id, reviewerID string) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) || errors.Is(err, reviewserrors.ErrInvalidID) {
			return nil, notFoundOrNotAuthorized()
		}
		s.cfg.Log.Error("Failed to retrieve review", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve review", err)
	}
	if review.ReviewerID != reviewerID {
		s.cfg.Log.Warn("Review access denied", "id", id, "actor_id", reviewerID)
		return nil, notFoundOrNotAuthorized()
	}
	return review, nil
}

// refreshListingRating recomputes the listing aggregate from its reviews.
// The aggregate is derived data, so a failure is logged and repaired by the
// next review write instead of failing the request.
func (s *reviewService) refreshListingRating(ctx context.Context, listingID string) {
	if listingID == "" {
		return
	}

	rating, err := s.repo.ListingRating(ctx, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate listing rating", "listing_id", listingID, "error", err)
		return
	}
	rating.Average = math.Round(rating.Average*100) / 100

	if err := s.listings.UpdateRating(ctx, listingID, rating); err != nil {
		s.cfg.Log.Error("Failed to store listing rating", "listing_id", listingID, "error", err)
		return
	}
	s.cfg.Log.Debug("Listing rating refreshed",
		"listing_id", listingID,
		"average", rating.Average,
		"count", rating.Count,
	)
}

func (s *reviewService) attachReviewers(ctx context.Context, reviews []*model.Review) {
	if len(reviews) == 0 {
		return
	}
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ReviewerID)
	}

	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		s.cfg.Log.Warn("Failed to load reviewer summaries", "error", err)
		return
	}
	for _, r := range reviews {
		r.Reviewer = summaries[r.ReviewerID]
	}
}

func notFoundOrNotAuthorized() *apperrors.AppError {
	return apperrors.New(apperrors.CodeNotFound, "Review not found or not authorized", http.StatusNotFound)
}

func applyReviewUpdates(review *model.Review, req *model.UpdateReviewRequest) {
	scores := []struct {
		src *int
		dst *int
	}{
		{req.Overall, &review.Overall},
		{req.Cleanliness, &review.Cleanliness},
		{req.Accuracy, &review.Accuracy},
		{req.Communication, &review.Communication},
		{req.Location, &review.Location},
		{req.CheckIn, &review.CheckIn},
		{req.Value, &review.Value},
	}
	for _, sc := range scores {
		if sc.src != nil {
			*sc.dst = *sc.src
		}
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
}
