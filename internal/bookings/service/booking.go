package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "homestay/internal/bookings/errors"
	"homestay/internal/bookings/repository"
	"homestay/internal/bookings/validator"
	listingserrors "homestay/internal/listings/errors"
	"homestay/pkg/config"
	apperrors "homestay/pkg/errors"
	"homestay/pkg/metrics"
	"homestay/pkg/model"
	"homestay/pkg/sanitizer"
	"homestay/pkg/validation"

	"golang.org/x/sync/errgroup"
)

const maxCodeAttempts = 3

// ListingReader is the booking engine's view of the listings store.
type ListingReader interface {
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	FindSummaries(ctx context.Context, ids []string) (map[string]*model.ListingSummary, error)
}

type UserReader interface {
	FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

type BookingService interface {
	Create(ctx context.Context, guestID string, req *model.CreateBookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id, actorID string) (*model.Booking, error)
	GetUserBookings(ctx context.Context, actorID string, query model.BookingQuery) ([]*model.Booking, int64, error)
	GetHostBookings(ctx context.Context, actorID string, query model.BookingQuery) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id, actorID string, req *model.UpdateBookingStatusRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id, actorID string, req *model.CancelBookingRequest) (*model.CancelResult, error)
	// Drain waits for in-flight event deliveries.
	Drain()
}

type Option func(*bookingService)

// WithClock replaces the clock used for business rules (past check-in,
// refund notice, transition stamps).
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) { s.now = now }
}

func WithRefundPolicy(policy RefundPolicy) Option {
	return func(s *bookingService) { s.refundPolicy = policy }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *bookingService) { s.metrics = m }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *bookingService) { s.publisher = p }
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	listings  ListingReader
	users     UserReader
	validator *validator.BookingValidator
	cfg       *config.Config

	metrics      *metrics.Metrics
	publisher    EventPublisher
	refundPolicy RefundPolicy
	now          func() time.Time
	inflight     sync.WaitGroup
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	listings ListingReader,
	users UserReader,
	validator *validator.BookingValidator,
	cfg *config.Config,
	opts ...Option,
) BookingService {
	s := &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		listings:     listings,
		users:        users,
		validator:    validator,
		cfg:          cfg,
		refundPolicy: DefaultRefundPolicy,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) Create(ctx context.Context, guestID string, req *model.CreateBookingRequest) (*model.Booking, error) {
	s.sanitize(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "guest_id", guestID, "error", err)
		return nil, validation.AppError("Invalid booking request", err)
	}
	checkIn, _ := model.ParseBookingDate(req.CheckIn)
	checkOut, _ := model.ParseBookingDate(req.CheckOut)

	listing, err := s.bookableListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	if listing.HostID == guestID {
		return nil, apperrors.Validation("You cannot book your own property", nil)
	}
	if !checkIn.Before(checkOut) {
		return nil, apperrors.Validation("Check-out date must be after check-in date", nil)
	}
	if checkIn.Before(s.now()) {
		return nil, apperrors.Validation("Check-in date cannot be in the past", nil)
	}

	nights := Nights(checkIn, checkOut)
	if nights < listing.MinNights {
		return nil, apperrors.Validation(fmt.Sprintf("Minimum stay is %d nights", listing.MinNights), nil)
	}
	if listing.MaxNights > 0 && nights > listing.MaxNights {
		return nil, apperrors.Validation(fmt.Sprintf("Maximum stay is %d nights", listing.MaxNights), nil)
	}

	guests := req.Adults + req.Children
	if guests > listing.MaxGuests {
		return nil, apperrors.Validation(fmt.Sprintf("Property can accommodate maximum %d guests", listing.MaxGuests), nil)
	}

	price := CalculatePrice(listing.NightlyRate(), nights, listing.CleaningFee)
	booking := &model.Booking{
		ListingID:       listing.ID,
		GuestID:         guestID,
		HostID:          listing.HostID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		TotalNights:     nights,
		Adults:          req.Adults,
		Children:        req.Children,
		Infants:         req.Infants,
		Pets:            req.Pets,
		Guests:          guests,
		NightlyRate:     price.NightlyRate,
		Subtotal:        price.Subtotal,
		CleaningFee:     price.CleaningFee,
		ServiceFee:      price.ServiceFee,
		Taxes:           price.Taxes,
		TotalPrice:      price.Total,
		TotalAmount:     price.Total,
		SecurityDeposit: listing.SecurityDeposit,
		Status:          model.BookingPending,
		PaymentStatus:   model.PaymentPending,
		GuestMessage:    req.GuestMessage,
		SpecialRequests: req.SpecialRequests,
		ArrivalTime:     req.ArrivalTime,
		GuestPhone:      req.GuestPhone,
		GuestEmail:      req.GuestEmail,
	}

	lock, err := s.acquireListingLock(ctx, listing.ID)
	if err != nil {
		s.cfg.Log.Warn("Failed to lock listing for booking", "listing_id", listing.ID, "error", err)
		return nil, err
	}
	defer s.releaseListingLock(ctx, listing.ID, lock.Owner)

	lockedCtx, cancel := withinLock(ctx, lock, s.cfg.BookingLockTTL)
	defer cancel()

	if err := s.insert(lockedCtx, booking); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(lockedCtx.Err(), context.DeadlineExceeded) {
			s.cfg.Log.Warn("Booking insert outlived the listing lock", "listing_id", listing.ID, "error", err)
			return nil, apperrors.Timeout("Booking request took too long, please retry")
		}
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			s.metrics.BookingConflict()
			s.cfg.Log.Warn("Booking dates unavailable",
				"listing_id", listing.ID,
				"check_in", checkIn,
				"check_out", checkOut,
			)
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking", "listing_id", listing.ID, "error", err)
		if errors.Is(err, bookingserrors.ErrDuplicateCode) {
			return nil, apperrors.Internal("Failed to generate a unique booking code", err)
		}
		return nil, apperrors.AsAppError(err)
	}
	s.metrics.BookingCreated()

	booking.Listing = listing.Summary()
	s.attachUsers(ctx, []*model.Booking{booking})

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"booking_code", booking.BookingCode,
		"listing_id", booking.ListingID,
		"guest_id", guestID,
		"nights", nights,
		"total_price", booking.TotalPrice,
	)
	s.publish(ctx, booking, guestID)
	return booking, nil
}

// insert re-checks availability and inserts inside one transaction while the
// listing lock is held. A booking code collision aborts the transaction, so
// the whole unit is retried with a fresh code.
func (s *bookingService) insert(ctx context.Context, booking *model.Booking) error {
	var err error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		booking.BookingCode = NewBookingCode(s.now())
		err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.checkAvailability(txCtx, booking); err != nil {
				return err
			}
			return s.repo.Create(txCtx, booking)
		})
		if !errors.Is(err, bookingserrors.ErrDuplicateCode) {
			return err
		}
		s.cfg.Log.Warn("Booking code collision, retrying", "booking_code", booking.BookingCode, "attempt", attempt)
	}
	return err
}

func (s *bookingService) checkAvailability(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindConflicting(ctx, booking.ListingID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Status.Occupies() && model.Overlaps(b.CheckIn, b.CheckOut, booking.CheckIn, booking.CheckOut) {
			return apperrors.Conflict("Property is not available for selected dates").WithDetails(map[string]any{
				"checkIn":  b.CheckIn,
				"checkOut": b.CheckOut,
			})
		}
	}
	return nil
}

func (s *bookingService) bookableListing(ctx context.Context, listingID string) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) || errors.Is(err, listingserrors.ErrInvalidID) {
			s.cfg.Log.Warn("Booking requested for unknown listing", "listing_id", listingID)
			return nil, apperrors.Validation("Property is not available for booking", nil)
		}
		s.cfg.Log.Error("Failed to load listing", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to load property", err)
	}
	if !listing.Bookable() {
		return nil, apperrors.Validation("Property is not available for booking", nil)
	}
	return listing, nil
}

func (s *bookingService) GetByID(ctx context.Context, id, actorID string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := RoleOf(booking, actorID); err != nil {
		s.cfg.Log.Warn("Booking access denied", "id", id, "actor_id", actorID)
		return nil, err
	}

	s.attachSummaries(ctx, []*model.Booking{booking})
	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, actorID string, query model.BookingQuery) ([]*model.Booking, int64, error) {
	return s.listByParty(ctx, repository.PartyGuest, actorID, query)
}

func (s *bookingService) GetHostBookings(ctx context.Context, actorID string, query model.BookingQuery) ([]*model.Booking, int64, error) {
	return s.listByParty(ctx, repository.PartyHost, actorID, query)
}

func (s *bookingService) listByParty(ctx context.Context, party repository.Party, actorID string, query model.BookingQuery) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.CountByParty(gctx, party, actorID, query.Status)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "party", party, "user_id", actorID, "error", err)
			return apperrors.Internal("Failed to count bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.FindByParty(gctx, party, actorID, query.Status, query.Page)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"party", party,
				"user_id", actorID,
				"page", query.Page.Page,
				"limit", query.Page.Limit,
				"error", err,
			)
			return apperrors.Internal("Failed to retrieve bookings", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	s.attachSummaries(ctx, bookings)

	s.cfg.Log.Debug("Booking list completed",
		"party", party,
		"user_id", actorID,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id, actorID string, req *model.UpdateBookingStatusRequest) (*model.Booking, error) {
	req.HostMessage = sanitizer.NormalizeText(req.HostMessage)
	if err := s.validator.ValidateStatusUpdate(req); err != nil {
		s.cfg.Log.Warn("Booking status validation failed", "id", id, "error", err)
		return nil, validation.AppError("Invalid status update", err)
	}
	target, ok := model.ParseBookingStatus(req.Status)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("Unknown booking status %q", req.Status), nil)
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := RoleOf(booking, actorID)
	if err != nil {
		s.cfg.Log.Warn("Booking access denied", "id", id, "actor_id", actorID)
		return nil, err
	}
	if err := Transition(booking.Status, role, target); err != nil {
		s.cfg.Log.Warn("Booking transition rejected",
			"id", id,
			"from", booking.Status,
			"to", target,
			"role", role,
		)
		return nil, err
	}

	now := s.now()
	t := model.BookingTransition{
		From:        booking.Status,
		To:          target,
		At:          now,
		ActorID:     actorID,
		HostMessage: req.HostMessage,
	}
	if target == model.BookingCancelled {
		fraction := s.refundPolicy.Fraction(now, booking.CheckIn)
		t.RefundFraction = &fraction
	}

	return s.applyTransition(ctx, id, t)
}

func (s *bookingService) Cancel(ctx context.Context, id, actorID string, req *model.CancelBookingRequest) (*model.CancelResult, error) {
	req.CancelReason = sanitizer.NormalizeText(req.CancelReason)
	if err := s.validator.ValidateCancel(req); err != nil {
		s.cfg.Log.Warn("Booking cancel validation failed", "id", id, "error", err)
		return nil, validation.AppError("Invalid cancel request", err)
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := RoleOf(booking, actorID)
	if err != nil {
		s.cfg.Log.Warn("Booking access denied", "id", id, "actor_id", actorID)
		return nil, err
	}
	if !Cancellable(booking.Status) {
		return nil, apperrors.Validation("Cannot cancel booking in current status", map[string]any{
			"status": booking.Status,
		})
	}
	if err := Transition(booking.Status, role, model.BookingCancelled); err != nil {
		return nil, err
	}

	now := s.now()
	fraction := s.refundPolicy.Fraction(now, booking.CheckIn)
	updated, err := s.applyTransition(ctx, id, model.BookingTransition{
		From:           booking.Status,
		To:             model.BookingCancelled,
		At:             now,
		ActorID:        actorID,
		CancelReason:   req.CancelReason,
		RefundFraction: &fraction,
	})
	if err != nil {
		return nil, err
	}

	return &model.CancelResult{Booking: updated, RefundAmount: fraction}, nil
}

func (s *bookingService) applyTransition(ctx context.Context, id string, t model.BookingTransition) (*model.Booking, error) {
	updated, err := s.repo.ApplyTransition(ctx, id, t)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			s.cfg.Log.Warn("Booking status changed concurrently", "id", id, "from", t.From, "to", t.To)
			return nil, apperrors.Conflict("Booking was modified by another request, please retry")
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	s.metrics.BookingTransition(string(t.From), string(t.To))
	if t.RefundFraction != nil {
		s.metrics.BookingCancelled(*t.RefundFraction)
	}

	s.attachSummaries(ctx, []*model.Booking{updated})
	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", t.From,
		"to", t.To,
		"actor_id", t.ActorID,
	)
	s.publish(ctx, updated, t.ActorID)
	return updated, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// attachSummaries fills the listing, host and guest summaries. Lookup
// failures only cost the decoration and are logged.
func (s *bookingService) attachSummaries(ctx context.Context, bookings []*model.Booking) {
	if len(bookings) == 0 {
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		s.attachListings(ctx, bookings)
		return nil
	})
	g.Go(func() error {
		s.attachUsers(ctx, bookings)
		return nil
	})
	_ = g.Wait()
}

func (s *bookingService) attachListings(ctx context.Context, bookings []*model.Booking) {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ListingID)
	}

	summaries, err := s.listings.FindSummaries(ctx, ids)
	if err != nil {
		s.cfg.Log.Warn("Failed to load listing summaries", "error", err)
		return
	}
	for _, b := range bookings {
		b.Listing = summaries[b.ListingID]
	}
}

func (s *bookingService) attachUsers(ctx context.Context, bookings []*model.Booking) {
	ids := make([]string, 0, 2*len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.HostID, b.GuestID)
	}

	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		s.cfg.Log.Warn("Failed to load user summaries", "error", err)
		return
	}
	for _, b := range bookings {
		b.Host = summaries[b.HostID]
		b.Guest = summaries[b.GuestID]
	}
}

func (s *bookingService) sanitize(req *model.CreateBookingRequest) {
	req.ListingID = sanitizer.TrimAndNormalize(req.ListingID)
	req.CheckIn = sanitizer.TrimAndNormalize(req.CheckIn)
	req.CheckOut = sanitizer.TrimAndNormalize(req.CheckOut)
	req.GuestMessage = sanitizer.NormalizeText(req.GuestMessage)
	req.SpecialRequests = sanitizer.NormalizeText(req.SpecialRequests)
	req.ArrivalTime = sanitizer.TrimAndNormalize(req.ArrivalTime)
	req.GuestEmail = sanitizer.NormalizeEmail(req.GuestEmail)
	if phone := sanitizer.NormalizePhone(req.GuestPhone); phone != "" {
		req.GuestPhone = phone
	}
}

func (s *bookingService) Drain() {
	s.inflight.Wait()
}
