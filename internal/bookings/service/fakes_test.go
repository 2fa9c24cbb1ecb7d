package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingserrors "homestay/internal/bookings/errors"
	"homestay/internal/bookings/repository"
	listingserrors "homestay/internal/listings/errors"
	mongotx "homestay/pkg/db/mongo"
	"homestay/pkg/model"
)

// ────────────────────────────────────────────────
// In-memory booking store
// ────────────────────────────────────────────────

type fakeBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	codes    map[string]bool
	nextID   int

	// duplicateCodes makes the first n inserts fail with a code collision.
	duplicateCodes int
	// findDelay widens the window between the availability read and the insert.
	findDelay time.Duration
	// insertDelay stalls Create until it elapses or ctx is done.
	insertDelay time.Duration
	// beforeApply runs before a conditional transition is evaluated.
	beforeApply func()
}

func newFakeBookingRepository() *fakeBookingRepository {
	return &fakeBookingRepository{
		bookings: map[string]*model.Booking{},
		codes:    map[string]bool{},
	}
}

func (r *fakeBookingRepository) seed(b *model.Booking) *model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		r.nextID++
		b.ID = fmt.Sprintf("%024x", r.nextID)
	}
	copied := *b
	r.bookings[b.ID] = &copied
	return b
}

func (r *fakeBookingRepository) all() []*model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		copied := *b
		out = append(out, &copied)
	}
	return out
}

func (r *fakeBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if r.insertDelay > 0 {
		select {
		case <-time.After(r.insertDelay):
		case <-ctx.Done():
			return fmt.Errorf("insert booking: %w", ctx.Err())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.duplicateCodes > 0 {
		r.duplicateCodes--
		return bookingserrors.ErrDuplicateCode
	}
	if r.codes[booking.BookingCode] {
		return bookingserrors.ErrDuplicateCode
	}

	r.nextID++
	booking.ID = fmt.Sprintf("%024x", r.nextID)
	booking.CreatedAt = time.Now().UTC()
	booking.UpdatedAt = booking.CreatedAt
	r.codes[booking.BookingCode] = true

	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepository) FindConflicting(_ context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if r.findDelay > 0 {
		time.Sleep(r.findDelay)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Booking
	for _, b := range r.bookings {
		if b.ListingID != listingID || !b.Status.Occupies() {
			continue
		}
		startsInside := !b.CheckIn.After(checkIn) && b.CheckOut.After(checkIn)
		endsInside := b.CheckIn.Before(checkOut) && !b.CheckOut.Before(checkOut)
		contains := !b.CheckIn.Before(checkIn) && !b.CheckOut.After(checkOut)
		if startsInside || endsInside || contains {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBookingRepository) matching(party repository.Party, userID string, status *model.BookingStatus) []*model.Booking {
	var out []*model.Booking
	for _, b := range r.bookings {
		owner := b.GuestID
		if party == repository.PartyHost {
			owner = b.HostID
		}
		if owner != userID || (status != nil && b.Status != *status) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *fakeBookingRepository) FindByParty(_ context.Context, party repository.Party, userID string, status *model.BookingStatus, page model.Page) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.matching(party, userID, status)
	start := int(page.Skip())
	if start >= len(all) {
		return []*model.Booking{}, nil
	}
	end := min(start+page.Limit, len(all))
	return all[start:end], nil
}

func (r *fakeBookingRepository) CountByParty(_ context.Context, party repository.Party, userID string, status *model.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(party, userID, status))), nil
}

func (r *fakeBookingRepository) ApplyTransition(_ context.Context, id string, t model.BookingTransition) (*model.Booking, error) {
	if r.beforeApply != nil {
		r.beforeApply()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	if b.Status != t.From {
		return nil, bookingserrors.ErrStatusChanged
	}

	at := t.At
	b.Status = t.To
	b.UpdatedAt = at
	switch t.To {
	case model.BookingConfirmed:
		b.ConfirmedAt = &at
	case model.BookingInProgress:
		b.ActualCheckIn = &at
	case model.BookingCompleted:
		b.CompletedAt = &at
	case model.BookingCancelled:
		b.CancelledAt = &at
		b.CancelledBy = t.ActorID
		b.CancelReason = t.CancelReason
		b.RefundFraction = t.RefundFraction
	}
	if t.HostMessage != "" {
		b.HostMessage = t.HostMessage
	}

	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

// ────────────────────────────────────────────────
// In-memory advisory locks
// ────────────────────────────────────────────────

type fakeLockRepository struct {
	mu    sync.Mutex
	locks map[string]model.BookingLock
}

func newFakeLockRepository() *fakeLockRepository {
	return &fakeLockRepository{locks: map[string]model.BookingLock{}}
}

func (r *fakeLockRepository) Acquire(_ context.Context, lock *model.BookingLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.locks[lock.ListingID]; held {
		return bookingserrors.ErrLockHeld
	}
	lock.ID = model.ListingLockID(lock.ListingID)
	r.locks[lock.ListingID] = *lock
	return nil
}

func (r *fakeLockRepository) DeleteExpired(_ context.Context, listingID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, held := r.locks[listingID]
	if !held || lock.ExpiresAt.After(now) {
		return false, nil
	}
	delete(r.locks, listingID)
	return true, nil
}

func (r *fakeLockRepository) Release(_ context.Context, listingID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lock, held := r.locks[listingID]; held && lock.Owner == owner {
		delete(r.locks, listingID)
	}
	return nil
}

func (r *fakeLockRepository) held(listingID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.locks[listingID]
	return ok
}

// ────────────────────────────────────────────────
// Listing and user readers
// ────────────────────────────────────────────────

type mockListingReader struct {
	listings map[string]*model.Listing
	findErr  error
}

func (m *mockListingReader) FindByID(_ context.Context, id string) (*model.Listing, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	l, ok := m.listings[id]
	if !ok {
		return nil, listingserrors.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (m *mockListingReader) FindSummaries(_ context.Context, ids []string) (map[string]*model.ListingSummary, error) {
	out := map[string]*model.ListingSummary{}
	for _, id := range ids {
		if l, ok := m.listings[id]; ok {
			out[id] = l.Summary()
		}
	}
	return out, nil
}

type mockUserReader struct {
	FindSummariesFunc func(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

func (m *mockUserReader) FindSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	if m.FindSummariesFunc != nil {
		return m.FindSummariesFunc(ctx, ids)
	}
	out := map[string]*model.UserSummary{}
	for _, id := range ids {
		out[id] = &model.UserSummary{ID: id, FirstName: "User", LastName: id}
	}
	return out, nil
}

// ────────────────────────────────────────────────
// Event publisher
// ────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []model.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.BookingEvent(nil), p.events...)
}
