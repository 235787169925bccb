// Package store is the month-bucketed client cache in front of the remote
// appointment service. Reads fetch whole months and serve per-day lists from
// memory until the bucket's TTL lapses; writes go straight to the service and
// patch the cache so it stays consistent with the last known remote state.
package store

import (
	"context"
	"sync"
	"time"

	"appointment-scheduler/internal/appointment"
	"appointment-scheduler/internal/timeutil"
)

// DefaultTTL is how long a fetched month bucket stays fresh.
const DefaultTTL = 5 * time.Minute

// Remote is the appointment service surface the store depends on. The HTTP
// client implements it; tests substitute in-memory fakes.
type Remote interface {
	List(ctx context.Context, start, end timeutil.Date) ([]appointment.Appointment, error)
	Create(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error)
	Update(ctx context.Context, id string, a appointment.Appointment) (appointment.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// monthBucket holds every cached appointment of one calendar month, grouped
// by date key. A bucket is replaced wholesale on refetch; entries are never
// merged, so deleted-but-still-cached records cannot accumulate.
type monthBucket struct {
	byDate      map[string][]appointment.Appointment
	lastFetched time.Time
}

// flight tracks one in-progress month fetch so concurrent requests for the
// same bucket share a single remote call instead of racing last-write-wins.
type flight struct {
	done chan struct{}
	err  error
}

// Store caches appointments by month in front of a Remote.
type Store struct {
	remote Remote
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[timeutil.Month]*monthBucket
	flights map[timeutil.Month]*flight
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the bucket freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock injects the time source, used by tests to step the TTL clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store backed by remote.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:  remote,
		ttl:     DefaultTTL,
		now:     time.Now,
		buckets: make(map[timeutil.Month]*monthBucket),
		flights: make(map[timeutil.Month]*flight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAppointments returns the appointments on date, fetching the containing
// month first if it is absent or stale. Days with no appointments yield an
// empty list.
func (s *Store) GetAppointments(ctx context.Context, date timeutil.Date) ([]appointment.Appointment, error) {
	if err := s.ensureFresh(ctx, timeutil.MonthOf(date)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointmentsOnLocked(date), nil
}

// GetAppointmentsForRange returns appointments for every day in the inclusive
// range [start, end], in ascending date order. The range may span any number
// of months; each touched month is freshened first.
func (s *Store) GetAppointmentsForRange(ctx context.Context, start, end timeutil.Date) ([]appointment.Appointment, error) {
	if end.Before(start) {
		start, end = end, start
	}

	last := timeutil.MonthOf(end)
	for m := timeutil.MonthOf(start); ; m = m.Next() {
		if err := s.ensureFresh(ctx, m); err != nil {
			return nil, err
		}
		if m == last {
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result []appointment.Appointment
	for d := start; !d.After(end); d = d.AddDays(1) {
		result = append(result, s.appointmentsOnLocked(d)...)
	}
	return result, nil
}

// CachedAppointments returns the appointments currently cached for date
// without touching the network, even if the bucket is stale or absent. The
// pre-submit conflict check reads through here so a rejected booking costs no
// remote call.
func (s *Store) CachedAppointments(date timeutil.Date) []appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointmentsOnLocked(date)
}

// FetchSurroundingMonths refreshes the previous, current and next month
// concurrently, so a string of adjacent-date reads after navigation hits warm
// buckets. Latency is bounded by the slowest of the three fetches; the first
// fetch error is returned.
func (s *Store) FetchSurroundingMonths(ctx context.Context, date timeutil.Date) error {
	current := timeutil.MonthOf(date)
	months := []timeutil.Month{current.Prev(), current, current.Next()}

	errs := make([]error, len(months))
	var wg sync.WaitGroup
	for i, m := range months {
		wg.Add(1)
		go func(i int, m timeutil.Month) {
			defer wg.Done()
			errs[i] = s.ensureFresh(ctx, m)
		}(i, m)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateAppointment persists a new appointment and inserts the returned
// id-assigned record into its month's bucket, but only when that bucket is
// already cached; an uncached month is fetched whole on first read instead.
func (s *Store) CreateAppointment(ctx context.Context, data appointment.Appointment) (appointment.Appointment, error) {
	created, err := s.remote.Create(ctx, data)
	if err != nil {
		return appointment.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(created)
	return created, nil
}

// UpdateAppointment persists changes to an appointment. The stale copy is
// scrubbed from every cached bucket before the returned record is inserted
// into the bucket for its current date, which handles the appointment moving
// to a different day or month.
func (s *Store) UpdateAppointment(ctx context.Context, id string, data appointment.Appointment) (appointment.Appointment, error) {
	updated, err := s.remote.Update(ctx, id, data)
	if err != nil {
		return appointment.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrubLocked(id)
	s.insertLocked(updated)
	return updated, nil
}

// DeleteAppointment removes an appointment remotely, then scrubs its id from
// every cached bucket. The owning bucket is not tracked after edits, so the
// scrub is unconditional across all buckets.
func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrubLocked(id)
	return nil
}

// ensureFresh makes sure the bucket for month is present and inside its TTL,
// fetching it from the remote if not. Concurrent calls for the same month
// share one fetch.
func (s *Store) ensureFresh(ctx context.Context, month timeutil.Month) error {
	s.mu.Lock()
	if b, ok := s.buckets[month]; ok && s.now().Sub(b.lastFetched) <= s.ttl {
		s.mu.Unlock()
		return nil
	}
	if f, ok := s.flights[month]; ok {
		s.mu.Unlock()
		select {
		case <-f.done:
			return f.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	s.flights[month] = f
	s.mu.Unlock()

	f.err = s.fetchMonth(ctx, month)

	s.mu.Lock()
	delete(s.flights, month)
	s.mu.Unlock()
	close(f.done)
	return f.err
}

// fetchMonth queries the remote for the month's full date range and replaces
// the bucket wholesale. On failure the bucket is reset to empty with the
// staleness clock advanced: reads show no appointments instead of hanging,
// and the next read after TTL retries.
func (s *Store) fetchMonth(ctx context.Context, month timeutil.Month) error {
	appts, err := s.remote.List(ctx, month.First(), month.Last())

	bucket := &monthBucket{
		byDate:      make(map[string][]appointment.Appointment),
		lastFetched: s.now(),
	}
	for _, a := range appts {
		key := a.Date.Key()
		bucket.byDate[key] = append(bucket.byDate[key], a)
	}

	s.mu.Lock()
	s.buckets[month] = bucket
	s.mu.Unlock()

	return err
}

func (s *Store) appointmentsOnLocked(date timeutil.Date) []appointment.Appointment {
	b, ok := s.buckets[timeutil.MonthOf(date)]
	if !ok {
		return []appointment.Appointment{}
	}
	appts := b.byDate[date.Key()]
	// Snapshot so callers cannot mutate the cache through the slice.
	out := make([]appointment.Appointment, len(appts))
	copy(out, appts)
	return out
}

func (s *Store) insertLocked(a appointment.Appointment) {
	b, ok := s.buckets[timeutil.MonthOf(a.Date)]
	if !ok {
		return
	}
	key := a.Date.Key()
	b.byDate[key] = append(b.byDate[key], a)
}

func (s *Store) scrubLocked(id string) {
	for _, b := range s.buckets {
		for key, appts := range b.byDate {
			kept := appts[:0]
			for _, a := range appts {
				if a.ID != id {
					kept = append(kept, a)
				}
			}
			if len(kept) == 0 {
				delete(b.byDate, key)
			} else {
				b.byDate[key] = kept
			}
		}
	}
}
