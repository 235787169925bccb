// Package controller orchestrates the scheduler: it owns the selected date,
// the day/week view mode and the appointment modal, and wires user actions
// through the conflict check and the caching store. Store errors never escape
// to the rendering layer; they surface as user-visible notifications.
package controller

import (
	"context"
	"errors"
	"time"

	"appointment-scheduler/internal/appointment"
	"appointment-scheduler/internal/client"
	"appointment-scheduler/internal/layout"
	"appointment-scheduler/internal/schedule"
	"appointment-scheduler/internal/store"
	"appointment-scheduler/internal/timeutil"
)

// ViewMode selects between the single-day column and the 7-day week grid.
type ViewMode string

const (
	ModeDay  ViewMode = "day"
	ModeWeek ViewMode = "week"
)

// ModalState tracks the appointment form modal.
type ModalState string

const (
	ModalClosed   ModalState = "closed"
	ModalCreating ModalState = "creating"
	ModalEditing  ModalState = "editing"
)

// Modal is the current modal state; EditingID is set only while editing.
type Modal struct {
	State     ModalState
	EditingID string
	// Date pre-filled into the form when the modal opened.
	Date timeutil.Date
}

// NotificationKind classifies a user-visible message.
type NotificationKind string

const (
	NoticeInfo     NotificationKind = "info"
	NoticeConflict NotificationKind = "conflict"
	NoticeError    NotificationKind = "error"
)

// Notification is a transient, auto-dismissing user-visible message.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier receives notifications for display. The UI decides presentation
// and dismissal timing.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Form is the raw appointment form input, validated before anything touches
// the store.
type Form struct {
	Date        string // "YYYY-MM-DD"
	From        string // "HH:MM"
	To          string // "HH:MM"
	Title       string
	Description string
	Priority    appointment.Priority
}

// Validation errors, each tied to one form field.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrFromRequired     = errors.New("start time is required")
	ErrToRequired       = errors.New("end time is required")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
)

// Controller drives the scheduler UI state. It is designed for the UI's
// single event loop and is not safe for concurrent use.
type Controller struct {
	store    *store.Store
	notifier Notifier
	now      func() time.Time

	selected timeutil.Date
	mode     ViewMode
	modal    Modal
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock injects the time source used for the initial "today" selection.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller starting on today's date in day view.
func New(s *store.Store, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		notifier: notifier,
		now:      time.Now,
		mode:     ModeDay,
		modal:    Modal{State: ModalClosed},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.selected = timeutil.DateOf(c.now())
	return c
}

// SelectedDate returns the currently selected date.
func (c *Controller) SelectedDate() timeutil.Date { return c.selected }

// Mode returns the current view mode.
func (c *Controller) Mode() ViewMode { return c.mode }

// ModalState returns the current modal state.
func (c *Controller) ModalState() Modal { return c.modal }

// SetViewMode switches between day and week view.
func (c *Controller) SetViewMode(mode ViewMode) {
	c.mode = mode
}

// Startup warms the cache around today's date.
func (c *Controller) Startup(ctx context.Context) {
	c.prefetch(ctx)
}

// PrevDate moves the selection back one day. Navigation is day-granular in
// week view too; that mirrors the original scheduler's behavior and is
// intentional, not an oversight.
func (c *Controller) PrevDate(ctx context.Context) {
	c.selected = c.selected.AddDays(-1)
	c.prefetch(ctx)
}

// NextDate moves the selection forward one day.
func (c *Controller) NextDate(ctx context.Context) {
	c.selected = c.selected.AddDays(1)
	c.prefetch(ctx)
}

// SelectDate jumps to an arbitrary date, e.g. from the month calendar picker.
func (c *Controller) SelectDate(ctx context.Context, date timeutil.Date) {
	c.selected = date
	c.prefetch(ctx)
}

func (c *Controller) prefetch(ctx context.Context) {
	if err := c.store.FetchSurroundingMonths(ctx, c.selected); err != nil {
		c.notifier.Notify(Notification{Kind: NoticeError, Message: "Failed to load appointments"})
	}
}

// DayView computes the layout of the selected day. If the selection moves
// while the fetch is in flight, the resolved data is discarded and the view
// is recomputed for the new selection.
func (c *Controller) DayView(ctx context.Context) (layout.DayLayout, error) {
	for {
		date := c.selected
		appts, err := c.store.GetAppointments(ctx, date)
		if err != nil {
			c.notifier.Notify(Notification{Kind: NoticeError, Message: "Failed to load appointments"})
			return layout.DayLayout{}, err
		}
		if date == c.selected {
			return layout.ComputeDayLayout(date, appts), nil
		}
	}
}

// WeekView computes the layout of the Sunday-starting week containing the
// selected date.
func (c *Controller) WeekView(ctx context.Context) (layout.WeekLayout, error) {
	for {
		date := c.selected
		start := timeutil.StartOfWeek(date)
		appts, err := c.store.GetAppointmentsForRange(ctx, start, start.AddDays(6))
		if err != nil {
			c.notifier.Notify(Notification{Kind: NoticeError, Message: "Failed to load appointments"})
			return layout.WeekLayout{}, err
		}
		if date == c.selected {
			byDate := make(map[string][]appointment.Appointment)
			for _, a := range appts {
				byDate[a.Date.Key()] = append(byDate[a.Date.Key()], a)
			}
			return layout.ComputeWeekLayout(date, byDate, layout.WeekConfig{}), nil
		}
	}
}

// OpenCreate opens the appointment modal pre-filled with the selected date.
func (c *Controller) OpenCreate() {
	c.modal = Modal{State: ModalCreating, Date: c.selected}
}

// OpenEdit opens the modal for an existing appointment.
func (c *Controller) OpenEdit(id string) {
	c.modal = Modal{State: ModalEditing, EditingID: id, Date: c.selected}
}

// CloseModal dismisses the modal without saving.
func (c *Controller) CloseModal() {
	c.modal = Modal{State: ModalClosed}
}

// SubmitCreate validates the form, runs the conflict pre-check against the
// cached appointments of the form's date, and creates the appointment. On
// conflict or failure the modal stays open; on success it closes.
func (c *Controller) SubmitCreate(ctx context.Context, form Form) (appointment.Appointment, error) {
	return c.submit(ctx, form, "")
}

// SubmitEdit is SubmitCreate for an existing appointment. The edited
// appointment is excluded from the conflict comparison so it cannot conflict
// with itself, and a changed date moves it between month buckets.
func (c *Controller) SubmitEdit(ctx context.Context, id string, form Form) (appointment.Appointment, error) {
	return c.submit(ctx, form, id)
}

func (c *Controller) submit(ctx context.Context, form Form, editID string) (appointment.Appointment, error) {
	appt, err := parseForm(form)
	if err != nil {
		c.notifier.Notify(Notification{Kind: NoticeError, Message: err.Error()})
		return appointment.Appointment{}, err
	}

	// Pre-flight conflict check against cached data only; a rejected booking
	// must not cost a network round-trip.
	existing := appointment.Intervals(c.store.CachedAppointments(appt.Date), editID)
	if schedule.HasConflict(appt.Interval(), existing) {
		c.notifyConflict()
		return appointment.Appointment{}, client.ErrConflict
	}

	var saved appointment.Appointment
	if editID == "" {
		saved, err = c.store.CreateAppointment(ctx, appt)
	} else {
		saved, err = c.store.UpdateAppointment(ctx, editID, appt)
	}
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			// Server-side rejection reads the same as the local pre-check.
			c.notifyConflict()
		} else {
			c.notifier.Notify(Notification{Kind: NoticeError, Message: "Failed to save appointment"})
		}
		return appointment.Appointment{}, err
	}

	c.modal = Modal{State: ModalClosed}
	c.notifier.Notify(Notification{Kind: NoticeInfo, Message: "Appointment saved"})
	return saved, nil
}

func (c *Controller) notifyConflict() {
	c.notifier.Notify(Notification{
		Kind:    NoticeConflict,
		Message: "Time conflict: this slot is already booked",
	})
}

// Delete removes an appointment immediately, with no confirmation step.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteAppointment(ctx, id); err != nil {
		c.notifier.Notify(Notification{Kind: NoticeError, Message: "Failed to delete appointment"})
		return err
	}
	c.notifier.Notify(Notification{Kind: NoticeInfo, Message: "Appointment deleted"})
	return nil
}

// parseForm validates the raw form and builds the appointment value. Time and
// date strings are the only place FormatError can arise; it never reaches the
// store or the conflict detector.
func parseForm(form Form) (appointment.Appointment, error) {
	if form.From == "" {
		return appointment.Appointment{}, ErrFromRequired
	}
	if form.To == "" {
		return appointment.Appointment{}, ErrToRequired
	}

	date, err := timeutil.ParseDate(form.Date)
	if err != nil {
		return appointment.Appointment{}, err
	}
	from, err := timeutil.ParseTimeOfDay(form.From)
	if err != nil {
		return appointment.Appointment{}, err
	}
	to, err := timeutil.ParseTimeOfDay(form.To)
	if err != nil {
		return appointment.Appointment{}, err
	}
	if to <= from {
		return appointment.Appointment{}, ErrEndNotAfterStart
	}

	title := form.Title
	if title == "" {
		return appointment.Appointment{}, ErrTitleRequired
	}

	priority := form.Priority
	if priority == "" {
		priority = appointment.PriorityLow
	}
	if !priority.Valid() {
		priority = appointment.PriorityLow
	}

	return appointment.Appointment{
		Date:        date,
		From:        from,
		To:          to,
		Title:       title,
		Description: form.Description,
		Priority:    priority,
	}, nil
}
