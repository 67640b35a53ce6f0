// Package submission drives the report submission form: one draft, one
// image, location entry or detection, validation and a single in-flight
// submit.
package submission

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wastewise/wastewise/internal/client/geo"
	"github.com/wastewise/wastewise/internal/client/notify"
	"github.com/wastewise/wastewise/internal/client/reports"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// Phase is the state of the flow.
type Phase int

const (
	Idle Phase = iota
	ImageSelected
	Validating
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ImageSelected:
		return "image-selected"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ValidationError is a draft problem caught before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrNoImage          = &ValidationError{Field: "image", Message: "Please select an image"}
	ErrNoLocation       = &ValidationError{Field: "location", Message: "Please provide a location"}
	ErrShortDescription = &ValidationError{Field: "description", Message: "Description must be at least 10 characters"}

	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// Creator persists a report.
type Creator interface {
	Create(ctx context.Context, in reports.NewReport) (*domain.Report, error)
}

// Draft is the form content.
type Draft struct {
	Image       *reports.Image
	Location    string
	Description string
	// Coords is set only when the flow records coordinates.
	Coords *geo.Coordinates
}

type Option func(*Flow)

// WithLocator enables location detection.
func WithLocator(l geo.Locator) Option { return func(f *Flow) { f.locator = l } }

// WithGeocoder turns detected coordinates into an address.
func WithGeocoder(g geo.ReverseGeocoder) Option { return func(f *Flow) { f.geocoder = g } }

// WithCoordinates keeps the detected pair on the draft and sends it along.
func WithCoordinates() Option { return func(f *Flow) { f.recordCoords = true } }

// WithReload registers the function called after a successful submit.
func WithReload(fn func(context.Context)) Option { return func(f *Flow) { f.reload = fn } }

type Flow struct {
	creator  Creator
	notifier notify.Notifier
	validate *validator.Validate

	locator      geo.Locator
	geocoder     geo.ReverseGeocoder
	recordCoords bool
	reload       func(context.Context)

	mu       sync.Mutex
	phase    Phase
	draft    Draft
	locating bool
}

func New(creator Creator, notifier notify.Notifier, opts ...Option) *Flow {
	f := &Flow{
		creator:  creator,
		notifier: notifier,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Draft returns a copy of the current form content.
func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SelectImage replaces the draft image. A rejected file leaves the previous
// selection in place and is reported through the notifier.
func (f *Flow) SelectImage(name string, data []byte) error {
	img, err := inspectImage(name, data)
	if err != nil {
		f.notifier.Error(err.Error())
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Image = &img
	if f.phase == Idle || f.phase == Failed || f.phase == Succeeded {
		f.phase = ImageSelected
	}
	return nil
}

func (f *Flow) SetLocation(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Location = s
}

func (f *Flow) SetDescription(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Description = s
}

// Locating reports whether a detection is running.
func (f *Flow) Locating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locating
}

// DetectLocation fills the location from the locator. Any failure leaves the
// typed location as it was.
func (f *Flow) DetectLocation(ctx context.Context) error {
	if f.locator == nil {
		f.notifier.Error(locationMessage(geo.ErrUnsupported))
		return geo.ErrUnsupported
	}

	f.mu.Lock()
	f.locating = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.locating = false
		f.mu.Unlock()
	}()

	coords, err := f.locator.Locate(ctx)
	if err != nil {
		f.notifier.Error(locationMessage(err))
		return err
	}

	text, msg := coords.String(), "Location detected (coordinates)"
	if f.geocoder != nil {
		if addr, gerr := f.geocoder.Reverse(ctx, coords); gerr == nil {
			text, msg = addr, "Location detected successfully"
		}
	}

	f.mu.Lock()
	f.draft.Location = text
	if f.recordCoords {
		f.draft.Coords = &coords
	}
	f.mu.Unlock()

	f.notifier.Success(msg)
	return nil
}

func locationMessage(err error) string {
	switch {
	case errors.Is(err, geo.ErrPermissionDenied):
		return "Location access denied. Please enter manually."
	case errors.Is(err, geo.ErrUnsupported):
		return "Geolocation is not supported on this device. Please enter manually."
	}
	return "Could not detect location. Please enter manually."
}

// Validate checks image presence, then location, then description.
func (f *Flow) Validate() error {
	f.mu.Lock()
	d := f.draft
	f.mu.Unlock()
	return f.check(d)
}

func (f *Flow) check(d Draft) error {
	if d.Image == nil {
		return ErrNoImage
	}
	if f.validate.Var(strings.TrimSpace(d.Location), "required") != nil {
		return ErrNoLocation
	}
	if f.validate.Var(strings.TrimSpace(d.Description), "min=10") != nil {
		return ErrShortDescription
	}
	return nil
}

// CanSubmit is false while the draft is invalid or a submit is in flight.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase != Submitting && f.check(f.draft) == nil
}

// Submit validates the draft and creates the report. Validation failures
// never reach the network. On success the draft is cleared, the reload
// function runs and the flow returns to Idle; on failure the draft is kept.
func (f *Flow) Submit(ctx context.Context) (*domain.Report, error) {
	f.mu.Lock()
	if f.phase == Submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	prev := f.phase
	f.phase = Validating
	d := f.draft
	if err := f.check(d); err != nil {
		f.phase = prev
		f.mu.Unlock()
		f.notifier.Error(err.Error())
		return nil, err
	}
	f.phase = Submitting
	f.mu.Unlock()

	in := reports.NewReport{
		Image:       *d.Image,
		Location:    strings.TrimSpace(d.Location),
		Description: strings.TrimSpace(d.Description),
	}
	if d.Coords != nil {
		in.Latitude, in.Longitude = &d.Coords.Latitude, &d.Coords.Longitude
	}

	rep, err := f.creator.Create(ctx, in)
	if err != nil {
		f.mu.Lock()
		f.phase = Failed
		f.mu.Unlock()
		f.notifier.Error(err.Error())
		return nil, err
	}

	f.mu.Lock()
	f.phase = Succeeded
	f.draft = Draft{}
	f.mu.Unlock()

	f.notifier.Success("Report submitted successfully")
	if f.reload != nil {
		f.reload(ctx)
	}

	f.mu.Lock()
	f.phase = Idle
	f.mu.Unlock()
	return rep, nil
}

// Reset discards the draft unless a submit is in flight.
func (f *Flow) Reset() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == Submitting {
		return false
	}
	f.draft = Draft{}
	f.phase = Idle
	return true
}
