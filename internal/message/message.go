// internal/message/message.go
//
// Messaging service: the page's single status region.
//
// Context
//   One element with id "message" shows the most recent user-visible
//   outcome.  Show always overwrites it; there is no queue, so the last
//   writer wins when two forms resolve close together.  A success may
//   schedule a navigation after a short delay so the user can read the
//   confirmation first.  Transport failures are shown as a generic retry
//   message and their detail goes to the log only.
//
//   The service is constructed once per page and closed on navigation.
//   Close cancels a pending redirect.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/form"
	"github.com/grahamford77/table-tennis/internal/submit"
)

const (
	RegionID             = "message"
	ErrorClass           = "error"
	DefaultRedirectDelay = 1500 * time.Millisecond
	GenericError         = "An error occurred. Please try again."
)

// Kind styles a message.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Success {
		return "success"
	}
	return "error"
}

// Display is the region's current content.
type Display struct {
	Text    string
	Kind    Kind
	Visible bool
}

// Service owns the message region.
type Service struct {
	mu      sync.Mutex
	doc     dom.Document
	region  dom.Element // nil when the page has no region
	win     dom.Window
	clock   clockwork.Clock
	delay   time.Duration
	generic string
	log     *zap.SugaredLogger

	current Display
	pending clockwork.Timer
	closed  bool
}

// Option customises a Service.
type Option func(*Service)

func WithClock(c clockwork.Clock) Option { return func(s *Service) { s.clock = c } }

func WithRedirectDelay(d time.Duration) Option { return func(s *Service) { s.delay = d } }

func WithLogger(l *zap.SugaredLogger) Option { return func(s *Service) { s.log = l } }

// WithGenericError replaces the text shown for transport failures.
func WithGenericError(text string) Option { return func(s *Service) { s.generic = text } }

// New binds a service to the page's message region.
func New(doc dom.Document, win dom.Window, opts ...Option) *Service {
	s := &Service{
		doc:     doc,
		win:     win,
		clock:   clockwork.NewRealClock(),
		delay:   DefaultRedirectDelay,
		generic: GenericError,
		log:     zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	if el, ok := doc.ElementByID(RegionID); ok {
		s.region = el
	}
	return s
}

// -----------------------------------------------------------------------------
// Region writes
// -----------------------------------------------------------------------------

// Show overwrites the region's text and styling and makes it visible.
func (s *Service) Show(text string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showLocked(text, kind)
}

func (s *Service) showLocked(text string, kind Kind) {
	s.current = Display{Text: text, Kind: kind, Visible: true}
	if s.region == nil {
		return
	}
	s.region.SetText(text)
	s.region.SetClass("message " + kind.String())
	s.region.SetStyle("display", "block")
}

// Success shows text and, when redirect is set, navigates there after the
// redirect delay.  A newer redirect replaces one still pending.
func (s *Service) Success(text, redirect string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.showLocked(text, Success)
	if redirect == "" || s.closed {
		return
	}
	if s.pending != nil {
		s.pending.Stop()
	}
	var t clockwork.Timer
	t = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		// A stopped or superseded timer may still fire once.
		if s.closed || s.pending != t {
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.mu.Unlock()
		s.win.Navigate(redirect)
	})
	s.pending = t
}

// Failure shows text styled as an error.
func (s *Service) Failure(text string) { s.Show(text, Error) }

// ClearErrors empties every inline error element and hides the region.
// Calling it repeatedly is harmless.
func (s *Service) ClearErrors() {
	for _, el := range s.doc.ElementsByClass(ErrorClass) {
		el.SetText("")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Display{}
	if s.region == nil {
		return
	}
	s.region.SetText("")
	s.region.SetStyle("display", "none")
}

// Current returns what the region shows.
func (s *Service) Current() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// RedirectPending reports whether a navigation is scheduled.
func (s *Service) RedirectPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Close cancels any pending redirect.  Later successes still render but no
// longer navigate.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// -----------------------------------------------------------------------------
// Outcome routing
// -----------------------------------------------------------------------------

// Report renders the outcome of one submission of d.
func (s *Service) Report(d *form.Descriptor, o submit.Outcome) {
	switch o.Kind {
	case submit.Success:
		s.Success(o.MessageOr(d.SuccessMessage), d.SuccessRedirect)
	case submit.TransportFailure:
		s.log.Errorw("form submission failed",
			"form", d.ID, "status", o.Status, "error", errString(o.Err))
		s.Failure(s.generic)
	case submit.BusinessFailure:
		s.log.Infow("form submission rejected",
			"form", d.ID, "status", o.Status, "message", o.MessageOr(""))
		s.Failure(o.MessageOr(d.DefaultError))
	case submit.ValidationFailure:
		// Inline field errors already describe the problem.
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
