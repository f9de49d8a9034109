// internal/controller/controller.go
//
// Form controller: one per form on the page.
//
// Context
//   A controller intercepts its form's submit event, suppresses the
//   browser's own submission, clears earlier errors, runs the date check on
//   date-bearing forms, builds the JSON payload, and hands it to the
//   submission pipeline on a fresh goroutine.  The outcome is routed to the
//   messaging service, which owns every user-visible effect.
//
// Lifecycle
//   Idle → Validating → Submitting → Succeeded | Failed
//
//   A failed date check goes straight to Failed without any network call.
//   The form stays interactive while a request is in flight, so repeated
//   submits create independent requests and the phase reflects whichever
//   resolved last.
//
//------------------------------------------------------------------------------

package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/datecheck"
	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/form"
	"github.com/grahamford77/table-tennis/internal/metrics"
	"github.com/grahamford77/table-tennis/internal/submit"
)

// ErrNotInitialized is carried by the outcome of Submit when the controller
// was never bound to a page.
var ErrNotInitialized = errors.New("controller not initialized")

// Phase is a controller's lifecycle position.
type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Submitter starts one request and delivers its outcome on the returned
// channel.  *submit.Pipeline satisfies it.
type Submitter interface {
	Go(ctx context.Context, endpoint string, payload any) <-chan submit.Outcome
}

// Messenger renders outcomes.  *message.Service satisfies it.
type Messenger interface {
	ClearErrors()
	Report(d *form.Descriptor, o submit.Outcome)
}

// Deps are the page-wide services every controller shares.
type Deps struct {
	Pipeline Submitter
	Messages Messenger
	Clock    clockwork.Clock    // optional; real clock when nil
	Log      *zap.SugaredLogger // optional
}

// Controller drives one form.
type Controller struct {
	desc *form.Descriptor
	deps Deps

	mu       sync.Mutex
	doc      dom.Document
	dates    *datecheck.Validator
	phase    Phase
	inflight sync.WaitGroup
}

// New returns an unbound controller for desc.
func New(desc *form.Descriptor, deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	return &Controller{desc: desc, deps: deps}
}

// Descriptor returns the form definition the controller drives.
func (c *Controller) Descriptor() *form.Descriptor { return c.desc }

// Initialize binds the controller to doc.  It returns false when the page
// has no form with the descriptor's id.  A second call is a no-op that
// returns true.
func (c *Controller) Initialize(doc dom.Document) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc != nil {
		return true
	}
	el, ok := doc.ElementByID(c.desc.ID)
	if !ok {
		return false
	}
	c.doc = doc

	if c.desc.HasDate() {
		c.dates, _ = datecheck.Attach(doc, c.desc.DateField, c.desc.DateErrorField,
			datecheck.WithClock(c.deps.Clock), datecheck.WithLogger(c.deps.Log))
	}

	el.On("submit", func(ev *dom.Event) {
		ev.PreventDefault()
		c.Submit(context.Background())
	})
	c.deps.Log.Debugw("form bound", "form", c.desc.ID, "date_check", c.dates != nil)
	return true
}

// Phase returns the current lifecycle position.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Wait blocks until every in-flight submission has been reported.
func (c *Controller) Wait() { c.inflight.Wait() }

// Submit runs one submission attempt, exactly as a submit event would.
// The channel yields one outcome after it has been reported, then closes.
func (c *Controller) Submit(ctx context.Context) <-chan submit.Outcome {
	ch := make(chan submit.Outcome, 1)

	c.mu.Lock()
	doc, dates := c.doc, c.dates
	c.mu.Unlock()
	if doc == nil {
		ch <- submit.Outcome{Kind: submit.TransportFailure, Err: ErrNotInitialized}
		close(ch)
		return ch
	}

	c.deps.Messages.ClearErrors()

	if dates != nil {
		c.setPhase(Validating)
		if !dates.Validate() {
			out := submit.Outcome{Kind: submit.ValidationFailure}
			c.finish(out)
			ch <- out
			close(ch)
			return ch
		}
	}

	endpoint, err := c.desc.ResolveEndpoint(doc)
	if err != nil {
		out := submit.Outcome{Kind: submit.TransportFailure, Err: err}
		c.finish(out)
		ch <- out
		close(ch)
		return ch
	}
	payload := c.desc.BuildPayload(doc)

	c.setPhase(Submitting)
	pending := c.deps.Pipeline.Go(ctx, endpoint, payload)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(ch)
		out := <-pending
		c.finish(out)
		ch <- out
	}()
	return ch
}

// finish reports o and records the resulting phase.
func (c *Controller) finish(o submit.Outcome) {
	c.deps.Messages.Report(c.desc, o)
	metrics.FormSubmissions.WithLabelValues(c.desc.ID, o.Kind.String()).Inc()
	if o.OK() {
		c.setPhase(Succeeded)
		return
	}
	c.setPhase(Failed)
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}
