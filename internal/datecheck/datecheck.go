// internal/datecheck/datecheck.go
//
// Date validator for tournament create and edit forms.
//
// Context
//   A tournament must be scheduled strictly after today.  The check is a
//   plain string comparison of the field's "YYYY-MM-DD" value against
//   today's date in the same layout, so no date arithmetic happens on user
//   input.  Today is taken from the injected clock in UTC.
//
//   Attach binds the validator to a date input and its inline error
//   element, sets the input's min attribute to today, and re-validates on
//   change and blur.  The form controller also calls Validate before every
//   submission and halts when it fails.
//
//------------------------------------------------------------------------------

package datecheck

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/metrics"
)

const (
	Layout = "2006-01-02"

	MsgRequired  = "Date is required"
	MsgNotFuture = "Tournament date must be in the future"

	BorderInvalid = "#d32f2f"
	BorderValid   = "#b2dfdb"
)

// State is the outcome of the most recent check.
type State int

const (
	Untouched State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "untouched"
	}
}

// Reason explains an Invalid state.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonRequired  Reason = "required"
	ReasonNotFuture Reason = "not_future"
)

// Message is the user-facing text for r.
func (r Reason) Message() string {
	switch r {
	case ReasonRequired:
		return MsgRequired
	case ReasonNotFuture:
		return MsgNotFuture
	}
	return ""
}

// Validator guards one date input.
type Validator struct {
	field dom.Element
	errEl dom.Element
	clock clockwork.Clock
	log   *zap.SugaredLogger

	mu     sync.Mutex
	state  State
	reason Reason
}

// Option customises a Validator.
type Option func(*Validator)

func WithClock(c clockwork.Clock) Option {
	return func(v *Validator) { v.clock = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(v *Validator) { v.log = l }
}

// Today returns the current UTC date as "YYYY-MM-DD".
func Today(c clockwork.Clock) string {
	return c.Now().UTC().Format(Layout)
}

// Check classifies value against today without touching any element.
func Check(value, today string) Reason {
	if value == "" {
		return ReasonRequired
	}
	if value <= today {
		return ReasonNotFuture
	}
	return ReasonNone
}

// Attach binds a validator to the date field and its error element.  It
// returns (nil, false) when either element is missing from doc.
func Attach(doc dom.Document, fieldID, errorID string, opts ...Option) (*Validator, bool) {
	field, ok := doc.ElementByID(fieldID)
	if !ok {
		return nil, false
	}
	errEl, ok := doc.ElementByID(errorID)
	if !ok {
		return nil, false
	}

	v := &Validator{
		field: field,
		errEl: errEl,
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(v)
	}

	field.SetAttr("min", Today(v.clock))
	revalidate := func(*dom.Event) { v.Validate() }
	field.On("change", revalidate)
	field.On("blur", revalidate)
	return v, true
}

// Validate checks the field's current value and renders the result.
func (v *Validator) Validate() bool {
	reason := Check(v.field.Value(), Today(v.clock))

	v.mu.Lock()
	defer v.mu.Unlock()

	if reason != ReasonNone {
		v.state, v.reason = Invalid, reason
		v.errEl.SetText(reason.Message())
		v.errEl.SetStyle("display", "block")
		v.field.SetStyle("border-color", BorderInvalid)
		metrics.DateValidationFailures.WithLabelValues(string(reason)).Inc()
		v.log.Debugw("date rejected", "field", v.field.ID(), "reason", string(reason))
		return false
	}

	v.state, v.reason = Valid, ReasonNone
	v.errEl.SetText("")
	v.errEl.SetStyle("display", "none")
	v.field.SetStyle("border-color", BorderValid)
	return true
}

// State returns the most recent result.
func (v *Validator) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Reason returns why the last check failed, or ReasonNone.
func (v *Validator) Reason() Reason {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reason
}
