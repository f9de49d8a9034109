// internal/dom/dom.go
//
// Page ports used by the form workflow.
//
// Context
//   Controllers never touch a browser directly.  They talk to a Document
//   (element lookup), an Element (value, text, class, style, listeners), and
//   a Window (navigation and blocking dialogs).  The js/wasm build binds
//   these to the real DOM in internal/dom/jsdom; the CLI and the tests use
//   the in-memory implementation in memory.go.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package dom

// Handler is an event listener.
type Handler func(*Event)

// Event is the minimal event object passed to listeners.
type Event struct {
	Type   string
	Target Element

	prevented bool
}

// NewEvent returns an event of typ targeted at el.
func NewEvent(typ string, el Element) *Event { return &Event{Type: typ, Target: el} }

// PreventDefault suppresses the browser default action (form navigation).
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Element is one node addressable by id or class.
type Element interface {
	ID() string
	Value() string
	Text() string
	SetText(text string)
	Class() string
	SetClass(class string)
	Style(prop string) string
	SetStyle(prop, value string)
	Attr(name string) string
	SetAttr(name, value string)
	On(event string, h Handler)
}

// Document resolves elements.  ElementByID returns (nil, false) when the id
// is absent, which callers treat as "this page has no such form".
type Document interface {
	ElementByID(id string) (Element, bool)
	ElementsByClass(class string) []Element
}

// Window owns navigation and the blocking dialogs used by the delete flow.
type Window interface {
	Navigate(url string)
	Reload()
	Confirm(msg string) bool
	Alert(msg string)
}
