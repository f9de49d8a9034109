// internal/dom/memory.go
//
// In-memory Document built from HTML markup.
//
// Context
//   The headless client fetches the same pages a browser would and parses
//   them with golang.org/x/net/html.  Every element carrying an id or a
//   class becomes a Node.  Values follow browser rules closely enough for
//   form extraction: <input value>, <textarea> text, and the selected (or
//   first) <option> of a <select>.
//
//------------------------------------------------------------------------------

package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// -----------------------------------------------------------------------------
// Node
// -----------------------------------------------------------------------------

// Node is the in-memory Element.  All methods are safe for concurrent use
// since submissions complete on their own goroutines.
type Node struct {
	mu       sync.RWMutex
	id       string
	tag      string
	value    string
	text     string
	class    string
	attrs    map[string]string
	style    map[string]string
	handlers map[string][]Handler
}

// NewNode returns a detached node.  Add it to a Memory document to make it
// addressable.
func NewNode(tag, id string) *Node {
	return &Node{
		id:       id,
		tag:      strings.ToLower(tag),
		attrs:    make(map[string]string),
		style:    make(map[string]string),
		handlers: make(map[string][]Handler),
	}
}

func (n *Node) ID() string { return n.id }

func (n *Node) Value() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value
}

// SetValue mimics a user typing into the control.
func (n *Node) SetValue(v string) *Node {
	n.mu.Lock()
	n.value = v
	n.mu.Unlock()
	return n
}

func (n *Node) Text() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.text
}

func (n *Node) SetText(text string) {
	n.mu.Lock()
	n.text = text
	n.mu.Unlock()
}

func (n *Node) Class() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.class
}

func (n *Node) SetClass(class string) {
	n.mu.Lock()
	n.class = class
	n.mu.Unlock()
}

// WithClass is the builder form of SetClass.
func (n *Node) WithClass(class string) *Node {
	n.SetClass(class)
	return n
}

// HasClass reports whether class is one of the node's class tokens.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Class()) {
		if c == class {
			return true
		}
	}
	return false
}

func (n *Node) Style(prop string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.style[prop]
}

func (n *Node) SetStyle(prop, value string) {
	n.mu.Lock()
	n.style[prop] = value
	n.mu.Unlock()
}

func (n *Node) Attr(name string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.attrs[name]
}

func (n *Node) SetAttr(name, value string) {
	n.mu.Lock()
	n.attrs[name] = value
	n.mu.Unlock()
}

func (n *Node) On(event string, h Handler) {
	n.mu.Lock()
	n.handlers[event] = append(n.handlers[event], h)
	n.mu.Unlock()
}

// Listeners returns the number of handlers bound to event.
func (n *Node) Listeners(event string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.handlers[event])
}

// Fire dispatches a new event of typ to every listener, in registration
// order, and returns it so callers can inspect DefaultPrevented.
func (n *Node) Fire(typ string) *Event {
	n.mu.RLock()
	hs := append([]Handler(nil), n.handlers[typ]...)
	n.mu.RUnlock()

	ev := NewEvent(typ, n)
	for _, h := range hs {
		h(ev)
	}
	return ev
}

// -----------------------------------------------------------------------------
// Memory document
// -----------------------------------------------------------------------------

// Memory is a Document holding nodes in document order.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]*Node
	nodes []*Node
}

var _ Document = (*Memory)(nil)

// NewDocument returns an empty document.
func NewDocument() *Memory {
	return &Memory{byID: make(map[string]*Node)}
}

// Add appends n.  When ids repeat, ElementByID keeps returning the first
// node added, as getElementById does.
func (m *Memory) Add(n *Node) *Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.id != "" {
		if _, dup := m.byID[n.id]; !dup {
			m.byID[n.id] = n
		}
	}
	m.nodes = append(m.nodes, n)
	return n
}

// Node returns the concrete node for id, or nil.
func (m *Memory) Node(id string) *Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byID[id]
}

func (m *Memory) ElementByID(id string) (Element, bool) {
	n := m.Node(id)
	if n == nil {
		return nil, false
	}
	return n, true
}

func (m *Memory) ElementsByClass(class string) []Element {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Element
	for _, n := range m.nodes {
		if n.HasClass(class) {
			out = append(out, n)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// HTML parsing
// -----------------------------------------------------------------------------

// Parse reads HTML from r and returns the resulting document.
func Parse(r io.Reader) (*Memory, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := NewDocument()
	walk(doc, root)
	return doc, nil
}

func walk(doc *Memory, h *html.Node) {
	if h.Type == html.ElementNode {
		if n := fromHTML(h); n != nil {
			doc.Add(n)
		}
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		walk(doc, c)
	}
}

// fromHTML converts h into a Node when it carries an id or a class.
func fromHTML(h *html.Node) *Node {
	id, class := attr(h, "id"), attr(h, "class")
	if id == "" && class == "" {
		return nil
	}

	n := NewNode(h.Data, id)
	n.class = class
	for _, a := range h.Attr {
		n.attrs[a.Key] = a.Val
	}
	for prop, val := range parseStyle(attr(h, "style")) {
		n.style[prop] = val
	}

	switch n.tag {
	case "input":
		n.value = attr(h, "value")
	case "textarea":
		n.value = textContent(h)
		n.text = n.value
	case "select":
		n.value = selectedOption(h)
	default:
		n.text = strings.TrimSpace(textContent(h))
	}
	return n
}

func attr(h *html.Node, key string) string {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(h *html.Node, key string) bool {
	for _, a := range h.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textContent(h *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(x *html.Node) {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(h)
	return b.String()
}

// selectedOption mirrors HTMLSelectElement.value: the selected option, else
// the first one.  An option without a value attribute uses its text.
func selectedOption(sel *html.Node) string {
	var first, chosen *html.Node
	var rec func(*html.Node)
	rec = func(x *html.Node) {
		if x.Type == html.ElementNode && x.Data == "option" {
			if first == nil {
				first = x
			}
			if chosen == nil && hasAttr(x, "selected") {
				chosen = x
			}
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(sel)

	if chosen == nil {
		chosen = first
	}
	if chosen == nil {
		return ""
	}
	if hasAttr(chosen, "value") {
		return attr(chosen, "value")
	}
	return strings.TrimSpace(textContent(chosen))
}

// parseStyle splits an inline style attribute into property/value pairs.
func parseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out[prop] = strings.TrimSpace(val)
	}
	return out
}
