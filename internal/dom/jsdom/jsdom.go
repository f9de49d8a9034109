//go:build js && wasm

// Package jsdom binds the dom ports to the browser through syscall/js.
package jsdom

import (
	"syscall/js"

	"github.com/grahamford77/table-tennis/internal/dom"
)

// Document wraps the global document.
type Document struct{ v js.Value }

// Window wraps the global window.
type Window struct{ v js.Value }

var (
	_ dom.Document = Document{}
	_ dom.Window   = Window{}
	_ dom.Element  = (*Element)(nil)
)

// Global returns the page's document and window.
func Global() (Document, Window) {
	g := js.Global()
	return Document{v: g.Get("document")}, Window{v: g}
}

func (d Document) ElementByID(id string) (dom.Element, bool) {
	el := d.v.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return &Element{v: el}, true
}

func (d Document) ElementsByClass(class string) []dom.Element {
	list := d.v.Call("getElementsByClassName", class)
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Element{v: list.Index(i)})
	}
	return out
}

func (w Window) Navigate(url string)     { w.v.Get("location").Set("href", url) }
func (w Window) Reload()                 { w.v.Get("location").Call("reload") }
func (w Window) Confirm(msg string) bool { return w.v.Call("confirm", msg).Bool() }
func (w Window) Alert(msg string)        { w.v.Call("alert", msg) }

// Origin returns location.origin, the base URL of the serving site.
func (w Window) Origin() string { return w.v.Get("location").Get("origin").String() }

// Element wraps one DOM node.  Listener funcs live as long as the page.
type Element struct {
	v     js.Value
	funcs []js.Func
}

func (e *Element) ID() string { return e.v.Get("id").String() }

func (e *Element) Value() string {
	v := e.v.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *Element) Text() string          { return e.v.Get("textContent").String() }
func (e *Element) SetText(text string)   { e.v.Set("textContent", text) }
func (e *Element) Class() string         { return e.v.Get("className").String() }
func (e *Element) SetClass(class string) { e.v.Set("className", class) }

func (e *Element) Style(prop string) string {
	return e.v.Get("style").Call("getPropertyValue", prop).String()
}

func (e *Element) SetStyle(prop, value string) {
	e.v.Get("style").Call("setProperty", prop, value)
}

func (e *Element) Attr(name string) string {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *Element) SetAttr(name, value string) { e.v.Call("setAttribute", name, value) }

// On registers h.  PreventDefault on the dom.Event is forwarded to the
// browser event before the listener returns, so the browser never performs
// the native form submission.
func (e *Element) On(event string, h dom.Handler) {
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := dom.NewEvent(event, e)
		h(ev)
		if ev.DefaultPrevented() && len(args) > 0 {
			args[0].Call("preventDefault")
		}
		return nil
	})
	e.funcs = append(e.funcs, fn)
	e.v.Call("addEventListener", event, fn)
}
