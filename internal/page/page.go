// internal/page/page.go
//
// Page bootstrap.
//
// Context
//   When a page loads, the client builds one submission pipeline and one
//   messaging service, then offers every registered form to a controller.
//   Controllers whose form is absent from the page are dropped, so one
//   bootstrap serves the registration page, the create page, and the edit
//   page alike.  The delete action is always available since the list page
//   triggers it from per-row buttons rather than a form.
//
//   Teardown runs on navigation.  It cancels a pending redirect and waits
//   for in-flight submissions to be reported.
//
//------------------------------------------------------------------------------

package page

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/config"
	"github.com/grahamford77/table-tennis/internal/controller"
	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/form"
	"github.com/grahamford77/table-tennis/internal/message"
	"github.com/grahamford77/table-tennis/internal/submit"
)

// Options configure a bootstrap.  Only BaseURL is required.
type Options struct {
	BaseURL       string
	Forms         *form.Registry     // stock forms when nil
	HTTPClient    *http.Client       // optional
	Clock         clockwork.Clock    // optional
	Log           *zap.SugaredLogger // optional
	RedirectDelay time.Duration      // message.DefaultRedirectDelay when zero
	GenericError  string             // message.GenericError when empty
}

// FromConfig maps the client configuration onto Options.
func FromConfig(cfg *config.Config, forms *form.Registry, log *zap.SugaredLogger) Options {
	opts := Options{
		BaseURL:       cfg.Service.BaseURL,
		Forms:         forms,
		Log:           log,
		RedirectDelay: cfg.Messaging.RedirectDelay,
		GenericError:  cfg.Messaging.GenericError,
	}
	if cfg.Service.Timeout > 0 {
		opts.HTTPClient = &http.Client{Timeout: cfg.Service.Timeout}
	}
	return opts
}

// Page is the set of services bound to one loaded document.
type Page struct {
	Messages *message.Service
	Pipeline *submit.Pipeline
	Deleter  *controller.Deleter

	controllers map[string]*controller.Controller
	order       []string
	log         *zap.SugaredLogger
}

// Bootstrap wires the shared services and binds every form found in doc.
func Bootstrap(doc dom.Document, win dom.Window, opts Options) (*Page, error) {
	if doc == nil || win == nil {
		return nil, errors.New("page: document and window are required")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Forms == nil {
		reg, err := form.Defaults()
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		opts.Forms = reg
	}

	pipeOpts := []submit.Option{submit.WithLogger(opts.Log)}
	if opts.HTTPClient != nil {
		pipeOpts = append(pipeOpts, submit.WithHTTPClient(opts.HTTPClient))
	}
	pipe, err := submit.New(opts.BaseURL, pipeOpts...)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}

	msgOpts := []message.Option{message.WithClock(opts.Clock), message.WithLogger(opts.Log)}
	if opts.RedirectDelay > 0 {
		msgOpts = append(msgOpts, message.WithRedirectDelay(opts.RedirectDelay))
	}
	if opts.GenericError != "" {
		msgOpts = append(msgOpts, message.WithGenericError(opts.GenericError))
	}
	msgs := message.New(doc, win, msgOpts...)

	p := &Page{
		Messages:    msgs,
		Pipeline:    pipe,
		Deleter:     controller.NewDeleter(pipe, win, opts.Log),
		controllers: make(map[string]*controller.Controller),
		log:         opts.Log,
	}

	deps := controller.Deps{Pipeline: pipe, Messages: msgs, Clock: opts.Clock, Log: opts.Log}
	for _, d := range opts.Forms.All() {
		c := controller.New(d, deps)
		if !c.Initialize(doc) {
			continue
		}
		p.controllers[d.ID] = c
		p.order = append(p.order, d.ID)
	}
	opts.Log.Infow("page bootstrapped", "forms", p.order)
	return p, nil
}

// Controller returns the bound controller for a form id.
func (p *Page) Controller(id string) (*controller.Controller, bool) {
	c, ok := p.controllers[id]
	return c, ok
}

// Forms lists the ids of the forms found on the page, in registry order.
func (p *Page) Forms() []string { return append([]string(nil), p.order...) }

// Teardown waits for in-flight submissions, then cancels any pending
// redirect.
func (p *Page) Teardown() {
	for _, id := range p.order {
		p.controllers[id].Wait()
	}
	p.Messages.Close()
	p.log.Debugw("page torn down")
}
