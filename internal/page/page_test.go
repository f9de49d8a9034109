package page

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahamford77/table-tennis/internal/config"
	"github.com/grahamford77/table-tennis/internal/dom"
)

const createMarkup = `<!doctype html>
<html><body>
  <div id="message" class="message" style="display:none"></div>
  <form id="createTournamentForm">
    <input id="name" value="Winter Smash">
    <textarea id="description">Open singles</textarea>
    <input id="date" type="date" value="2031-01-15">
    <div id="dateError" class="error"></div>
    <input id="time" value="10:00">
    <input id="location" value="Club hall">
    <input id="maxEntrants" value="24">
    <button type="submit">Create</button>
  </form>
</body></html>`

func okServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"Tournament created successfully"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBootstrap_BindsFormsPresent(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(createMarkup))
	require.NoError(t, err)
	srv := okServer(t)
	clock := clockwork.NewFakeClockAt(time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC))
	win := dom.NewRecorder(true)

	p, err := Bootstrap(doc, win, Options{BaseURL: srv.URL, Clock: clock})
	require.NoError(t, err)
	defer p.Teardown()

	assert.Equal(t, []string{"createTournamentForm"}, p.Forms())
	_, ok := p.Controller("registrationForm")
	assert.False(t, ok)

	c, ok := p.Controller("createTournamentForm")
	require.True(t, ok)
	out := <-c.Submit(context.Background())
	assert.True(t, out.OK())
	assert.Equal(t, "Tournament created successfully", doc.Node("message").Text())
	assert.True(t, p.Messages.RedirectPending())
}

func TestTeardown_CancelsRedirect(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(createMarkup))
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC))
	win := dom.NewRecorder(true)

	p, err := Bootstrap(doc, win, Options{BaseURL: okServer(t).URL, Clock: clock})
	require.NoError(t, err)

	c, _ := p.Controller("createTournamentForm")
	<-c.Submit(context.Background())
	p.Teardown()

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, win.Navigations())
}

func TestBootstrap_RequiresBaseURL(t *testing.T) {
	_, err := Bootstrap(dom.NewDocument(), dom.NewRecorder(true), Options{})
	assert.Error(t, err)

	_, err = Bootstrap(nil, dom.NewRecorder(true), Options{BaseURL: "http://x.test"})
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Service:   config.Service{BaseURL: "http://tt.test", Timeout: 3 * time.Second},
		Messaging: config.Messaging{RedirectDelay: time.Second, GenericError: "Try later"},
	}
	opts := FromConfig(cfg, nil, nil)
	assert.Equal(t, "http://tt.test", opts.BaseURL)
	require.NotNil(t, opts.HTTPClient)
	assert.Equal(t, 3*time.Second, opts.HTTPClient.Timeout)
	assert.Equal(t, time.Second, opts.RedirectDelay)
	assert.Equal(t, "Try later", opts.GenericError)

	cfg.Service.Timeout = 0
	assert.Nil(t, FromConfig(cfg, nil, nil).HTTPClient)
}
