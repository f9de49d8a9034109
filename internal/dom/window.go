package dom

import "sync"

// Recorder is an in-memory Window.  It answers every Confirm with a fixed
// choice and records navigation, reloads, and dialogs for later inspection.
type Recorder struct {
	mu        sync.Mutex
	answer    bool
	navigated []string
	reloads   int
	alerts    []string
	confirms  []string

	// OnNavigate, when set, is called after a navigation is recorded.
	OnNavigate func(url string)
}

var _ Window = (*Recorder)(nil)

// NewRecorder returns a Recorder whose Confirm always returns answer.
func NewRecorder(answer bool) *Recorder { return &Recorder{answer: answer} }

func (r *Recorder) Navigate(url string) {
	r.mu.Lock()
	r.navigated = append(r.navigated, url)
	hook := r.OnNavigate
	r.mu.Unlock()
	if hook != nil {
		hook(url)
	}
}

func (r *Recorder) Reload() {
	r.mu.Lock()
	r.reloads++
	r.mu.Unlock()
}

func (r *Recorder) Confirm(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirms = append(r.confirms, msg)
	return r.answer
}

func (r *Recorder) Alert(msg string) {
	r.mu.Lock()
	r.alerts = append(r.alerts, msg)
	r.mu.Unlock()
}

// Navigations returns every URL passed to Navigate, oldest first.
func (r *Recorder) Navigations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navigated...)
}

// Reloads returns how many times Reload was called.
func (r *Recorder) Reloads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloads
}

// Alerts returns every alert message, oldest first.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// Confirms returns every confirmation prompt shown.
func (r *Recorder) Confirms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.confirms...)
}
