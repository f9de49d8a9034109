// internal/submit/pipeline.go
//
// Submission pipeline: one JSON POST, one classified outcome.
//
// Context
//   Every mutating endpoint of the tournament service answers with the same
//   envelope, {"success": bool, "message": string?}.  The pipeline posts a
//   payload, decodes that envelope, and classifies the round trip:
//
//     •  Success           – 2xx status AND success=true.
//     •  BusinessFailure   – envelope decoded, but success=false or the
//                            status is outside 2xx.
//     •  TransportFailure  – the request failed or the body is not an
//                            envelope.
//
//   The pipeline never retries and holds no lock, so forms may submit
//   concurrently.  No client timeout is configured unless the caller asks
//   for one; a hung request simply never resolves.
//
//------------------------------------------------------------------------------

package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// ErrMalformedEnvelope marks a response body that is not a JSON envelope.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// -----------------------------------------------------------------------------
// Outcome model
// -----------------------------------------------------------------------------

// Kind classifies one submission attempt.
type Kind int

const (
	Success Kind = iota
	BusinessFailure
	TransportFailure
	ValidationFailure // blocked locally; never reaches the pipeline
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case BusinessFailure:
		return "business_failure"
	case TransportFailure:
		return "transport_failure"
	case ValidationFailure:
		return "validation_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Envelope is the response contract of every mutating endpoint.  Success is
// authoritative; Message is advisory and may be absent.
type Envelope struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

// Outcome is the typed result of one submission.
type Outcome struct {
	Kind     Kind
	Status   int      // HTTP status; 0 when no response arrived
	Envelope Envelope // zero unless a body decoded
	Err      error    // transport detail, for logs only
}

// OK reports a successful submission.
func (o Outcome) OK() bool { return o.Kind == Success }

// MessageOr returns the service message when present, else fallback.
func (o Outcome) MessageOr(fallback string) string {
	if o.Envelope.Message != nil && *o.Envelope.Message != "" {
		return *o.Envelope.Message
	}
	return fallback
}

// Classify applies the outcome rule to a decoded response.
func Classify(status int, env Envelope) Kind {
	if status >= 200 && status < 300 && env.Success {
		return Success
	}
	return BusinessFailure
}

// -----------------------------------------------------------------------------
// Pipeline
// -----------------------------------------------------------------------------

// Pipeline posts payloads to the tournament service.
type Pipeline struct {
	base   *url.URL
	client *http.Client
	log    *zap.SugaredLogger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient replaces the default client (http.DefaultClient settings,
// no timeout).
func WithHTTPClient(c *http.Client) Option { return func(p *Pipeline) { p.client = c } }

// WithLogger attaches a logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(p *Pipeline) { p.log = l } }

// New returns a pipeline resolving endpoints against baseURL.
func New(baseURL string, opts ...Option) (*Pipeline, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("submit: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("submit: parse base URL: %w", err)
	}
	p := &Pipeline{
		base:   u,
		client: &http.Client{},
		log:    zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Resolve turns an endpoint path into an absolute URL.
func (p *Pipeline) Resolve(endpoint string) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("submit: parse endpoint %q: %w", endpoint, err)
	}
	return p.base.ResolveReference(ref).String(), nil
}

// Submit performs exactly one POST.  A nil payload sends no body but still
// declares JSON, matching the delete endpoint's contract.
func (p *Pipeline) Submit(ctx context.Context, endpoint string, payload any) Outcome {
	target, err := p.Resolve(endpoint)
	if err != nil {
		return Outcome{Kind: TransportFailure, Err: err}
	}

	body := io.Reader(http.NoBody)
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Outcome{Kind: TransportFailure, Err: fmt.Errorf("encode payload: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return Outcome{Kind: TransportFailure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Outcome{Kind: TransportFailure, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	env, err := decode(resp.Body)
	if err != nil {
		return Outcome{Kind: TransportFailure, Status: resp.StatusCode, Err: err}
	}

	out := Outcome{
		Kind:     Classify(resp.StatusCode, env),
		Status:   resp.StatusCode,
		Envelope: env,
	}
	p.log.Debugw("submission complete",
		"endpoint", endpoint, "status", out.Status, "outcome", out.Kind.String())
	return out
}

// Go runs Submit on its own goroutine.  The channel yields exactly one
// outcome and is then closed.
func (p *Pipeline) Go(ctx context.Context, endpoint string, payload any) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- p.Submit(ctx, endpoint, payload)
	}()
	return ch
}

// decode reads one envelope.  Anything other than a JSON object is
// malformed: a bare null or array carries no envelope at all.
func decode(r io.Reader) (Envelope, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Envelope{}, fmt.Errorf("read body: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, ErrMalformedEnvelope
	}
	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return env, nil
}
