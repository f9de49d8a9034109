package page

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/grahamford77/table-tennis/internal/dom"
)

// Fetch downloads one page of the tournament service and parses it into an
// in-memory document.  Redirects are followed, so an edit page for an
// unknown tournament yields the list page.
func Fetch(ctx context.Context, client *http.Client, baseURL, path string) (*dom.Memory, error) {
	if client == nil {
		client = http.DefaultClient
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("page: parse base URL: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("page: parse path %q: %w", path, err)
	}
	target := base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page: fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page: fetch %s: status %d", target, resp.StatusCode)
	}

	doc, err := dom.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("page: parse %s: %w", target, err)
	}
	return doc, nil
}
