// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package fetch retrieves page titles and checks whether bookmarked links
// still resolve.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/toeirei/pybookmarks/buildvars"
	"golang.org/x/net/html"
	"golang.org/x/net/http2"
)

// MaxBodySize caps how much of a page is read while looking for its title.
const MaxBodySize = 1 << 20

// Page is the result of fetching a url.
type Page struct {
	URL    string
	Status int
	Title  string
	// Proto is the protocol of the response, e.g. "HTTP/2.0".
	Proto string
}

// Fetcher loads a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// StatusError reports an HTTP error status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Title fetches url with f and returns its title.
func Title(ctx context.Context, f Fetcher, url string) (string, error) {
	p, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return p.Title, nil
}

// UserAgent is sent with every request.
func UserAgent() string {
	return "pybookmarks/" + buildvars.VersionOrDefault("dev")
}

// HTTPFetcher fetches pages with a plain HTTP client.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher whose transport speaks HTTP/2 where the
// server supports it.
func NewHTTPFetcher(timeout time.Duration) (*HTTPFetcher, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}
	return &HTTPFetcher{
		Client:    &http.Client{Transport: tr, Timeout: timeout},
		UserAgent: UserAgent(),
	}, nil
}

// Fetch requests url and extracts the <title> of HTML responses. Error
// statuses are returned as *StatusError together with the page.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{URL: url}, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	resp, err := f.Client.Do(req)
	if err != nil {
		return Page{URL: url}, err
	}
	defer func() { _ = resp.Body.Close() }()

	page := Page{URL: resp.Request.URL.String(), Status: resp.StatusCode, Proto: resp.Proto}
	if resp.StatusCode >= 400 {
		return page, &StatusError{Code: resp.StatusCode}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return page, nil
	}
	title, err := ExtractTitle(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return page, err
	}
	page.Title = title
	return page, nil
}

// ExtractTitle returns the text of the first <title> element in r. Pages
// without a title yield an empty string.
func ExtractTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return strings.Join(strings.Fields(b.String()), " "), nil
			}
			return "", z.Err()
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "title":
				inTitle = true
			case "body":
				if b.Len() == 0 {
					return "", nil
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				return strings.Join(strings.Fields(b.String()), " "), nil
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		}
	}
}
