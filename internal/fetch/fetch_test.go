// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package fetch

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<html><head><title>\n  Hello &amp;\n World </title></head><body>x</body></html>")
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"title":"nope"}`)
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprintf(w, "<title>%s</title>", r.UserAgent())
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/page", http.StatusFound)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	return httptest.NewServer(mux)
}

func TestHTTPFetcher(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	f, err := NewHTTPFetcher(5 * time.Second)
	if err != nil {
		t.Fatalf("NewHTTPFetcher failed: %v", err)
	}
	ctx := context.Background()

	p, err := f.Fetch(ctx, srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if p.Title != "Hello & World" || p.Status != http.StatusOK {
		t.Fatalf("unexpected page %+v", p)
	}

	p, err = f.Fetch(ctx, srv.URL+"/redirect")
	if err != nil || !strings.HasSuffix(p.URL, "/page") || p.Title != "Hello & World" {
		t.Fatalf("redirect not followed: %+v, %v", p, err)
	}

	p, err = f.Fetch(ctx, srv.URL+"/json")
	if err != nil || p.Title != "" {
		t.Fatalf("non-html should have no title: %+v, %v", p, err)
	}

	title, err := Title(ctx, f, srv.URL+"/ua")
	if err != nil || !strings.HasPrefix(title, "pybookmarks/") {
		t.Fatalf("unexpected user agent title %q, %v", title, err)
	}

	p, err = f.Fetch(ctx, srv.URL+"/gone")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusGone || p.Status != http.StatusGone {
		t.Fatalf("expected StatusError 410, got %+v, %v", p, err)
	}
}

func TestHTTPFetcher_HTTP2(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<title>h2</title>")
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	f, err := NewHTTPFetcher(5 * time.Second)
	if err != nil {
		t.Fatalf("NewHTTPFetcher failed: %v", err)
	}
	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	f.Client.Transport.(*http.Transport).TLSClientConfig.RootCAs = pool

	p, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if p.Proto != "HTTP/2.0" || p.Title != "h2" {
		t.Fatalf("expected HTTP/2 page, got %+v", p)
	}
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<title>Simple</title>", "Simple"},
		{"<html><head><TITLE>Upper</TITLE></head></html>", "Upper"},
		{"<html><body><title>late</title></body></html>", ""},
		{"no markup at all", ""},
		{"<title>a\n\tb</title>", "a b"},
	}
	for _, c := range cases {
		got, err := ExtractTitle(strings.NewReader(c.in))
		if err != nil {
			t.Fatalf("ExtractTitle(%q) failed: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ExtractTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

type fakeFetcher struct {
	inFlight, maxInFlight atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	if strings.Contains(url, "bad") {
		return Page{URL: url, Status: 404}, &StatusError{Code: 404}
	}
	return Page{URL: url, Status: 200, Title: "t:" + url}, nil
}

func TestCheck(t *testing.T) {
	f := &fakeFetcher{}
	urls := []string{"a", "bad1", "c", "d", "bad2", "f", "g", "h"}
	res := Check(context.Background(), f, urls, 3)
	if len(res) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(res))
	}
	for i, r := range res {
		if r.URL != urls[i] {
			t.Fatalf("result %d out of order: %q", i, r.URL)
		}
		bad := strings.HasPrefix(r.URL, "bad")
		if r.OK() == bad {
			t.Fatalf("unexpected outcome for %q: %+v", r.URL, r)
		}
	}
	if m := f.maxInFlight.Load(); m > 3 {
		t.Fatalf("concurrency limit exceeded: %d", m)
	}

	if res := Check(context.Background(), f, nil, 0); len(res) != 0 {
		t.Fatalf("expected no results, got %+v", res)
	}
}

func TestBrowserFetcher(t *testing.T) {
	var found bool
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found || testing.Short() {
		t.Skip("no chrome binary available")
	}
	srv := newTestServer()
	defer srv.Close()

	p, err := NewBrowserFetcher(30*time.Second).Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if p.Title != "Hello & World" || p.Status != http.StatusOK {
		t.Fatalf("unexpected page %+v", p)
	}
}
