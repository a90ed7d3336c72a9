// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher loads pages in headless Chrome so that titles set by
// scripts are seen. It needs a Chrome or Chromium binary on the system.
type BrowserFetcher struct {
	Timeout time.Duration
	// ExecPath overrides the browser binary; empty uses chromedp's lookup.
	ExecPath string
}

// NewBrowserFetcher returns a BrowserFetcher with the given per page timeout.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{Timeout: timeout}
}

func (f *BrowserFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent()),
	)
	if f.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.ExecPath))
	}
	return opts
}

// Fetch navigates to url and reads the document title and the status of the
// main document response.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, f.Timeout)
		defer cancel()
	}

	var (
		mu     sync.Mutex
		status int
	)
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			mu.Lock()
			if status == 0 {
				status = int(e.Response.Status)
			}
			mu.Unlock()
		}
	})

	page := Page{URL: url}
	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Title(&page.Title),
		chromedp.Location(&page.URL),
	)
	mu.Lock()
	page.Status = status
	mu.Unlock()
	if err != nil {
		return page, err
	}
	if page.Status >= 400 {
		return page, &StatusError{Code: page.Status}
	}
	return page, nil
}
