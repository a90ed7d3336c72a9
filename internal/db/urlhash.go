// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// schemes that must carry a host to be meaningful.
var hostSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ws": true, "wss": true}

var defaultPorts = map[string]string{"http": "80", "https": "443", "ftp": "21", "ws": "80", "wss": "443"}

// NormalizeURL returns the canonical form of raw used for duplicate detection:
// scheme and host are lower-cased, default ports dropped and an empty path on
// hierarchical URLs becomes "/". Query and fragment are preserved.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: %q has no scheme", ErrInvalidURL, raw)
	}
	if hostSchemes[u.Scheme] && u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	if u.Host != "" {
		host := strings.ToLower(u.Hostname())
		port := u.Port()
		if port == defaultPorts[u.Scheme] {
			port = ""
		}
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		if port != "" {
			host += ":" + port
		}
		u.Host = host
		if u.Path == "" && u.Opaque == "" {
			u.Path = "/"
		}
	}
	return u.String(), nil
}

// URLHash returns the hex BLAKE2b-256 digest of the normalized url. The hash
// carries the unique index because MySQL cannot index TEXT columns.
func URLHash(normalized string) string {
	sum := blake2b.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// normalizeAndHash is the combination used by every write path.
func normalizeAndHash(raw string) (string, string, error) {
	n, err := NormalizeURL(raw)
	if err != nil {
		return "", "", err
	}
	return n, URLHash(n), nil
}
