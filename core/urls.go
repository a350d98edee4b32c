package core

import (
	"fmt"
	"net/url"
	"strings"
)

// Tracking query parameters dropped during canonicalization.
var trackingParams = map[string]bool{
	"ref":      true,
	"fbclid":   true,
	"gclid":    true,
	"mc_cid":   true,
	"mc_eid":   true,
	"utm_ref":  true,
	"ncid":     true,
	"referrer": true,
}

// CanonicalURL normalizes a URL to the single comparable form used as the
// deduplication key basis.
//
// Normalization rules:
//   - scheme and host are lowercased; http is coerced to https
//   - default ports (:80, :443) are stripped
//   - the trailing slash is stripped
//   - tracking query parameters (utm_*, ref, fbclid, ...) are dropped
//   - the fragment is dropped
func CanonicalURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: missing scheme or host in %q", ErrInvalidURL, rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "http" {
		u.Scheme = "https"
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")
	u.Host = host

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""

	query := u.Query()
	for param := range query {
		lower := strings.ToLower(param)
		if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
			query.Del(param)
		}
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
