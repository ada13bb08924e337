package link

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"md-link-check/internal/domain"
)

var (
	ErrMalformed         = errors.New("malformed url")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// Parse turns a link into an absolute http(s) address that can be probed.
// Links that do not parse, lack a scheme or host, or use another scheme
// are rejected without touching the network.
func Parse(link domain.Link) (*url.URL, error) {
	raw := string(link)
	if strings.TrimSpace(raw) != raw || raw == "" {
		return nil, fmt.Errorf("%w: %q has surrounding whitespace or is empty", ErrMalformed, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: missing scheme in %q", ErrMalformed, raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		if u.Host != "" || u.Opaque != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
		}
		return nil, fmt.Errorf("%w: missing host in %q", ErrMalformed, raw)
	}

	if u.Host == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrMalformed, raw)
	}

	return u, nil
}

// Reason maps a Parse error onto the verdict taxonomy.
func Reason(err error) domain.Reason {
	switch {
	case err == nil:
		return domain.ReasonNone
	case errors.Is(err, ErrUnsupportedScheme):
		return domain.ReasonUnsupportedScheme
	default:
		return domain.ReasonMalformedURL
	}
}
