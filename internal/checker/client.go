package checker

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
	"md-link-check/internal/config"
)

// ErrTooManyRedirects is returned by the client once a probe follows more
// redirects than allowed.
var ErrTooManyRedirects = errors.New("too many redirects")

type ClientConfig struct {
	Timeout         time.Duration
	MaxRedirects    int
	MaxConnsPerHost int
}

// NewHTTPClient builds the client shared by every probe of a run. The
// caller owns it and should call CloseIdleConnections when the run ends.
func NewHTTPClient(cfg ClientConfig) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.Timeout,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	maxRedirects := cfg.MaxRedirects
	return &http.Client{
		Transport: transport,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}, nil
}

func clientConfigFrom(cfg *config.Config) ClientConfig {
	return ClientConfig{
		Timeout:         cfg.Workers.Timeout.Std(),
		MaxRedirects:    cfg.Workers.MaxRedirects,
		MaxConnsPerHost: cfg.Workers.Count,
	}
}
