package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"md-link-check/internal/domain"
	"md-link-check/internal/link"
)

// maxBodyRead caps how much of a GET fallback body is drained so the
// connection can be reused.
const maxBodyRead = 64 << 10

type Options struct {
	Timeout   time.Duration
	UserAgent string
}

type httpChecker struct {
	client    *http.Client
	limiter   Limiter
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

// New returns a Checker probing links with client. The client is borrowed,
// closing it is up to the caller.
func New(client *http.Client, limiter Limiter, opts Options, logger *zap.Logger) Checker {
	if limiter == nil {
		limiter = noLimit{}
	}
	return &httpChecker{
		client:    client,
		limiter:   limiter,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		logger:    logger.With(zap.String("component", "checker")),
	}
}

func (c *httpChecker) Check(ctx context.Context, l domain.Link) domain.Verdict {
	start := time.Now()
	v := c.check(ctx, l)
	v.Elapsed = time.Since(start)

	c.logger.Debug("link checked",
		zap.String("link", string(l)),
		zap.String("outcome", string(v.Outcome)),
		zap.String("detail", v.Detail()),
		zap.Duration("elapsed", v.Elapsed))
	return v
}

func (c *httpChecker) check(ctx context.Context, l domain.Link) domain.Verdict {
	u, err := link.Parse(l)
	if err != nil {
		return domain.Invalid(l, link.Reason(err), err)
	}

	if err := c.limiter.Wait(ctx, u.Hostname()); err != nil {
		return domain.Unchecked(l, err)
	}

	method := http.MethodHead
	status, err := c.probe(ctx, u, method)
	if err == nil && headRejected(status) {
		method = http.MethodGet
		status, err = c.probe(ctx, u, method)
	}

	if err != nil {
		v := c.classify(ctx, l, &ProbeError{Method: method, Link: l, Err: err})
		v.Method = method
		return v
	}

	var v domain.Verdict
	if status >= 200 && status <= 299 {
		v = domain.Valid(l, status)
	} else {
		v = domain.InvalidStatus(l, status)
	}
	v.Method = method
	return v
}

// probe sends one request under its own timeout and returns the final
// status after redirects.
func (c *httpChecker) probe(ctx context.Context, u *url.URL, method string) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, u.String(), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if method == http.MethodGet {
		_, _ = io.CopyN(io.Discard, resp.Body, maxBodyRead)
	}

	return resp.StatusCode, nil
}

// headRejected reports statuses that mean the server does not support
// HEAD rather than that the resource is missing.
func headRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}

func (c *httpChecker) classify(ctx context.Context, l domain.Link, err error) domain.Verdict {
	if ctx.Err() != nil {
		return domain.Unchecked(l, err)
	}
	return domain.Invalid(l, Classify(err), err)
}

// Classify maps a transport error onto the verdict taxonomy.
func Classify(err error) domain.Reason {
	if err == nil {
		return domain.ReasonNone
	}

	if errors.Is(err, ErrTooManyRedirects) {
		return domain.ReasonTooManyRedirects
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ReasonTimeout
	}

	// DNS failures, refused or reset connections, TLS and certificate
	// errors, unexpected EOF.
	return domain.ReasonConnectionError
}
