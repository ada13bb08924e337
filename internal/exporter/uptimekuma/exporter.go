package uptimekuma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	. "md-link-check/internal/domain"
)

const pushTimeout = 10 * time.Second

var validate = validator.New()

type Config struct {
	MonitorURL string `json:"monitor_url" validate:"required,url"`
}

// UptimeKuma reports a run to an Uptime Kuma push monitor.
type UptimeKuma struct {
	monitorURL string
	client     *http.Client
}

func New(rawConfig json.RawMessage) (Exporter, error) {
	var cfg Config
	if err := json.Unmarshal(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("invalid uptime kuma config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid uptime kuma config: %w", err)
	}

	return NewWithURL(cfg.MonitorURL), nil
}

func NewWithURL(monitorURL string) Exporter {
	return &UptimeKuma{
		monitorURL: monitorURL,
		client:     &http.Client{Timeout: pushTimeout},
	}
}

// Export marks the monitor up when every link was valid and down with the
// number of invalid links otherwise.
func (u *UptimeKuma) Export(ctx context.Context, summary RunSummary) error {
	target, err := url.Parse(u.monitorURL)
	if err != nil {
		return fmt.Errorf("parse monitor url: %w", err)
	}

	q := target.Query()
	if summary.OK() {
		q.Set("status", "up")
		q.Set("msg", "OK")
	} else {
		q.Set("status", "down")
		q.Set("msg", message(summary))
	}
	q.Set("ping", strconv.FormatInt(summary.Duration.Milliseconds(), 10))
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return err
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push monitor answered %s", resp.Status)
	}
	return nil
}

func message(s RunSummary) string {
	if s.Unchecked == 0 {
		return fmt.Sprintf("%d invalid links", s.Invalid)
	}
	return fmt.Sprintf("%d invalid links, %d unchecked", s.Invalid, s.Unchecked)
}
