package workdays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/imrishuroy/go-repair-sla/internal/dates"
	"github.com/imrishuroy/go-repair-sla/internal/metrics"
)

// codeOK is the success value of the service's "code" field.
const codeOK = 200

// DefaultTimeout bounds each remote query.
const DefaultTimeout = 10 * time.Second

// apiResponse is the workday service envelope.
type apiResponse struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

// ClientConfig groups the remote client settings.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64 // <= 0 disables limiting
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client queries the remote workday service. It implements Source.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// NewClient builds a Client. The free tier of the public service allows one request per second.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		http:    hc,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// Lookup asks the service for the workdays in [start, end) at day granularity.
func (c *Client) Lookup(ctx context.Context, start, end time.Time) Lookup {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	began := time.Now()
	l := c.fetch(ctx, dates.Day(start), dates.Day(end))

	result := "ok"
	if !l.OK() {
		result = "error"
	}
	metrics.RemoteLatency.WithLabelValues(result).Observe(time.Since(began).Seconds())
	return l
}

func (c *Client) fetch(ctx context.Context, startDay, endDay string) Lookup {
	if err := c.limiter.Wait(ctx); err != nil {
		return failed(fmt.Errorf("%w: rate limit wait: %v", ErrRemoteLookup, err))
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return failed(fmt.Errorf("%w: bad url: %v", ErrRemoteLookup, err))
	}
	q := u.Query()
	q.Set("startDate", startDay)
	q.Set("endDate", endDay)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return failed(fmt.Errorf("%w: build request: %v", ErrRemoteLookup, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", ErrRemoteLookup, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return failed(fmt.Errorf("%w: http status %d", ErrRemoteLookup, resp.StatusCode))
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return failed(fmt.Errorf("%w: decode response: %v", ErrRemoteLookup, err))
	}
	if body.Code != codeOK {
		msg := body.Msg
		if msg == "" {
			msg = "unknown error"
		}
		return failed(fmt.Errorf("%w: service code %d: %s", ErrRemoteLookup, body.Code, msg))
	}

	days, err := parseDays(body.Data)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", ErrRemoteLookup, err))
	}

	c.log.WithFields(logrus.Fields{"start": startDay, "end": endDay, "days": days}).Debug("workday service answered")
	return found(days)
}

// parseDays accepts the count as a JSON number or a numeric string.
func parseDays(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing data field")
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative workday count %d", n)
		}
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("data is not a count: %s", string(raw))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("data is not a count: %q", s)
	}
	return n, nil
}
