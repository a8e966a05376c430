package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/timeseries"
)

// HTTPConfig holds settings for fetching keyword data over HTTP
type HTTPConfig struct {
	URL        string        `mapstructure:"url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// HTTPSource downloads keyword records as CSV or as a JSON array
type HTTPSource struct {
	config  HTTPConfig
	options Options
	client  *fasthttp.Client
	retry   *retrier
	log     *logger.Logger
}

// NewHTTPSource creates a source fetching config.URL
func NewHTTPSource(config HTTPConfig, options Options) *HTTPSource {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &HTTPSource{
		config:  config,
		options: options.withDefaults(),
		client: &fasthttp.Client{
			Name:                "keyword-seasonality/1.0",
			MaxConnsPerHost:     4,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxResponseBodySize: 256 << 20,
		},
		retry: newRetrier(config.MaxRetries, config.RetryDelay),
		log:   logger.GetLogger().Component("http_source"),
	}
}

// WithClient replaces the underlying fasthttp client
func (s *HTTPSource) WithClient(client *fasthttp.Client) *HTTPSource {
	s.client = client
	return s
}

func (s *HTTPSource) Name() string {
	return logger.MaskURL(s.config.URL)
}

// Load downloads the records, retrying transport failures and 5xx/429
// responses, and parses the body according to its content type
func (s *HTTPSource) Load(ctx context.Context) ([]timeseries.KeywordRecord, error) {
	start := time.Now()

	var body []byte
	var contentType string
	err := s.retry.execute(ctx, func() error {
		var fetchErr error
		body, contentType, fetchErr = s.fetch(ctx)
		if fetchErr != nil {
			s.log.WithError(fetchErr).WithField("source", s.Name()).Debug("Download attempt failed")
		}
		return fetchErr
	})
	if err != nil {
		return nil, &timeseries.SourceReadError{Source: s.Name(), Err: err}
	}

	var records []timeseries.KeywordRecord
	if isJSON(contentType, body) {
		records, err = decodeJSONRecords(body)
	} else {
		records, err = ReadRecords(bytes.NewReader(body), s.options)
	}
	if err != nil {
		return nil, &timeseries.SourceReadError{Source: s.Name(), Err: err}
	}

	s.log.WithFields(map[string]interface{}{
		"source":      s.Name(),
		"records":     len(records),
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Keyword records downloaded")

	return records, nil
}

// fetch performs one GET and returns a copy of the body
func (s *HTTPSource) fetch(ctx context.Context) ([]byte, string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.config.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv, application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	deadline := time.Now().Add(s.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, "", &statusError{code: resp.StatusCode()}
	}

	// resp is released on return
	body := append([]byte(nil), resp.Body()...)
	return body, string(resp.Header.ContentType()), nil
}

func isJSON(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "json") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// wireRecord accepts time_series either as the raw delimited string or as
// a JSON array of numbers
type wireRecord struct {
	Keyword    string          `json:"keyword"`
	TimeSeries json.RawMessage `json:"time_series"`
}

func decodeJSONRecords(body []byte) ([]timeseries.KeywordRecord, error) {
	var wire []wireRecord
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode JSON records: %w", err)
	}

	records := make([]timeseries.KeywordRecord, 0, len(wire))
	for i, w := range wire {
		raw, err := rawSeries(w.TimeSeries)
		if err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, w.Keyword, err)
		}
		records = append(records, timeseries.KeywordRecord{
			Keyword:       w.Keyword,
			RawTimeSeries: raw,
		})
	}
	return records, nil
}

func rawSeries(msg json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var values []json.Number
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return "", fmt.Errorf("time_series must be a string or an array of numbers: %w", err)
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ","), nil
}

// FormatSeries renders values in the delimited form accepted by Normalize
func FormatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
