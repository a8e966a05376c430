package source

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"keyword-seasonality/pkg/timeseries"
)

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	r := newRetrier(3, time.Millisecond)

	calls := 0
	err := r.execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &statusError{code: 502}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetrier_DoesNotRetryClientErrors(t *testing.T) {
	r := newRetrier(3, time.Millisecond)

	calls := 0
	err := r.execute(context.Background(), func() error {
		calls++
		return &statusError{code: 404}
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for 404, got %d", calls)
	}
}

func TestRetrier_GivesUp(t *testing.T) {
	r := newRetrier(2, time.Millisecond)

	calls := 0
	err := r.execute(context.Background(), func() error {
		calls++
		return errors.New("connection reset")
	})

	if err == nil || err.Error() != "connection reset" {
		t.Fatalf("Expected last error, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	r := newRetrier(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.execute(ctx, func() error {
		calls++
		cancel()
		return &statusError{code: 503}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var hits int32
	client := serveInMemory(t, func(ctx *fasthttp.RequestCtx) {
		if atomic.AddInt32(&hits, 1) == 1 {
			ctx.SetStatusCode(fasthttp.StatusBadGateway)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[{"keyword":"ski","time_series":[10,100]}]`)
	})

	src := NewHTTPSource(HTTPConfig{
		URL:        "http://keywords.test/export",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, Options{}).WithClient(client)

	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected success after retry, got: %v", err)
	}
	if len(records) != 1 || records[0].Keyword != "ski" {
		t.Errorf("Unexpected records: %+v", records)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("Expected 2 requests, got %d", got)
	}
}

func TestHTTPSource_NoRetryOnUnauthorized(t *testing.T) {
	var hits int32
	client := serveInMemory(t, func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&hits, 1)
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	})

	src := NewHTTPSource(HTTPConfig{
		URL:        "http://keywords.test/export",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}, Options{}).WithClient(client)

	_, err := src.Load(context.Background())

	var readErr *timeseries.SourceReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Expected SourceReadError, got: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("Expected a single request, got %d", got)
	}
}
