package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)

	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("third request should be blocked")
	}
}

func TestIPRateLimiter_IPsIndependent(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 1)

	l.Allow("1.2.3.4")
	if l.Allow("1.2.3.4") {
		t.Fatal("first IP should be exhausted")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatal("second IP should have its own bucket")
	}
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	l.Allow("1.2.3.4")
	l.Cleanup(0)

	l.mu.Lock()
	n := len(l.visitors)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("idle visitors should be dropped, %d left", n)
	}
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	e := echo.New()
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1)
	h := RateLimitMiddleware(limiter)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func() (int, error) {
		req := httptest.NewRequest(http.MethodPost, "/like/abc", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := h(c)
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				return he.Code, nil
			}
			return 0, err
		}
		return rec.Code, nil
	}

	code, err := call()
	if err != nil || code != http.StatusOK {
		t.Fatalf("first request should pass, got %d %v", code, err)
	}
	code, err = call()
	if err != nil || code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d %v", code, err)
	}

	// A slow refill rate means the bucket is still empty shortly after.
	time.Sleep(10 * time.Millisecond)
	code, _ = call()
	if code != http.StatusTooManyRequests {
		t.Fatalf("bucket should still be empty, got %d", code)
	}
}
