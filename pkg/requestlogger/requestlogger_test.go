package requestlogger_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/navikt/synthproof/pkg/requestlogger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeWindows = "Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/59.0.3071.115 Safari/537.36"
	firefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0"
	googlebot     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

type accessLog struct {
	Level     string    `json:"level"`
	RequestID string    `json:"request_id"`
	Time      time.Time `json:"time"`
	RemoteIP  string    `json:"remote_ip"`
	BytesIn   int       `json:"bytes_in"`
	BytesOut  int       `json:"bytes_out"`
	Latency   float64   `json:"latency_ms"`
	Request   string    `json:"request"`
	Message   string    `json:"message"`
	Browser   string    `json:"browser"`
}

// serve runs one request through the middleware and returns what was logged.
func serve(t *testing.T, req *http.Request, withRequestID bool, status int, filters ...string) []byte {
	t.Helper()

	var buf bytes.Buffer

	var h http.Handler = requestlogger.Middleware(zerolog.New(&buf), filters...)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(http.StatusText(status)))
		}),
	)

	if withRequestID {
		h = middleware.RequestID(h)
	}

	h.ServeHTTP(httptest.NewRecorder(), req)

	return buf.Bytes()
}

func TestMiddleware(t *testing.T) {
	testCases := []struct {
		name      string
		method    string
		target    string
		body      string
		userAgent string
		status    int
		expect    accessLog
	}{
		{
			name:      "browser request",
			method:    http.MethodGet,
			target:    "/api/datasets/abc",
			userAgent: chromeWindows,
			status:    http.StatusOK,
			expect: accessLog{
				BytesOut: 2,
				Request:  "GET /api/datasets/abc (response_code: 200)",
				Browser:  "Chrome (Windows)",
			},
		},
		{
			name:      "request body is counted",
			method:    http.MethodPost,
			target:    "/api/generations",
			body:      `{"syntheticRows":5}`,
			userAgent: firefoxLinux,
			status:    http.StatusCreated,
			expect: accessLog{
				BytesIn:  19,
				BytesOut: 7,
				Request:  "POST /api/generations (response_code: 201)",
				Browser:  "Firefox (Linux)",
			},
		},
		{
			name:      "crawler",
			method:    http.MethodGet,
			target:    "/api/generations/abc",
			userAgent: googlebot,
			status:    http.StatusNotFound,
			expect: accessLog{
				BytesOut: 9,
				Request:  "GET /api/generations/abc (response_code: 404)",
				Browser:  "bot",
			},
		},
		{
			name:   "no user agent",
			method: http.MethodGet,
			target: "/api/datasets/abc",
			status: http.StatusOK,
			expect: accessLog{
				BytesOut: 2,
				Request:  "GET /api/datasets/abc (response_code: 200)",
				Browser:  "unknown",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "http://example.com"+tc.target, bytes.NewReader([]byte(tc.body)))
			if tc.userAgent != "" {
				req.Header.Set("User-Agent", tc.userAgent)
			}

			if tc.body != "" {
				req.Header.Set("Content-Length", strconv.Itoa(len(tc.body)))
			}

			got := accessLog{}
			require.NoError(t, json.Unmarshal(serve(t, req, true, tc.status), &got))

			tc.expect.Level = "info"
			tc.expect.Message = "incoming_request"
			tc.expect.RemoteIP = req.RemoteAddr

			diff := cmp.Diff(tc.expect, got, cmpopts.IgnoreFields(accessLog{}, "Time", "Latency", "RequestID"))
			assert.Empty(t, diff)
			assert.GreaterOrEqual(t, got.Latency, 0.0)
			assert.False(t, got.Time.After(time.Now()))
			assert.NotEqual(t, "n/a", got.RequestID)
		})
	}
}

func TestMiddlewareFilters(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/internal/isalive", nil)

	assert.Empty(t, serve(t, req, true, http.StatusOK, "/internal/isalive", "/internal/metrics"))
}

func TestMiddlewareWithoutRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/datasets/abc", nil)

	got := accessLog{}
	require.NoError(t, json.Unmarshal(serve(t, req, false, http.StatusOK), &got))
	assert.Equal(t, "n/a", got.RequestID)
}
