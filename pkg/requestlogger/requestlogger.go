package requestlogger

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/mileusna/useragent"
	"github.com/rs/zerolog"
)

// Middleware writes one access log line per request. Requests for any of
// the paths in pathFilters are served without logging.
func Middleware(logger zerolog.Logger, pathFilters ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			for _, filter := range pathFilters {
				if filter == r.URL.Path {
					next.ServeHTTP(w, r)
					return
				}
			}

			requestID := middleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = "n/a"
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				t2 := time.Now()

				bytesIn, err := strconv.Atoi(r.Header.Get("Content-Length"))
				if err != nil {
					bytesIn = 0
				}

				logger.Info().Timestamp().
					Str("request_id", requestID).
					Str("request", fmt.Sprintf("%s %s (response_code: %d)", r.Method, r.URL.Path, ww.Status())).
					Str("remote_ip", r.RemoteAddr).
					Str("browser", browser(r.Header.Get("User-Agent"))).
					Float64("latency_ms", float64(t2.Sub(t1).Nanoseconds())/1000000.0).
					Int("bytes_in", bytesIn).
					Int("bytes_out", ww.BytesWritten()).
					Msg("incoming_request")
			}()

			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

func browser(header string) string {
	if header == "" {
		return "unknown"
	}

	ua := useragent.Parse(header)

	switch {
	case ua.Bot:
		return "bot"
	case ua.Name == "":
		return "unknown"
	case ua.OS == "":
		return ua.Name
	}

	return fmt.Sprintf("%s (%s)", ua.Name, ua.OS)
}
