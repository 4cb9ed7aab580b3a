// Package integration runs the service against real dependencies started
// in Docker.
package integration

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
)

const (
	postgresImage = "postgres"
	postgresTag   = "16"
	maxWait       = 2 * time.Minute
)

type PostgresConfig struct {
	User     string
	Password string
	Database string

	// HostPort is populated after the container is started.
	HostPort string
}

func (c *PostgresConfig) ConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.HostPort,
		Path:     c.Database,
		RawQuery: "sslmode=disable",
	}

	return u.String()
}

func NewPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		User:     "synthproof",
		Password: "supersecret",
		Database: "synthproof",
	}
}

// StartPostgres starts a throwaway PostgreSQL container, waits until it
// accepts connections and purges it when the test ends.
func StartPostgres(t *testing.T, log zerolog.Logger, cfg *PostgresConfig) *PostgresConfig {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("connecting to Docker: %s", err)
	}

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("pinging Docker: %s", err)
	}

	pool.MaxWait = maxWait

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_PASSWORD=" + cfg.Password,
			"POSTGRES_USER=" + cfg.User,
			"POSTGRES_DB=" + cfg.Database,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("starting postgres container: %s", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			log.Warn().Err(err).Msg("purging postgres container")
		}
	})

	cfg.HostPort = resource.GetHostPort("5432/tcp")
	log.Info().Str("host_port", cfg.HostPort).Msg("postgres container started")

	err = pool.Retry(func() error {
		db, err := sql.Open("postgres", cfg.ConnectionURL())
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Ping()
	})
	if err != nil {
		t.Fatalf("waiting for postgres: %s", err)
	}

	return cfg
}

// Client sends JSON requests to a test server.
type Client struct {
	t      *testing.T
	server *httptest.Server
}

func NewClient(t *testing.T, server *httptest.Server) *Client {
	return &Client{t: t, server: server}
}

func (c *Client) Get(path string, query ...string) *Response {
	c.t.Helper()

	return c.do(http.MethodGet, path, nil, query...)
}

func (c *Client) Post(path string, body any, query ...string) *Response {
	c.t.Helper()

	return c.do(http.MethodPost, path, body, query...)
}

func (c *Client) do(method, path string, body any, query ...string) *Response {
	c.t.Helper()

	if len(query)%2 != 0 {
		c.t.Fatalf("query parameters must come in pairs, got %d values", len(query))
	}

	u, err := url.Parse(c.server.URL + path)
	if err != nil {
		c.t.Fatalf("parsing url: %s", err)
	}

	q := u.Query()
	for i := 0; i < len(query); i += 2 {
		q.Set(query[i], query[i+1])
	}

	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshaling request: %s", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u.String(), reader)
	if err != nil {
		c.t.Fatalf("creating request: %s", err)
	}

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.server.Client().Do(req)
	if err != nil {
		c.t.Fatalf("sending request: %s", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading response: %s", err)
	}

	return &Response{t: c.t, resp: resp, body: data}
}

type Response struct {
	t    *testing.T
	resp *http.Response
	body []byte
}

// Status fails the test, with a dump of the response, unless the status
// code is code.
func (r *Response) Status(code int) *Response {
	r.t.Helper()

	if r.resp.StatusCode != code {
		dump, _ := httputil.DumpResponse(r.resp, false)
		r.t.Errorf("expected status %d, got %d\n%s%s", code, r.resp.StatusCode, dump, r.body)
	}

	return r
}

func (r *Response) Header(key string) string {
	return r.resp.Header.Get(key)
}

func (r *Response) Body() []byte {
	return r.body
}

func (r *Response) Decode(into any) {
	r.t.Helper()

	if err := json.Unmarshal(r.body, into); err != nil {
		r.t.Fatalf("decoding response: %s", err)
	}
}

// Expect decodes the response into a fresh value of the same type as expect
// and diffs the two.
func (r *Response) Expect(expect, into any, opts ...cmp.Option) {
	r.t.Helper()

	r.Decode(into)

	if diff := cmp.Diff(expect, into, opts...); diff != "" {
		r.t.Errorf("unexpected response (-want +got):\n%s", diff)
	}
}

func NewRouter(log zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		log.Error().Str("method", r.Method).Str("path", r.URL.Path).Msg("no route")
		http.Error(w, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path), http.StatusNotFound)
	})

	return r
}
