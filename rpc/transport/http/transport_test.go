package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler remembers the last request and answers with a fixed response.
type recordingHandler struct {
	mu   sync.Mutex
	last transport.Request
	resp transport.Response
}

func (h *recordingHandler) handle(req transport.Request) transport.Response {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = req
	return h.resp
}

func (h *recordingHandler) lastRequest() transport.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func TestRouting(t *testing.T) {
	h := &recordingHandler{resp: transport.Response{Status: http.StatusOK, Body: []byte(`{}`)}}
	srv := httptest.NewServer(NewHttpHandler(h.handle, false))
	defer srv.Close()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   transport.Request
	}{
		{
			name:   "get record",
			method: http.MethodGet,
			path:   "/users/1",
			want:   transport.Request{Method: http.MethodGet, Entity: "users", ID: "1"},
		},
		{
			name:   "get with action and query",
			method: http.MethodGet,
			path:   "/users/1/visits?country=Chile&toDistance=10",
			want: transport.Request{Method: http.MethodGet, Entity: "users", ID: "1", Action: "visits",
				Query: url.Values{"country": {"Chile"}, "toDistance": {"10"}}},
		},
		{
			name:   "post new",
			method: http.MethodPost,
			path:   "/visits/new?query_id=3",
			body:   `{"id":1}`,
			want: transport.Request{Method: http.MethodPost, Entity: "visits", ID: "new",
				Query: url.Values{"query_id": {"3"}}, Body: []byte(`{"id":1}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

			got := h.lastRequest()
			if len(got.Query) == 0 {
				got.Query = nil
			}
			if len(got.Body) == 0 {
				got.Body = nil
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnroutedRequests(t *testing.T) {
	h := &recordingHandler{resp: transport.Response{Status: http.StatusOK}}
	srv := httptest.NewServer(NewHttpHandler(h.handle, false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/users/1/visits/extra")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/users/1/visits", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	h := &recordingHandler{resp: transport.Response{Status: http.StatusNotFound}}
	srv := httptest.NewServer(NewHttpHandler(h.handle, false))
	defer srv.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/users/42")
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `travels_http_requests_total{route="GET /{entity}/{id}",status="404"} 3`)
	assert.Contains(t, string(body), `travels_http_request_duration_seconds_count{route="GET /{entity}/{id}",status="404"} 3`)
}

func TestRequestIDWithLogging(t *testing.T) {
	h := &recordingHandler{resp: transport.Response{Status: http.StatusOK, Body: []byte(`{}`)}}
	srv := httptest.NewServer(NewHttpHandler(h.handle, true))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/locations/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
}

func TestClientTransport(t *testing.T) {
	h := &recordingHandler{resp: transport.Response{Status: http.StatusBadRequest}}
	srv := httptest.NewServer(NewHttpHandler(h.handle, false))
	defer srv.Close()

	c := NewHttpClientTransport()
	require.NoError(t, c.Connect(common.ClientConfig{Endpoints: []string{srv.URL}, TimeoutSecond: 2, RetryCount: 2}))
	defer c.Close()

	req := transport.Request{
		Method: http.MethodGet,
		Entity: "locations",
		ID:     "7",
		Action: "avg",
		Query:  url.Values{"gender": {"x"}},
	}
	resp, err := c.Send(req)
	require.NoError(t, err, "error statuses are responses")
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	last := h.lastRequest()
	assert.Equal(t, "/locations/7/avg", last.Path())
	assert.Equal(t, "x", last.Query.Get("gender"))
}

func TestClientTransportRetriesNextEndpoint(t *testing.T) {
	var hits atomic.Int32
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer good.Close()

	// a closed server refuses connections
	bad := httptest.NewServer(http.NotFoundHandler())
	bad.Close()

	c := NewHttpClientTransport()
	require.NoError(t, c.Connect(common.ClientConfig{
		Endpoints:     []string{bad.URL, good.URL},
		TimeoutSecond: 2,
		RetryCount:    2,
	}))
	defer c.Close()

	for i := 0; i < 4; i++ {
		resp, err := c.Send(transport.Request{Method: http.MethodGet, Entity: "users", ID: "1"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
	}
	assert.Equal(t, int32(4), hits.Load())
}

func TestClientTransportErrors(t *testing.T) {
	c := NewHttpClientTransport()
	_, err := c.Send(transport.Request{Method: http.MethodGet, Entity: "users", ID: "1"})
	assert.Error(t, err, "not connected")

	assert.Error(t, c.Connect(common.ClientConfig{}), "no endpoints")

	bad := httptest.NewServer(http.NotFoundHandler())
	bad.Close()
	require.NoError(t, c.Connect(common.ClientConfig{Endpoints: []string{bad.URL}, TimeoutSecond: 1, RetryCount: 3}))
	_, err = c.Send(transport.Request{Method: http.MethodGet, Entity: "users", ID: "1"})
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}

func TestServerTransportLifecycle(t *testing.T) {
	st := NewHttpServerTransport()
	assert.Error(t, st.Listen(common.ServerConfig{Endpoint: "127.0.0.1:0"}), "no handler")
	assert.NoError(t, st.Close(), "closing an idle transport")
}
