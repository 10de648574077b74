package http

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/transport"
	"github.com/cockroachdb/errors"
)

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURLs []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Endpoints) == 0 {
		return errors.New("http transport: no endpoints configured")
	}

	// Parse each server URL
	parsedURLs := make([]*url.URL, len(config.Endpoints))
	for i, server := range config.Endpoints {
		if !strings.Contains(server, "://") {
			server = "http://" + server
		}
		parsedURL, err := url.Parse(server)
		if err != nil {
			return errors.Wrapf(err, "parse endpoint %q", server)
		}
		parsedURLs[i] = parsedURL
	}

	// Create client with default transport
	client := &http.Client{
		Timeout: time.Duration(config.TimeoutSecond) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Set the client and server URLs
	t.client = client
	t.serverURLs = parsedURLs
	t.counter = 0
	t.retryCount = max(1, config.RetryCount)

	// No error
	return nil
}

func (t *httpClientTransport) Send(req transport.Request) (transport.Response, error) {
	// Check if the transport is initialized
	if t.client == nil {
		return transport.Response{}, errors.New("http transport not initialized")
	}

	// Send the request (with retries), every attempt goes to the next server
	var (
		resp transport.Response
		err  error
	)
	for i := 0; i < t.retryCount; i++ {
		resp, err = t.send(t.next(), req)
		if err == nil {
			return resp, nil
		}
		Logger.Debugf("%s %s failed (attempt %d/%d): %v", req.Method, req.Path(), i+1, t.retryCount, err)
	}
	return transport.Response{}, err
}

func (t *httpClientTransport) Close() error {
	// Close the client
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	// Reset the client and server URLs
	t.client = nil
	t.serverURLs = nil

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// next selects the next server via round-robin
func (t *httpClientTransport) next() *url.URL {
	idx := atomic.AddUint32(&t.counter, 1) % uint32(len(t.serverURLs))
	return t.serverURLs[idx]
}

func (t *httpClientTransport) send(server *url.URL, req transport.Request) (transport.Response, error) {
	// Create the complete URL
	target := *server
	target.Path = strings.TrimSuffix(server.Path, "/") + req.Path()
	target.RawQuery = req.Query.Encode()

	// Create the request, the body is rebuilt for every attempt
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpRequest, err := http.NewRequest(req.Method, target.String(), body)
	if err != nil {
		return transport.Response{}, err
	}
	if req.Body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}

	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		return transport.Response{}, err
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	// Read the response body
	data, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return transport.Response{}, err
	}
	return transport.Response{Status: httpResponse.StatusCode, Body: data}, nil
}
