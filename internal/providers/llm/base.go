package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sandevgo/taleforge/internal/core"
)

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 512

// HTTPOptions controls provider transport timeouts.
type HTTPOptions struct {
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		ConnectTimeout: 10 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

func newHTTPClient(opts HTTPOptions) *http.Client {
	dialer := &net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = opts.ConnectTimeout

	return &http.Client{
		Timeout:   opts.RequestTimeout,
		Transport: transport,
	}
}

type baseProvider struct {
	name    string
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(name, baseURL, apiKey, model string, opts HTTPOptions) baseProvider {
	return baseProvider{
		name:    name,
		client:  newHTTPClient(opts),
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (b *baseProvider) Name() string {
	return b.name
}

func (b *baseProvider) Model() string {
	return b.model
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// readBody returns the response payload, or a *ProviderError carrying the
// status code for any non-2xx response.
func (b *baseProvider) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: b.name, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := data
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &ProviderError{
			Provider: b.name,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("http %d: %s", resp.StatusCode, string(snippet)),
		}
	}
	return data, nil
}
