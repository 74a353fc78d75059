// Package kanboard is a small client for the Kanboard JSON-RPC API.
//
// Only the read operations kbt needs are exposed, each as a typed method.
package kanboard

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/kbtree/pkg/debug"
	"github.com/vanderheijden86/kbtree/pkg/version"
)

// DefaultAuthHeader is the header Kanboard reads credentials from unless the
// server is configured otherwise.
const DefaultAuthHeader = "Authorization"

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 32 << 20

// Method is a Kanboard API operation.
type Method int

const (
	GetProjectByID Method = iota
	GetAllSwimlanes
	GetColumns
	GetAllTasks
	GetTask
)

var methodNames = [...]string{
	GetProjectByID:  "getProjectById",
	GetAllSwimlanes: "getAllSwimlanes",
	GetColumns:      "getColumns",
	GetAllTasks:     "getAllTasks",
	GetTask:         "getTask",
}

// String returns the wire name of the method.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methodNames[m]
}

// Options configures a Client.
type Options struct {
	URL        string
	Username   string
	Password   string
	AuthHeader string        // defaults to DefaultAuthHeader
	CAFile     string        // PEM bundle used as the trusted roots
	Timeout    time.Duration // defaults to DefaultTimeout
	HTTPClient *http.Client  // overrides Timeout and CAFile when set
}

// Client calls a Kanboard JSON-RPC endpoint. It is safe for concurrent use.
type Client struct {
	url        string
	authHeader string
	authValue  string
	http       *http.Client
	nextID     atomic.Int64
}

// New returns a client for opts.URL.
func New(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("kanboard: missing URL")
	}

	c := &Client{
		url:        opts.URL,
		authHeader: opts.AuthHeader,
		http:       opts.HTTPClient,
	}
	if c.authHeader == "" {
		c.authHeader = DefaultAuthHeader
	}
	if opts.Username != "" || opts.Password != "" {
		token := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		if strings.EqualFold(c.authHeader, DefaultAuthHeader) {
			c.authValue = "Basic " + token
		} else {
			c.authValue = token
		}
	}

	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.CAFile != "" {
			pool, err := loadCAFile(opts.CAFile)
			if err != nil {
				return nil, err
			}
			transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
		}
		c.http = &http.Client{Timeout: timeout, Transport: transport}
	}
	return c, nil
}

func loadCAFile(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kanboard: reading CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("kanboard: no certificates found in %s", path)
	}
	return pool, nil
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	ID     any             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Call invokes method with params and decodes the result into out.
// out may be nil when the result is not needed.
func (c *Client) Call(ctx context.Context, method Method, params any, out any) error {
	name := method.String()

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  name,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("kanboard: encoding %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Method: name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.authValue != "" {
		req.Header.Set(c.authHeader, c.authValue)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Method: name, Err: err}
	}
	debug.Log("kanboard %s: HTTP %d, %d bytes in %v", name, resp.StatusCode, len(data), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Method: name, StatusCode: resp.StatusCode}
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		debug.Log("kanboard %s: undecodable body: %v", name, err)
		return fmt.Errorf("%s: %w", name, ErrNoResult)
	}
	if r.Error != nil {
		return &RemoteError{Method: name, Code: r.Error.Code, Message: r.Error.Message}
	}

	result := bytes.TrimSpace(r.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) || bytes.Equal(result, []byte("false")) {
		return fmt.Errorf("%s: %w", name, ErrNoResult)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("kanboard: decoding %s result: %w", name, err)
	}
	return nil
}
