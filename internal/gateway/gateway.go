package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"cpaas-portal/internal/observ"
	"cpaas-portal/pkg/models"

	"go.uber.org/zap"
)

const DefaultTimeout = 15 * time.Second

var versionSuffix = regexp.MustCompile(`/v[0-9]+$`)

// Caller is the contract every portal component issues requests through.
type Caller interface {
	Call(ctx context.Context, method, path, token string, payload any, opts ...CallOption) (*Response, error)
	Upload(ctx context.Context, method, path, token string, form *Form, opts ...CallOption) (*Response, error)
}

// Gateway talks to the versioned admin REST API.
type Gateway struct {
	base      *url.URL
	client    *http.Client
	timeout   time.Duration
	logger    *zap.Logger
	userAgent string
}

type Option func(*Gateway)

// WithHTTPClient sets the client requests are sent with. New copies c before
// applying the timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) { g.logger = observ.OrNop(l) }
}

func WithUserAgent(ua string) Option {
	return func(g *Gateway) { g.userAgent = ua }
}

// New creates a gateway rooted at baseURL, e.g. https://host/api/v1.
func New(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	g := &Gateway{
		base:      u,
		logger:    zap.NewNop(),
		userAgent: "cpaas-portal",
	}
	for _, opt := range opts {
		opt(g)
	}

	client := http.Client{}
	if g.client != nil {
		client = *g.client
	}
	switch {
	case g.timeout > 0:
		client.Timeout = g.timeout
	case client.Timeout == 0:
		client.Timeout = DefaultTimeout
	}
	g.client = &client
	return g, nil
}

type callOptions struct {
	query   url.Values
	version string
	headers map[string]string
}

type CallOption func(*callOptions)

func WithQuery(q url.Values) CallOption {
	return func(o *callOptions) { o.query = q }
}

// WithAPIVersion replaces the version segment of the base URL for one call.
func WithAPIVersion(v string) CallOption {
	return func(o *callOptions) { o.version = v }
}

func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[key] = value
	}
}

// Call sends payload as JSON. A nil payload sends no body.
func (g *Gateway) Call(ctx context.Context, method, path, token string, payload any, opts ...CallOption) (*Response, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindMalformed, Method: method, Path: path, Message: "could not encode request", Err: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return g.send(ctx, method, path, token, body, contentType, opts)
}

// Upload sends form as multipart/form-data.
func (g *Gateway) Upload(ctx context.Context, method, path, token string, form *Form, opts ...CallOption) (*Response, error) {
	if form == nil {
		form = NewForm()
	}
	body, contentType, err := form.encode()
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Method: method, Path: path, Message: "could not encode form", Err: err}
	}
	return g.send(ctx, method, path, token, body, contentType, opts)
}

// URL resolves path against the base URL, honoring a version override.
func (g *Gateway) URL(path, version string) string {
	u := *g.base
	basePath := u.Path
	if version != "" {
		if versionSuffix.MatchString(basePath) {
			basePath = versionSuffix.ReplaceAllString(basePath, "/"+version)
		} else {
			basePath += "/" + version
		}
	}
	u.Path = basePath + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

func (g *Gateway) send(ctx context.Context, method, path, token string, body io.Reader, contentType string, opts []CallOption) (*Response, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	target := g.URL(path, o.version)
	if len(o.query) > 0 {
		target += "?" + o.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Method: method, Path: path, Message: "could not build request", Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		kind := KindNetwork
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			kind = KindCanceled
		}
		g.logger.Debug("gateway call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &Error{Kind: kind, Method: method, Path: path, Message: "Network error, please try again", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Method: method, Path: path, Status: resp.StatusCode, Message: "could not read response", Err: err}
	}

	g.logger.Debug("gateway call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	return parse(method, path, resp.StatusCode, respBody)
}

type envelope struct {
	Success *bool                 `json:"success"`
	Message string                `json:"message"`
	Error   string                `json:"error"`
	Data    json.RawMessage       `json:"data"`
	Files   []models.UploadedFile `json:"files"`
}

func parse(method, path string, status int, body []byte) (*Response, error) {
	ok := status >= 200 && status < 300

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		if !ok {
			return nil, &Error{Kind: KindStatus, Method: method, Path: path, Status: status, Message: http.StatusText(status)}
		}
		return &Response{Status: status}, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		if !ok {
			return nil, &Error{Kind: KindStatus, Method: method, Path: path, Status: status, Message: http.StatusText(status), Err: err}
		}
		return nil, &Error{Kind: KindMalformed, Method: method, Path: path, Status: status, Message: "Unexpected response from server", Err: err}
	}

	msg := env.Message
	if msg == "" {
		msg = env.Error
	}

	if !ok {
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, &Error{Kind: KindStatus, Method: method, Path: path, Status: status, Message: msg}
	}
	if env.Success != nil && !*env.Success {
		if msg == "" {
			msg = "Request was not successful"
		}
		return nil, &Error{Kind: KindRejected, Method: method, Path: path, Status: status, Message: msg}
	}

	return &Response{
		Status:  status,
		Message: env.Message,
		Data:    env.Data,
		Body:    body,
		files:   env.Files,
	}, nil
}
