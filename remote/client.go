package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/transport"
	"github.com/google/uuid"
)

const maxErrorBody = 64 << 10

// Client talks to the authentication API.
type Client struct {
	baseURL      *url.URL
	registerPath string
	sessionPath  string
	http         *http.Client
	newID        func() string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the client requests are sent with. It replaces the binder's
// client, so the caller is responsible for header injection.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New builds a Client for cfg.BaseURL. When binder is non-nil, requests carry its
// default headers.
func New(cfg goSession.RemoteConfig, binder *transport.Binder, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("remote BaseURL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote BaseURL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("remote BaseURL must be http or https")
	}

	c := &Client{
		baseURL:      base,
		registerPath: cfg.RegisterPath,
		sessionPath:  cfg.SessionPath,
		http:         http.DefaultClient,
		newID:        uuid.NewString,
	}
	if c.registerPath == "" {
		c.registerPath = "/users"
	}
	if c.sessionPath == "" {
		c.sessionPath = "/sessions"
	}
	if binder != nil {
		c.http = binder.Client(nil)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ goSession.Authenticator = (*Client)(nil)

// Register posts payload as multipart/form-data with fields name, email, tel, and
// password, plus the avatar file renamed to a random lower-case name that keeps the
// original extension.
func (c *Client) Register(ctx context.Context, payload goSession.RegistrationPayload) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if payload.Avatar != nil {
		if err := c.writeAvatar(mw, payload.Avatar); err != nil {
			return &goSession.TransportError{Op: "register", Err: err}
		}
	}
	for _, field := range [][2]string{
		{"name", payload.Name},
		{"email", payload.Email},
		{"tel", payload.Phone},
		{"password", payload.Password},
	} {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return &goSession.TransportError{Op: "register", Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return &goSession.TransportError{Op: "register", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.registerPath), &body)
	if err != nil {
		return &goSession.TransportError{Op: "register", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req, "register")
	if err != nil {
		return err
	}
	drain(resp.Body)
	return nil
}

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate posts the credentials and decodes the session response. Missing fields
// are not an error here; the caller decides what an incomplete response means.
func (c *Client) Authenticate(ctx context.Context, identifier, secret string) (*goSession.AuthResponse, error) {
	data, err := json.Marshal(signInBody{Email: identifier, Password: secret})
	if err != nil {
		return nil, &goSession.TransportError{Op: "authenticate", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.sessionPath), bytes.NewReader(data))
	if err != nil {
		return nil, &goSession.TransportError{Op: "authenticate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, "authenticate")
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	var out goSession.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &goSession.TransportError{Op: "authenticate", Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}

// do sends req and classifies failures. On success the caller owns resp.Body.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &goSession.TransportError{Op: op, Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer drain(resp.Body)

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && strings.TrimSpace(body.Message) != "" {
		return nil, &goSession.AuthError{Message: body.Message, Status: resp.StatusCode}
	}
	return nil, &goSession.TransportError{
		Op:     op,
		Status: resp.StatusCode,
		Err:    fmt.Errorf("unexpected status %s", resp.Status),
	}
}

func (c *Client) writeAvatar(mw *multipart.Writer, a *goSession.Avatar) error {
	ext := strings.TrimPrefix(path.Ext(a.Filename), ".")
	name := c.newID()
	if ext != "" {
		name += "." + ext
	}
	name = strings.ToLower(name)

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
		if ext != "" {
			contentType = "image/" + strings.ToLower(ext)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(a.Data)
	return err
}

func (c *Client) endpoint(p string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + p
	return u.String()
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}
