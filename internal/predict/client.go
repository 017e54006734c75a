// Package predict talks to the image prediction endpoint.
package predict

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/jask/realcheck/internal/upload"
)

// DefaultField is the multipart field the service reads the image from.
const DefaultField = "file"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client posts images to a prediction endpoint. It does not retry and sets no
// timeout of its own; the caller's context is the only bound.
type Client struct {
	endpoint string
	field    string
	token    string
	http     *http.Client
	progress io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithField changes the multipart field name.
func WithField(field string) Option {
	return func(c *Client) {
		if f := strings.TrimSpace(field); f != "" {
			c.field = f
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" when token is not empty.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithProgress copies every request body byte sent to w.
func WithProgress(w io.Writer) Option {
	return func(c *Client) { c.progress = w }
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{endpoint: strings.TrimSpace(endpoint), field: DefaultField, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Predict uploads f and decodes the service's verdict. Any failure is a
// *RequestFailedError.
func (c *Client) Predict(ctx context.Context, f upload.File) (Result, error) {
	body, contentType, err := c.encode(f)
	if err != nil {
		return Result{}, &RequestFailedError{Err: err}
	}
	size := int64(body.Len())

	var reader io.Reader = body
	if c.progress != nil {
		reader = io.TeeReader(body, c.progress)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, reader)
	if err != nil {
		return Result{}, &RequestFailedError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, &RequestFailedError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Result{}, &RequestFailedError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, &RequestFailedError{Err: fmt.Errorf("read response: %w", err)}
	}
	res, err := Decode(raw)
	if err != nil {
		return Result{}, &RequestFailedError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return res, nil
}

func (c *Client) encode(f upload.File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := f.Name
	if name == "" {
		name = "blob"
	}
	mediaType := f.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(c.field), escapeQuotes(name)))
	h.Set("Content-Type", mediaType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("write part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
