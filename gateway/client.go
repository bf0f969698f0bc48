package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

const (
	HelloPath = "/api/hello"
	DataPath  = "/api/data"

	maxResponseBytes = 1 << 20
)

type Client struct {
	Base string
	HTTP *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: timeout},
	}
}

type HelloResponse struct {
	Message *string `json:"message"`
}

type DataRequest struct {
	Data string `json:"data"`
}

// Hello returns the greeting message.
func (c *Client) Hello(ctx context.Context) (string, error) {
	var out HelloResponse
	if err := c.do(ctx, http.MethodGet, HelloPath, nil, &out); err != nil {
		return "", err
	}
	if out.Message == nil {
		return "", &Error{
			Kind: ParseFailure,
			Op:   http.MethodGet,
			URL:  c.Base + HelloPath,
			Err:  xerrors.New(`response has no string "message" field`),
		}
	}
	return *out.Message, nil
}

// SendData posts data and returns the decoded acknowledgement verbatim.
func (c *Client) SendData(ctx context.Context, data string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, DataPath, DataRequest{Data: data}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	url := c.Base + path
	fail := func(kind Kind, err error) error {
		return &Error{Kind: kind, Op: method, URL: url, Err: err}
	}

	var body *bytes.Buffer
	if in != nil {
		body = new(bytes.Buffer)
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return fail(NetworkFailure, xerrors.Errorf("encode request: %w", err))
		}
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return fail(NetworkFailure, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fail(NetworkFailure, err)
	}
	defer resp.Body.Close()

	// The whole body must be one JSON value; trailing bytes are a parse failure.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(NetworkFailure, xerrors.Errorf("read %s response: %w", resp.Status, err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(ParseFailure, xerrors.Errorf("decode %s response: %w", resp.Status, err))
	}
	return nil
}
