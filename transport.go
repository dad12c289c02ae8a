package fanlog

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/valyala/fasthttp"
)

var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport talks to a Telegram-compatible bot API over fasthttp
type HTTPTransport struct {
	client  *fasthttp.Client
	baseURL string
	token   string
	chatID  string
}

// apiResponse is the envelope returned by the bot API
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewHTTPTransport creates a transport; a nil client uses a default fasthttp client.
// Every request is bounded by defaultRemoteRequestTimeout whatever the client.
func NewHTTPTransport(baseURL, token, chatID string, client *fasthttp.Client) *HTTPTransport {
	if client == nil {
		client = &fasthttp.Client{
			Name:                     "fanlog",
			NoDefaultUserAgentHeader: true,
			ReadTimeout:              defaultRemoteRequestTimeout,
			WriteTimeout:             defaultRemoteRequestTimeout,
		}
	}
	return &HTTPTransport{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
	}
}

// Probe issues GET {base}/bot{token}/getMe
func (t *HTTPTransport) Probe() error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(t.methodURL("getMe"))
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := t.client.DoTimeout(req, resp, defaultRemoteRequestTimeout); err != nil {
		return fmtErrorf("probe request failed: %w", err)
	}
	return checkResponse("getMe", resp)
}

// Send posts text as multipart form data to {base}/bot{token}/sendMessage
func (t *HTTPTransport) Send(text string) error {
	form := &multipart.Form{
		Value: map[string][]string{
			"chat_id":    {t.chatID},
			"text":       {text},
			"parse_mode": {"HTML"},
		},
	}

	var body bytes.Buffer
	boundary := multipart.NewWriter(nil).Boundary() // random boundary only
	if err := fasthttp.WriteMultipartForm(&body, form, boundary); err != nil {
		return fmtErrorf("failed to encode message form: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(t.methodURL("sendMessage"))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetMultipartFormBoundary(boundary)
	req.SetBody(body.Bytes())

	if err := t.client.DoTimeout(req, resp, defaultRemoteRequestTimeout); err != nil {
		return fmtErrorf("delivery request failed: %w", err)
	}
	return checkResponse("sendMessage", resp)
}

func (t *HTTPTransport) methodURL(method string) string {
	return t.baseURL + "/bot" + t.token + "/" + method
}

// checkResponse maps non-2xx statuses and {"ok":false} bodies to errors
func checkResponse(method string, resp *fasthttp.Response) error {
	status := resp.StatusCode()
	var parsed apiResponse
	decodeErr := json.Unmarshal(resp.Body(), &parsed)

	if status < 200 || status > 299 {
		if decodeErr == nil && parsed.Description != "" {
			return fmtErrorf("%s returned status %d: %s", method, status, parsed.Description)
		}
		return fmtErrorf("%s returned status %d", method, status)
	}
	if decodeErr != nil {
		return fmtErrorf("%s returned an unreadable body: %w", method, decodeErr)
	}
	if !parsed.OK {
		return fmtErrorf("%s rejected: %s", method, parsed.Description)
	}
	return nil
}
