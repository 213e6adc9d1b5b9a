// Package codec renders requests to wire bytes and splits raw responses into
// a header block and body text.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrMalformedResponse is returned when a response has no header/body boundary.
var ErrMalformedResponse = errors.New("malformed response: no header/body boundary")

// HTTP methods the client speaks.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

const (
	crlf          = "\r\n"
	boundary      = "\r\n\r\n"
	formMediaType = "application/x-www-form-urlencoded"
)

// Header is one request header line; order is preserved on the wire.
type Header struct {
	Name  string
	Value string
}

// Identity holds the fixed header values sent with every request.
type Identity struct {
	Host      string
	UserAgent string
	Token     string
}

// Request is a pending request built fresh for each call.
type Request struct {
	Method  string
	Path    string
	Headers []Header
	Body    []byte
}

// NewRequest joins basePath and extraPath and attaches the fixed headers.
// Requests with a body also get Content-Type and an exact Content-Length.
func NewRequest(method, basePath, extraPath string, id Identity, body []byte) Request {
	headers := []Header{
		{Name: "Host", Value: id.Host},
		{Name: "User-Agent", Value: id.UserAgent},
		{Name: "Accept", Value: "*/*"},
		{Name: "Cookie", Value: "session=" + id.Token},
		{Name: "Connection", Value: "close"},
	}
	if body != nil {
		headers = append(headers,
			Header{Name: "Content-Type", Value: formMediaType},
			Header{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		)
	}
	return Request{
		Method:  method,
		Path:    basePath + extraPath,
		Headers: headers,
		Body:    body,
	}
}

// Encode renders the request line, headers, blank line and body.
func (r Request) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(r.Method)
	buf.WriteByte(' ')
	buf.WriteString(r.Path)
	buf.WriteString(" HTTP/1.1")
	buf.WriteString(crlf)
	for _, h := range r.Headers {
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.WriteString(h.Value)
		buf.WriteString(crlf)
	}
	buf.WriteString(crlf)
	buf.Write(r.Body)
	return buf.Bytes()
}

// FormBody renders the answer form in the order the site expects.
func FormBody(level int, answer string) []byte {
	return []byte("level=" + url.QueryEscape(strconv.Itoa(level)) + "&answer=" + url.QueryEscape(answer))
}

// Response is a decoded response split at the first blank line.
type Response struct {
	HeaderBlock string
	Body        string
}

// Decode replaces invalid UTF-8 rather than failing, then splits at the first
// CRLFCRLF. A missing boundary yields ErrMalformedResponse and no partial body.
func Decode(raw []byte) (Response, error) {
	text, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	head, body, ok := strings.Cut(string(text), boundary)
	if !ok {
		return Response{}, ErrMalformedResponse
	}
	return Response{HeaderBlock: head, Body: body}, nil
}

// StatusCode parses the status line; zero when it cannot be read.
func (r Response) StatusCode() int {
	line, _, _ := strings.Cut(r.HeaderBlock, crlf)
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// Header returns the first value of the named response header.
func (r Response) Header(name string) string {
	lines := strings.Split(r.HeaderBlock, crlf)
	for _, line := range lines[1:] {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
