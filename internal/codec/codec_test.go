package codec

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{Host: "adventofcode.com", UserAgent: "aocbud-test", Token: "abc123"}

func TestEncodeGet(t *testing.T) {
	t.Parallel()

	req := NewRequest(MethodGet, "/2023/day/1", "/input", testIdentity, nil)
	want := "GET /2023/day/1/input HTTP/1.1\r\n" +
		"Host: adventofcode.com\r\n" +
		"User-Agent: aocbud-test\r\n" +
		"Accept: */*\r\n" +
		"Cookie: session=abc123\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	require.Equal(t, want, string(req.Encode()))
}

func TestEncodePostCarriesExactContentLength(t *testing.T) {
	t.Parallel()

	body := FormBody(1, "42")
	req := NewRequest(MethodPost, "/2023/day/1", "/answer", testIdentity, body)
	want := "POST /2023/day/1/answer HTTP/1.1\r\n" +
		"Host: adventofcode.com\r\n" +
		"User-Agent: aocbud-test\r\n" +
		"Accept: */*\r\n" +
		"Cookie: session=abc123\r\n" +
		"Connection: close\r\n" +
		"Content-Type: application/x-www-form-urlencoded\r\n" +
		"Content-Length: 17\r\n" +
		"\r\n" +
		"level=1&answer=42"
	require.Equal(t, want, string(req.Encode()))
}

func TestFormBodyEscapesAnswer(t *testing.T) {
	t.Parallel()

	body := FormBody(2, "a b&c=é")
	require.Equal(t, "level=2&answer=a+b%26c%3D%C3%A9", string(body))

	req := NewRequest(MethodPost, "/p", "", testIdentity, body)
	var length string
	for _, h := range req.Headers {
		if h.Name == "Content-Length" {
			length = h.Value
		}
	}
	assert.Equal(t, "31", length)
	assert.Len(t, body, 31)
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		head string
		body string
	}{
		{"simple", "HTTP/1.1 200 OK\r\nA: b\r\n\r\n10\n20\n30", "HTTP/1.1 200 OK\r\nA: b", "10\n20\n30"},
		{"empty body", "HTTP/1.1 204 No Content\r\n\r\n", "HTTP/1.1 204 No Content", ""},
		{"body contains boundary", "H\r\n\r\nx\r\n\r\ny", "H", "x\r\n\r\ny"},
		{"empty head", "\r\n\r\nbody", "", "body"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			require.Equal(t, tt.head, resp.HeaderBlock)
			require.Equal(t, tt.body, resp.Body)
			require.Equal(t, tt.raw, resp.HeaderBlock+"\r\n\r\n"+resp.Body)
		})
	}
}

func TestDecodeMissingBoundary(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "HTTP/1.1 200 OK\r\n", "HTTP/1.1 200 OK\n\nbody", "a\r\nb\r\n"} {
		resp, err := Decode([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedResponse)
		require.Empty(t, resp.Body)
		require.Empty(t, resp.HeaderBlock)
	}
}

func TestDecodeReplacesInvalidUTF8(t *testing.T) {
	t.Parallel()

	raw := append([]byte("HTTP/1.1 200 OK\r\n\r\nab"), 0xff, 'c')
	resp, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "ab�c", resp.Body)
}

func TestResponseStatusAndHeader(t *testing.T) {
	t.Parallel()

	resp, err := Decode([]byte("HTTP/1.1 404 Not Found\r\nContent-Type: text/html\r\nServer: x\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode())
	assert.Equal(t, "text/html", resp.Header("content-type"))
	assert.Equal(t, "", resp.Header("Missing"))

	assert.Equal(t, 0, Response{HeaderBlock: "garbage"}.StatusCode())
}

func FuzzDecodeRoundTrip(f *testing.F) {
	f.Add("HTTP/1.1 200 OK\r\n\r\nbody")
	f.Add("no boundary")
	f.Fuzz(func(t *testing.T, raw string) {
		resp, err := Decode([]byte(raw))
		if !strings.Contains(raw, "\r\n\r\n") {
			if err == nil {
				t.Fatalf("expected malformed error for %q", raw)
			}
			return
		}
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", raw, err)
		}
		if utf8.ValidString(raw) && resp.HeaderBlock+"\r\n\r\n"+resp.Body != raw {
			t.Fatalf("round trip mismatch for %q", raw)
		}
	})
}
