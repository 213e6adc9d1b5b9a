// Package transport opens one TLS byte stream per request. Streams are never
// pooled or reused: the request declares Connection: close, so the peer ends
// the stream after the body and the reader can simply read to end-of-stream.
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// ErrTransport marks DNS, connect and handshake failures.
var ErrTransport = errors.New("transport failure")

// Error carries the failing step and its cause.
type Error struct {
	Op   string
	Addr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Opener opens an encrypted stream to host:port.
type Opener interface {
	Open(ctx context.Context, host string, port int) (io.ReadWriteCloser, error)
}

// Config controls dialing. Zero timeouts mean no limit.
type Config struct {
	DialTimeout      time.Duration
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	// RootCAs overrides the system pool; nil uses the host's roots.
	RootCAs *x509.CertPool
}

// TLSOpener implements Opener with crypto/tls.
type TLSOpener struct {
	cfg Config
}

// NewTLSOpener builds a TLSOpener.
func NewTLSOpener(cfg Config) *TLSOpener {
	return &TLSOpener{cfg: cfg}
}

// Open dials TCP and performs a TLS handshake identifying the peer by host.
func (o *TLSOpener) Open(ctx context.Context, host string, port int) (io.ReadWriteCloser, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: o.cfg.DialTimeout}
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &Error{Op: "dial", Addr: addr, Err: err}
	}

	conn := tls.Client(raw, &tls.Config{
		ServerName: host,
		RootCAs:    o.cfg.RootCAs,
		MinVersion: tls.VersionTLS12,
	})
	hsCtx := ctx
	if o.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		hsCtx, cancel = context.WithTimeout(ctx, o.cfg.HandshakeTimeout)
		defer cancel()
	}
	if err := conn.HandshakeContext(hsCtx); err != nil {
		_ = raw.Close()
		return nil, &Error{Op: "handshake", Addr: addr, Err: err}
	}
	if o.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(o.cfg.ReadTimeout)); err != nil {
			_ = conn.Close()
			return nil, &Error{Op: "deadline", Addr: addr, Err: err}
		}
	}
	return conn, nil
}

// Exchange opens a stream, writes payload once, reads until the peer closes,
// and releases the stream on every path.
// Close errors are ignored: the peer has already ended the stream.
func Exchange(ctx context.Context, opener Opener, host string, port int, payload []byte) ([]byte, error) {
	stream, err := opener.Open(ctx, host, port)
	if err != nil {
		return nil, err
	}
	defer stream.Close() //nolint:errcheck // response already complete

	if _, err := stream.Write(payload); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	raw, err := io.ReadAll(stream)
	if err != nil {
		// Peers that drop TCP without close_notify still delivered a full
		// response; only an empty read is a failure.
		if errors.Is(err, io.ErrUnexpectedEOF) && len(raw) > 0 {
			return raw, nil
		}
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}
