package fetch

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http/httputil"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// Transport sends one hand-written HTTP/1.1 GET per TLS connection and reads
// until the server closes it.
type Transport struct {
	Port    string        // default 443
	TLS     *tls.Config   // nil uses system roots
	Timeout time.Duration // dial + exchange; 0 leaves it to ctx and the OS
}

// Response is the split form of a raw HTTP response.
type Response struct {
	Status int
	Header textproto.MIMEHeader
	Body   []byte
}

func requestLine(host, pathQuery string) string {
	return "GET " + pathQuery + " HTTP/1.1\r\n" +
		"Host: " + host + "\r\n" +
		"Connection: close\r\n" +
		"\r\n"
}

// Get dials host over TLS, writes the request and returns the parsed response.
func (t *Transport) Get(ctx context.Context, host, pathQuery string) (Response, error) {
	port := t.Port
	if port == "" {
		port = "443"
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	d := &tls.Dialer{Config: t.TLS}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return Response{}, fmt.Errorf("dial %s: %w", host, err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	// unblock the read if ctx is cancelled without a deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := io.WriteString(conn, requestLine(host, pathQuery)); err != nil {
		return Response{}, fmt.Errorf("write request: %w", err)
	}
	raw, err := io.ReadAll(conn)
	if err != nil && len(raw) == 0 {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	return ParseResponse(raw)
}

// ParseResponse strips the status line and headers from a raw response and
// de-chunks the body when needed.
func ParseResponse(raw []byte) (Response, error) {
	head, body, ok := cutHead(raw)
	if !ok {
		return Response{}, fmt.Errorf("no header terminator in %d bytes", len(raw))
	}

	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(head)))
	line, err := tp.ReadLine()
	if err != nil {
		return Response{}, fmt.Errorf("status line: %w", err)
	}
	status, err := parseStatus(line)
	if err != nil {
		return Response{}, err
	}
	// a malformed header line only loses the headers after it; the body is still usable
	hdr, _ := tp.ReadMIMEHeader()
	if hdr == nil {
		hdr = textproto.MIMEHeader{}
	}

	if strings.EqualFold(strings.TrimSpace(hdr.Get("Transfer-Encoding")), "chunked") {
		// a truncated trailer still leaves the decoded prefix usable
		dechunked, derr := io.ReadAll(httputil.NewChunkedReader(bytes.NewReader(body)))
		if derr != nil && len(dechunked) == 0 {
			return Response{}, fmt.Errorf("dechunk: %w", derr)
		}
		body = dechunked
	}
	return Response{Status: status, Header: hdr, Body: body}, nil
}

// cutHead splits at the first blank line and keeps the header block terminated
// so textproto can read it.
func cutHead(raw []byte) (head, body []byte, ok bool) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[:i+4], raw[i+4:], true
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[:i+2], raw[i+2:], true
	}
	return nil, nil, false
}

func parseStatus(line string) (int, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") {
		return 0, fmt.Errorf("malformed status line %q", line)
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed status code %q", parts[1])
	}
	return code, nil
}

// JSONBody drops anything before the first '{'.
func JSONBody(body []byte) ([]byte, bool) {
	i := bytes.IndexByte(body, '{')
	if i < 0 {
		return nil, false
	}
	return body[i:], true
}
