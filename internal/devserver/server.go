// Package devserver serves the static dashboard UI during development.
// Browsers (and background services) sometimes open an HTTPS connection
// to the HTTP port, which a plain file server answers with a noisy
// "400 Bad Request" for every probe. This server sniffs the first bytes
// of each connection, logs one concise hint for TLS handshakes, and
// serves everything else normally.
package devserver

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// tlsPrefixes match the start of a TLS ClientHello (0x16 0x03 for any
// minor version) and a legacy SSL probe that leads with a two-byte
// record length.
var tlsPrefixes = [][]byte{
	{0x16, 0x03},
	{0x00, 0x02, 0x01, 0x00},
}

const sniffTimeout = 5 * time.Second

// LooksLikeTLSHandshake reports whether data starts like a TLS/SSL
// handshake rather than an HTTP request line.
func LooksLikeTLSHandshake(data []byte) bool {
	for _, prefix := range tlsPrefixes {
		if bytes.HasPrefix(data, prefix) {
			return true
		}
	}
	return false
}

// listener wraps a net.Listener so every accepted connection sniffs its
// own first bytes. Accept never blocks on a slow client; the sniff
// happens on the first Read, which the HTTP server performs on a
// per-connection goroutine.
type listener struct {
	net.Listener
}

func (l *listener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &sniffConn{Conn: conn}, nil
}

// sniffConn inspects the first bytes of the stream on first Read. TLS
// handshakes close the connection with one log hint; anything else is
// replayed into the stream unharmed.
type sniffConn struct {
	net.Conn
	reader io.Reader
}

func (c *sniffConn) Read(p []byte) (int, error) {
	if c.reader == nil {
		c.SetReadDeadline(time.Now().Add(sniffTimeout))
		buf := make([]byte, 8)
		n, err := c.Conn.Read(buf)
		if err != nil {
			c.Close()
			return 0, err
		}
		c.SetReadDeadline(time.Time{})

		if LooksLikeTLSHandshake(buf[:n]) {
			log.Printf("ignored TLS handshake from %s on HTTP port; use plain http://", c.RemoteAddr())
			c.Close()
			return 0, io.EOF
		}

		c.reader = io.MultiReader(bytes.NewReader(buf[:n]), c.Conn)
	}
	return c.reader.Read(p)
}

// Serve runs the file server on addr until the listener fails.
func Serve(addr, directory string) error {
	inner, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           loggingHandler(http.FileServer(http.Dir(directory))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Serving %q on http://%s (Ctrl+C to stop)", directory, addr)
	return server.Serve(&listener{Listener: inner})
}

func loggingHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
	})
}
