// Package econ implements a client for the Teeworlds external console.
//
// The econ interface is a password protected, line oriented TCP console. After
// authenticating, the server streams its console output and accepts the same
// commands that can be issued locally (say, broadcast, etc.).
package econ

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"teebot/pkg/log"
	"teebot/pkg/stringutil"
)

var (
	ErrAuth         = errors.New("econ authentication failed")
	ErrNotConnected = errors.New("econ not connected")
)

const (
	dialTimeout      = time.Second * 10
	authTimeout      = time.Second * 10
	reconnectBackoff = time.Second * 5

	// The in-game chat truncates say lines past this width, so longer text is
	// sent as multiple say commands.
	sayChunkLen = 64
)

// LineHandler receives each raw console line after authentication.
type LineHandler func(line string)

type Client struct {
	addr     string
	password string
	onLine   LineHandler

	connMu *sync.RWMutex
	conn   net.Conn
}

func New(host string, port int, password string, onLine LineHandler) *Client {
	return &Client{
		addr:     fmt.Sprintf("%s:%d", host, port),
		password: password,
		onLine:   onLine,
		connMu:   &sync.RWMutex{},
	}
}

// Start runs the connect/read loop until the context is cancelled, redialing
// with a fixed backoff on any connection failure.
func (c *Client) Start(ctx context.Context) {
	for {
		if errSession := c.runSession(ctx); errSession != nil {
			if ctx.Err() != nil {
				return
			}

			slog.Error("Econ session ended", log.ErrAttr(errSession))
		}

		select {
		case <-time.After(reconnectBackoff):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) runSession(ctx context.Context) error {
	dialer := net.Dialer{Timeout: dialTimeout}

	conn, errDial := dialer.DialContext(ctx, "tcp", c.addr)
	if errDial != nil {
		return fmt.Errorf("failed to dial econ %s: %w", c.addr, errDial)
	}

	defer log.Closer(conn)

	reader := bufio.NewScanner(conn)

	if errAuth := c.authenticate(conn, reader); errAuth != nil {
		return errAuth
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	defer func() {
		c.connMu.Lock()
		c.conn = nil
		c.connMu.Unlock()
	}()

	slog.Info("Econ connected", slog.String("addr", c.addr))

	go func() {
		// Unblock the scanner when the context ends.
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()

	for reader.Scan() {
		c.onLine(reader.Text())
	}

	if errRead := reader.Err(); errRead != nil && ctx.Err() == nil {
		return fmt.Errorf("econ read failed: %w", errRead)
	}

	return nil
}

func (c *Client) authenticate(conn net.Conn, reader *bufio.Scanner) error {
	if errDeadline := conn.SetDeadline(time.Now().Add(authTimeout)); errDeadline != nil {
		return fmt.Errorf("failed to set auth deadline: %w", errDeadline)
	}

	// The server greets with "Enter password:" but may not terminate the
	// prompt with a newline, so the password is written straight away.
	if _, errWrite := fmt.Fprintf(conn, "%s\n", c.password); errWrite != nil {
		return fmt.Errorf("failed to send econ password: %w", errWrite)
	}

	for reader.Scan() {
		line := reader.Text()
		if strings.Contains(line, "Authentication successful") {
			return conn.SetDeadline(time.Time{})
		}

		if strings.Contains(line, "Wrong password") {
			return ErrAuth
		}
	}

	if errRead := reader.Err(); errRead != nil {
		return fmt.Errorf("econ auth read failed: %w", errRead)
	}

	return ErrAuth
}

// Exec sends a single console command. Embedded newlines are stripped as a
// basic guard against command injection through player provided text.
func (c *Client) Exec(cmd string) error {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	cmd = strings.ReplaceAll(strings.ReplaceAll(cmd, "\n", " "), "\r", "")
	if _, errWrite := fmt.Fprintf(conn, "%s\n", cmd); errWrite != nil {
		return fmt.Errorf("failed to exec econ command: %w", errWrite)
	}

	return nil
}

// Say sends a public chat line, splitting long text into chat-width segments.
func (c *Client) Say(text string) error {
	for _, segment := range stringutil.ChunkFixed(text, sayChunkLen) {
		if errExec := c.Exec("say " + segment); errExec != nil {
			return errExec
		}
	}

	return nil
}

// Broadcast shows text in the centre-screen broadcast area.
func (c *Client) Broadcast(text string) error {
	return c.Exec("broadcast " + text)
}
