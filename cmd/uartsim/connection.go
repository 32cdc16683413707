// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/term"
)

// connection is a byte pipe to the device on the far side of the
// bridge, serial port or WebSocket alike.
type connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// errConnClosed is returned when reading from a WebSocket whose peer
// has gone away.
var errConnClosed = errors.New("connection closed")

type serialConnection struct {
	port serial.Port
}

func (s *serialConnection) Read(p []byte) (int, error)  { return s.port.Read(p) }
func (s *serialConnection) Write(p []byte) (int, error) { return s.port.Write(p) }
func (s *serialConnection) Close() error                { return s.port.Close() }

// wsConnection adapts message-oriented WebSocket frames to the byte
// stream the bridge loop expects.
type wsConnection struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool
}

func (w *wsConnection) Read(p []byte) (int, error) {
	if w.closed {
		return 0, errConnClosed
	}

	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}
		// Text and control frames carry no link bytes.
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *wsConnection) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConnection) Close() error {
	return w.conn.Close()
}

func openSerial(portName string, baud int) (connection, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", portName)
	}
	return &serialConnection{port: port}, nil
}

func openWebSocket(rawURL, username, password string, skipSSLVerify bool) (connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, errors.Errorf("unsupported URL scheme %q (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, rawURL, headers)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "WebSocket connection failed (HTTP %d)", resp.StatusCode)
		}
		return nil, errors.Wrap(err, "WebSocket connection failed")
	}
	return &wsConnection{conn: conn}, nil
}

// getPassword reads the bridge password from the environment or, when
// unset, prompts on stderr without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("UARTSIM_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// No usable terminal: fall back to echoed input.
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// openConnection picks serial or WebSocket from the root flags.
func openConnection() (connection, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := openWebSocket(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		conn, err := openSerial(portName, int(baudRate))
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", errors.New("either --port or --url must be specified")
}
