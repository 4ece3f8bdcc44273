package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	// requestReadTimeout bounds how long a client may take to send its line.
	requestReadTimeout = 2 * time.Second
	maxRequestBytes    = 4096
)

// Handler processes one IPC command request.
type Handler interface {
	Handle(context.Context, Request) Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Serve answers one request per connection until ctx ends or listener
// closes. In-flight requests finish before Serve returns.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept IPC connection: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			serveConn(ctx, conn, handler)
		}()
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler Handler) {
	req, err := readRequest(conn)
	if err != nil {
		writeResponse(conn, Response{OK: false, Error: err.Error()})
		return
	}
	writeResponse(conn, handler.Handle(ctx, req))
}

func readRequest(conn net.Conn) (Request, error) {
	_ = conn.SetReadDeadline(time.Now().Add(requestReadTimeout))

	reader := bufio.NewReaderSize(conn, maxRequestBytes)
	line, err := reader.ReadSlice('\n')
	if err != nil {
		return Request{}, fmt.Errorf("read request: %w", err)
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	req.Command = strings.TrimSpace(req.Command)
	return req, nil
}

func writeResponse(conn net.Conn, resp Response) {
	_ = conn.SetWriteDeadline(time.Now().Add(requestReadTimeout))
	_ = json.NewEncoder(conn).Encode(resp)
}
