package ipc

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
)

const socketName = "vacuum-launcher.sock"

// defaultClientTimeout bounds the whole exchange when the caller's context
// carries no deadline of its own.
const defaultClientTimeout = 5 * time.Second

// SocketPath resolves the well-known socket location: the user runtime dir
// if the session provides one, the user cache dir otherwise, /tmp as the
// last resort.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join("/tmp", socketName)
}

// Send performs one command/response exchange with a running daemon: dial,
// write the encoded command, read a single response, close.
func Send(ctx context.Context, socketPath string, cmd Command) (Response, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return Response{}, errors.WrapError(err, errors.CategoryIPC, "failed to connect to daemon")
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultClientTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return Response{}, errors.WrapError(err, errors.CategoryIPC, "failed to set socket deadline")
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, errors.WrapError(err, errors.CategoryInternal, "failed to encode command")
	}
	if _, err := conn.Write(payload); err != nil {
		return Response{}, errors.WrapError(err, errors.CategoryIPC, "failed to send command")
	}

	buf := make([]byte, MaxResponseBytes)
	n, err := conn.Read(buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return Response{}, errors.WrapError(err, errors.CategoryIPC, "failed to read response")
		}
		return Response{}, errors.DaemonError("no response from daemon")
	}

	var resp Response
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return Response{}, errors.WrapError(err, errors.CategoryIPC, "failed to decode response")
	}
	return resp, nil
}
