package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ipcVersion = 1
	dialWait   = 5 * time.Second
	replyWait  = 5 * time.Second
)

// ErrClosed is returned by calls on a closed Client.
var ErrClosed = errors.New("discord ipc connection closed")

// User is the account the desktop client is logged in as.
type User struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Avatar     *string `json:"avatar"`
}

// RejectedError is a reply with evt == "ERROR".
type RejectedError struct {
	Cmd     string
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected by client", e.Cmd)
	}
	return fmt.Sprintf("%s rejected by client: %s (code %d)", e.Cmd, e.Message, e.Code)
}

type reply struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

type errorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type readyData struct {
	User *User `json:"user"`
}

// Client is one handshaken IPC session. Calls are serialized.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
	pid  int
	user *User
}

// Dial connects to the socket at path and performs the handshake.
func Dial(ctx context.Context, path, clientID string) (*Client, error) {
	dialer := net.Dialer{Timeout: dialWait}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect discord ipc: %w", err)
	}
	c := &Client{conn: conn, pid: os.Getpid()}

	var ready readyData
	err = c.roundTrip(ctx, "HANDSHAKE", "", OpHandshake, map[string]any{
		"v":         ipcVersion,
		"client_id": clientID,
	}, &ready)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	c.user = ready.User
	return c, nil
}

// User returns the account reported by the handshake, or nil.
func (c *Client) User() *User {
	return c.user
}

// SetActivity publishes act for this process.
func (c *Client) SetActivity(ctx context.Context, act Activity) error {
	return c.command(ctx, "SET_ACTIVITY", map[string]any{
		"pid":      c.pid,
		"activity": act,
	})
}

// ClearActivity removes this process's activity.
func (c *Client) ClearActivity(ctx context.Context) error {
	return c.command(ctx, "SET_ACTIVITY", map[string]any{
		"pid":      c.pid,
		"activity": nil,
	})
}

// Close ends the session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) command(ctx context.Context, cmd string, args map[string]any) error {
	nonce := uuid.NewString()
	return c.roundTrip(ctx, cmd, nonce, OpFrame, map[string]any{
		"cmd":   cmd,
		"args":  args,
		"nonce": nonce,
	}, nil)
}

// roundTrip writes one frame and reads until its reply. With a non-empty
// nonce, replies carrying any other nonce are skipped.
func (c *Client) roundTrip(ctx context.Context, cmd, nonce string, op Opcode, payload any, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrClosed
	}

	deadline := time.Now().Add(replyWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	defer func() { _ = c.conn.SetDeadline(time.Time{}) }()

	if err := WriteFrame(c.conn, op, payload); err != nil {
		return err
	}
	for {
		gotOp, body, err := ReadFrame(c.conn)
		if err != nil {
			return err
		}
		switch gotOp {
		case OpPing:
			if err := WriteFrame(c.conn, OpPong, body); err != nil {
				return err
			}
			continue
		case OpClose:
			return rejected(cmd, body)
		}

		var r reply
		if err := json.Unmarshal(body, &r); err != nil {
			return fmt.Errorf("decode %s reply: %w", cmd, err)
		}
		if nonce != "" && r.Nonce != nonce {
			continue
		}
		return decodeReply(cmd, r, dest)
	}
}

// rejected builds a RejectedError from an error body, keeping the raw body
// as the message when it does not carry one.
func rejected(cmd string, body json.RawMessage) *RejectedError {
	var data errorData
	if err := json.Unmarshal(body, &data); err != nil || data.Message == "" {
		data.Message = strings.TrimSpace(string(body))
	}
	return &RejectedError{Cmd: cmd, Code: data.Code, Message: data.Message}
}

func decodeReply(cmd string, r reply, dest any) error {
	if r.Evt == "ERROR" {
		return rejected(cmd, r.Data)
	}
	if dest == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, dest); err != nil {
		return fmt.Errorf("decode %s data: %w", cmd, err)
	}
	return nil
}
