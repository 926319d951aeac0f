package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type handler func(op Opcode, body json.RawMessage) (Opcode, any)

// frames makes the server write several replies to one request.
type frames []any

// startServer listens on a fresh unix socket and answers every frame with h.
// Received payloads are sent on the returned channel.
func startServer(t *testing.T, h handler) (string, <-chan json.RawMessage) {
	t.Helper()
	// Socket paths are length limited, so avoid the long t.TempDir names.
	dir, err := os.MkdirTemp("", "ipc")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "discord-ipc-0")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	received := make(chan json.RawMessage, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer func() { _ = conn.Close() }()
				for {
					op, body, err := ReadFrame(conn)
					if err != nil {
						return
					}
					received <- body
					replyOp, payload := h(op, body)
					batch, ok := payload.(frames)
					if !ok {
						batch = frames{payload}
					}
					for _, p := range batch {
						if err := WriteFrame(conn, replyOp, p); err != nil {
							return
						}
					}
				}
			}(conn)
		}
	}()
	return path, received
}

func readyHandler(next handler) handler {
	return func(op Opcode, body json.RawMessage) (Opcode, any) {
		if op == OpHandshake {
			return OpFrame, map[string]any{
				"cmd": "DISPATCH",
				"evt": "READY",
				"data": map[string]any{
					"user": map[string]any{"id": "42", "username": "ada", "global_name": "Ada", "avatar": "a_hash"},
				},
			}
		}
		return next(op, body)
	}
}

func nonceOf(body json.RawMessage) string {
	var cmd struct {
		Nonce string `json:"nonce"`
	}
	_ = json.Unmarshal(body, &cmd)
	return cmd.Nonce
}

func ack(op Opcode, body json.RawMessage) (Opcode, any) {
	return OpFrame, map[string]any{"cmd": "SET_ACTIVITY", "evt": nil, "nonce": nonceOf(body), "data": map[string]any{}}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDial_HandshakeReportsUser(t *testing.T) {
	path, received := startServer(t, readyHandler(ack))
	ctx := testContext(t)

	c, err := Dial(ctx, path, "1234")
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	var hs struct {
		V        int    `json:"v"`
		ClientID string `json:"client_id"`
	}
	if err := json.Unmarshal(<-received, &hs); err != nil {
		t.Fatalf("decode handshake: %v", err)
	}
	if hs.V != 1 || hs.ClientID != "1234" {
		t.Fatalf("handshake = %#v", hs)
	}

	u := c.User()
	if u == nil || u.ID != "42" || u.Username != "ada" {
		t.Fatalf("User = %#v", u)
	}
	if u.GlobalName == nil || *u.GlobalName != "Ada" || u.Avatar == nil || *u.Avatar != "a_hash" {
		t.Fatalf("optional user fields = %#v", u)
	}
}

func TestClient_SetAndClearActivity(t *testing.T) {
	path, received := startServer(t, readyHandler(ack))
	ctx := testContext(t)

	c, err := Dial(ctx, path, "1234")
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	<-received

	if err := c.SetActivity(ctx, Activity{Details: "Coding"}); err != nil {
		t.Fatalf("SetActivity returned error: %v", err)
	}
	var cmd struct {
		Cmd  string `json:"cmd"`
		Args struct {
			PID      int              `json:"pid"`
			Activity *json.RawMessage `json:"activity"`
		} `json:"args"`
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(<-received, &cmd); err != nil {
		t.Fatalf("decode command: %v", err)
	}
	if cmd.Cmd != "SET_ACTIVITY" || cmd.Nonce == "" || cmd.Args.PID != os.Getpid() {
		t.Fatalf("command = %#v", cmd)
	}
	if cmd.Args.Activity == nil || string(*cmd.Args.Activity) != `{"details":"Coding"}` {
		t.Fatalf("activity = %v", cmd.Args.Activity)
	}
	firstNonce := cmd.Nonce

	if err := c.ClearActivity(ctx); err != nil {
		t.Fatalf("ClearActivity returned error: %v", err)
	}
	var clear struct {
		Args  map[string]json.RawMessage `json:"args"`
		Nonce string                     `json:"nonce"`
	}
	if err := json.Unmarshal(<-received, &clear); err != nil {
		t.Fatalf("decode clear: %v", err)
	}
	if string(clear.Args["activity"]) != "null" {
		t.Fatalf("clear activity = %s, want null", clear.Args["activity"])
	}
	if clear.Nonce == firstNonce {
		t.Fatal("nonce reused across commands")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := c.SetActivity(ctx, Activity{Details: "Coding"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("SetActivity after Close err = %v, want ErrClosed", err)
	}
}

func TestClient_RejectedActivity(t *testing.T) {
	path, _ := startServer(t, readyHandler(func(op Opcode, body json.RawMessage) (Opcode, any) {
		return OpFrame, map[string]any{
			"cmd":   "SET_ACTIVITY",
			"evt":   "ERROR",
			"nonce": nonceOf(body),
			"data":  map[string]any{"code": 4000, "message": "child \"activity\" fails"},
		}
	}))
	ctx := testContext(t)

	c, err := Dial(ctx, path, "1234")
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	err = c.SetActivity(ctx, Activity{Details: "Coding"})
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("err = %v, want RejectedError", err)
	}
	if rejected.Code != 4000 || rejected.Cmd != "SET_ACTIVITY" {
		t.Fatalf("rejected = %#v", rejected)
	}
}

func TestDial_HandshakeError(t *testing.T) {
	path, _ := startServer(t, func(op Opcode, body json.RawMessage) (Opcode, any) {
		return OpClose, map[string]any{"code": 4000, "message": "Invalid Client ID"}
	})

	_, err := Dial(testContext(t), path, "bad")
	var rejected *RejectedError
	if !errors.As(err, &rejected) || rejected.Message != "Invalid Client ID" {
		t.Fatalf("err = %v, want handshake rejection", err)
	}
}

func TestClient_SkipsRepliesForOtherNonces(t *testing.T) {
	path, _ := startServer(t, readyHandler(func(op Opcode, body json.RawMessage) (Opcode, any) {
		return OpFrame, frames{
			map[string]any{"cmd": "SET_ACTIVITY", "evt": "ERROR", "nonce": "stale", "data": map[string]any{"code": 4000, "message": "old"}},
			map[string]any{"cmd": "DISPATCH", "evt": "ACTIVITY_JOIN", "nonce": nil, "data": map[string]any{}},
			map[string]any{"cmd": "SET_ACTIVITY", "evt": nil, "nonce": nonceOf(body), "data": map[string]any{}},
		}
	}))
	ctx := testContext(t)

	c, err := Dial(ctx, path, "1234")
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.SetActivity(ctx, Activity{Details: "Coding"}); err != nil {
		t.Fatalf("SetActivity returned error: %v", err)
	}
}

func TestClient_RejectionWithoutMessageKeepsBody(t *testing.T) {
	cases := []struct {
		name string
		data any
		want string
	}{
		{name: "string data", data: "rate limited", want: `"rate limited"`},
		{name: "no message", data: map[string]any{"code": 4002}, want: `{"code":4002}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path, _ := startServer(t, readyHandler(func(op Opcode, body json.RawMessage) (Opcode, any) {
				return OpFrame, map[string]any{"cmd": "SET_ACTIVITY", "evt": "ERROR", "nonce": nonceOf(body), "data": tc.data}
			}))
			ctx := testContext(t)

			c, err := Dial(ctx, path, "1234")
			if err != nil {
				t.Fatalf("Dial returned error: %v", err)
			}
			t.Cleanup(func() { _ = c.Close() })

			err = c.SetActivity(ctx, Activity{Details: "Coding"})
			var rejected *RejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("err = %v, want RejectedError", err)
			}
			if rejected.Message != tc.want {
				t.Fatalf("Message = %q, want %q", rejected.Message, tc.want)
			}
		})
	}
}
