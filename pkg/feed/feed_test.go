package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

type testStatus struct {
	Score   int `json:"score"`
	Raiders int `json:"raiders"`
}

type testHandler struct {
	mu     sync.Mutex
	inputs []InputMessage
}

func (h *testHandler) HandleInput(in InputMessage) error {
	if in.Button != "left" && in.Button != "right" {
		return errors.New("unknown button")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inputs = append(h.inputs, in)
	return nil
}

func (h *testHandler) Status() interface{} {
	return testStatus{Score: 40, Raiders: 2}
}

func (h *testHandler) received() []InputMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]InputMessage(nil), h.inputs...)
}

func startTestServer(t *testing.T) (*Server, *testHandler, *httptest.Server, string) {
	t.Helper()

	handler := &testHandler{}
	s := NewServer("127.0.0.1:0", handler)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Hub().Run(ctx)

	srv := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return s, handler, srv, wsURL
}

func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	env := map[string]interface{}{"t": msgType}
	if data != nil {
		env["d"] = data
	}
	raw, _ := json.Marshal(env)
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

func TestHealthAndStatusEndpoints(t *testing.T) {
	_, _, srv, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	var status testStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if status.Score != 40 || status.Raiders != 2 {
		t.Errorf("Expected score 40 with 2 raiders, got %+v", status)
	}
}

func TestPublishDeliversBinaryFrames(t *testing.T) {
	s, _, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	waitFor(t, "client registration", func() bool { return s.Hub().ClientCount() == 1 })

	snapshot := map[string]interface{}{"tick": 7}
	if err := s.Publish(7, 0.125, snapshot); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("Expected binary frame, got message type %d", msgType)
	}

	var frame Frame
	if err := msgpack.Unmarshal(raw, &frame); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if frame.Tick != 7 || frame.Time != 0.125 {
		t.Errorf("Expected tick 7 at 0.125, got %d at %f", frame.Tick, frame.Time)
	}

	var decoded map[string]interface{}
	if err := frame.DecodeSnapshot(&decoded); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if _, ok := decoded["tick"]; !ok {
		t.Errorf("Expected tick key in snapshot, got %v", decoded)
	}
}

func TestInputAndStatusMessages(t *testing.T) {
	s, handler, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	waitFor(t, "client registration", func() bool { return s.Hub().ClientCount() == 1 })

	sendEnvelope(t, conn, MsgInput, InputMessage{Button: "left", X: 800, Y: 400, Ctrl: true})
	waitFor(t, "input delivery", func() bool { return len(handler.received()) == 1 })

	got := handler.received()[0]
	if got.X != 800 || got.Y != 400 || !got.Ctrl || got.Shift {
		t.Errorf("Expected left ctrl-click at (800,400), got %+v", got)
	}

	sendEnvelope(t, conn, MsgStatus, nil)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("Expected text reply, got message type %d", msgType)
	}

	var reply struct {
		T    string     `json:"t"`
		Data testStatus `json:"data"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if reply.T != MsgStatusReply || reply.Data.Score != 40 {
		t.Errorf("Expected status reply with score 40, got %+v", reply)
	}
}

func TestInvalidMessagesAreDropped(t *testing.T) {
	s, handler, _, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	waitFor(t, "client registration", func() bool { return s.Hub().ClientCount() == 1 })

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write WS: %v", err)
	}
	sendEnvelope(t, conn, "launch", nil)
	sendEnvelope(t, conn, MsgInput, InputMessage{Button: "middle"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if reply.T != MsgError {
		t.Errorf("Expected error reply for rejected input, got %q", reply.T)
	}

	if n := len(handler.received()); n != 0 {
		t.Errorf("Expected no accepted inputs, got %d", n)
	}
	if s.Hub().ClientCount() != 1 {
		t.Error("Expected connection to survive invalid messages")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	handler := &testHandler{}
	s := NewServer("127.0.0.1:0", handler)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Hub().Run(ctx)

	srv := httptest.NewServer(s.Router())
	defer srv.Close()
	conn := dialWS(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	waitFor(t, "client registration", func() bool { return s.Hub().ClientCount() == 1 })

	// Requests in flight while the hub stops still get served or dropped.
	for i := 0; i < 5; i++ {
		sendEnvelope(t, conn, MsgStatus, nil)
	}
	cancel()
	waitFor(t, "hub shutdown", func() bool { return s.Hub().ClientCount() == 0 })
	conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"status"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var closeErr error
	for closeErr == nil {
		_, _, closeErr = conn.ReadMessage()
	}
	if !websocket.IsCloseError(closeErr, websocket.CloseGoingAway) {
		t.Errorf("Expected going-away close from the feed, got %v", closeErr)
	}
}
