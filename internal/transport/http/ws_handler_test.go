package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/domain"

	"github.com/gorilla/websocket"
)

func TestWebSocketDrawFlow(t *testing.T) {
	srv := newTestServer()
	ctx := context.Background()
	for _, name := range []string{"أحمد", "سارة", "منى"} {
		_, err := srv.submissions.Submit(ctx, app.SubmitRequest{
			QuizID: "quiz-1", Name: name, Email: "e", Phone: "p",
			Answers: map[string]domain.Answer{"q1": domain.TextAnswer("القاهرة")},
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	server := httptest.NewServer(srv.mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/draw?quizId=quiz-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the pool first.
	_, payload := readNext(conn, t, "candidates")
	if cands, _ := payload["candidates"].([]any); len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %v", payload["candidates"])
	}

	if err := conn.WriteJSON(map[string]any{"type": "spin"}); err != nil {
		t.Fatalf("write spin: %v", err)
	}
	_, payload = readNext(conn, t, "tick")
	if payload["name"] == "" || payload["phase"] != "fast" {
		t.Fatalf("unexpected first tick %v", payload)
	}

	// The first tick is emitted before its follow-up is scheduled.
	waitFor(t, func() bool { return srv.clock.Pending() > 0 })
	srv.clock.Flush()

	var winner map[string]any
	for winner == nil {
		typ, payload := readNext(conn, t, "")
		if typ == "settled" {
			winner, _ = payload["winner"].(map[string]any)
		}
	}

	if err := conn.WriteJSON(map[string]any{"type": "confirm"}); err != nil {
		t.Fatalf("write confirm: %v", err)
	}
	_, payload = readNext(conn, t, "confirmed")
	confirmed, _ := payload["winner"].(map[string]any)
	if confirmed["name"] != winner["name"] {
		t.Fatalf("confirmed %v, settled %v", confirmed, winner)
	}

	if err := conn.WriteJSON(map[string]any{"type": "confirm"}); err != nil {
		t.Fatalf("write confirm: %v", err)
	}
	readNext(conn, t, "error")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write unknown: %v", err)
	}
	_, payload = readNext(conn, t, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload %v", payload)
	}

	stored, _ := srv.draws.Winners(ctx, time.Time{}, time.Time{})
	if len(stored) != 1 || stored[0].Name != winner["name"] {
		t.Fatalf("expected recorded winner, got %+v", stored)
	}
}

func TestWebSocketRejectsMissingPool(t *testing.T) {
	srv := newTestServer()
	server := httptest.NewServer(srv.mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/draw"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %+v", resp)
	}
}

func TestWebSocketEmptyPool(t *testing.T) {
	srv := newTestServer()
	server := httptest.NewServer(srv.mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/draw?quizId=quiz-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_, payload := readNext(conn, t, "error")
	if payload["message"] != domain.ErrEmptyPool.Error() {
		t.Fatalf("unexpected error payload %v", payload)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDeliverStopsAfterWriterExits(t *testing.T) {
	send := make(chan outboundMessage[any], 1)
	writerDone := make(chan struct{})

	if !deliver(send, writerDone, outboundMessage[any]{Type: "tick"}) {
		t.Fatalf("expected delivery while the writer runs")
	}

	// Buffer is full and nobody drains it any more.
	close(writerDone)
	done := make(chan bool)
	go func() { done <- deliver(send, writerDone, outboundMessage[any]{Type: "error"}) }()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected delivery to fail once the writer stopped")
		}
	case <-time.After(time.Second):
		t.Fatalf("deliver blocked on a dead writer")
	}
}
