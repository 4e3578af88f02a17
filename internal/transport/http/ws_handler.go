package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"quiz-draw-service/internal/app"
	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/draw"

	"github.com/gorilla/websocket"
)

// DrawWSHandler streams a live draw to a screen and accepts its controls.
type DrawWSHandler struct {
	service  *app.DrawService
	upgrader websocket.Upgrader
}

func NewDrawWSHandler(service *app.DrawService) *DrawWSHandler {
	return &DrawWSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type openedPayload struct {
	Key        string             `json:"key"`
	Candidates []domain.Candidate `json:"candidates"`
	State      draw.State         `json:"state"`
}

type tickPayload struct {
	Name      string     `json:"name"`
	Phase     draw.Phase `json:"phase"`
	Iteration int        `json:"iteration"`
	Total     int        `json:"total"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type winnerPayload struct {
	Winner domain.Candidate `json:"winner"`
}

// ServeWS upgrades the request, opens the draw room for the requested pool
// and relays its events until the client disconnects.
func (h *DrawWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	key, candidates, poolErr := resolvePool(r, h.service)
	var br badRequest
	if errors.As(poolErr, &br) {
		http.Error(w, br.msg, http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if poolErr != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: poolErr.Error()}})
		return
	}
	room, err := h.service.Open(r.Context(), key, candidates)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	events, cancel, err := h.service.Subscribe(key)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Release(key)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// Unblock the read loop; the connection is unusable.
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- eventMessage(ev):
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	opened := deliver(send, writerDone, outboundMessage[any]{Type: "candidates", Payload: openedPayload{
		Key:        key,
		Candidates: room.Candidates(),
		State:      room.State(),
	}})

	for opened {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.handle(r.Context(), key, inbound); ok && !deliver(send, writerDone, msg) {
			break
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

// deliver queues msg for the writer and reports false once the writer has
// stopped, so a dead connection never blocks the caller.
func deliver(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

// handle applies a control message. Results reach every watcher through
// the room's events, so only failures are answered directly.
func (h *DrawWSHandler) handle(ctx context.Context, key string, in inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch in.Type {
	case "spin":
		_, err = h.service.Spin(key)
	case "confirm":
		_, err = h.service.Confirm(ctx, key)
	case "reset":
		err = h.service.Reset(key)
	default:
		err = errors.New("unsupported message type")
	}
	if err != nil {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}, true
	}
	return outboundMessage[any]{}, false
}

func eventMessage(ev app.DrawEvent) outboundMessage[any] {
	switch {
	case ev.Tick != nil:
		return outboundMessage[any]{Type: ev.Type, Payload: tickPayload{
			Name:      ev.Tick.Name,
			Phase:     ev.Tick.Phase,
			Iteration: ev.Tick.Iteration,
			Total:     ev.Tick.Total,
		}}
	case ev.Winner != nil:
		return outboundMessage[any]{Type: ev.Type, Payload: winnerPayload{Winner: *ev.Winner}}
	}
	return outboundMessage[any]{Type: ev.Type, Payload: struct{}{}}
}
