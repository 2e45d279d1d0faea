package server

import (
	"encoding/json"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/app"
	"github.com/ayusman/mediagraph/internal/detector"
	"github.com/ayusman/mediagraph/internal/logger"
)

// clientBuffer is the number of landmark messages queued per websocket
// client before new ones are dropped.
const clientBuffer = 16

// Message is the JSON document pushed to landmark subscribers.
type Message struct {
	Seq       uint64          `json:"seq"`
	Timestamp int64           `json:"timestamp"`
	Result    detector.Result `json:"result"`
}

// Hub is an app.Sink fanning processed frames out to HTTP clients: the
// latest frame as JPEG for MJPEG viewers and the landmarks as JSON for
// websocket subscribers. Frames are only encoded while a viewer is
// connected.
type Hub struct {
	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	updated chan struct{}
	viewers int
	clients map[*client]struct{}
	dropped int
}

var _ app.Sink = (*Hub)(nil)

type client struct {
	send chan []byte
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		updated: make(chan struct{}),
		clients: make(map[*client]struct{}),
	}
}

// Consume implements app.Sink.
func (h *Hub) Consume(p app.Processed) {
	h.mu.Lock()
	viewers, subscribers := h.viewers, len(h.clients)
	h.mu.Unlock()

	var jpeg []byte
	if viewers > 0 && p.Image != nil && !p.Image.Empty() {
		buf, err := gocv.IMEncode(gocv.JPEGFileExt, *p.Image)
		if err != nil {
			logger.S().Warnw("encode stream frame", "seq", p.Seq, "error", err)
		} else {
			jpeg = append([]byte(nil), buf.GetBytes()...)
			buf.Close()
		}
	}

	var msg []byte
	if subscribers > 0 {
		var err error
		msg, err = json.Marshal(Message{Seq: p.Seq, Timestamp: p.Timestamp.UnixMilli(), Result: p.Result})
		if err != nil {
			logger.S().Warnw("encode landmarks", "seq", p.Seq, "error", err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if jpeg != nil {
		h.jpeg = jpeg
		h.seq = p.Seq
		close(h.updated)
		h.updated = make(chan struct{})
	}
	if msg != nil {
		for c := range h.clients {
			select {
			case c.send <- msg:
			default:
				h.dropped++
			}
		}
	}
}

// Latest returns the most recent JPEG frame, its sequence number and a
// channel closed when a newer frame arrives.
func (h *Hub) Latest() ([]byte, uint64, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.jpeg, h.seq, h.updated
}

// Viewers returns the number of connected MJPEG viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewers
}

// Subscribers returns the number of connected websocket clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many landmark messages were dropped for slow clients.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hub) addViewer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewers++
}

func (h *Hub) removeViewer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewers--
}

func (h *Hub) subscribe() *client {
	c := &client{send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

