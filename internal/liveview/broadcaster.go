// Package liveview broadcasts search progress to connected websocket
// clients, for local visual debugging of the search frontier. It is never
// required by the engine itself (SPEC_FULL.md §6.8); cmd/pathfinder's
// "serve" subcommand is the only caller.
package liveview

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"netherpath/internal/geometry"
	"netherpath/internal/search"
)

// upgrader allows connections from any origin; this is a local debug tool,
// not a production-facing endpoint.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const sendBuffer = 32
const writeTimeout = 10 * time.Second

// eventKind distinguishes the two messages a Broadcaster emits.
type eventKind string

const (
	eventNodeExpanded eventKind = "node_expanded"
	eventSegmentFound eventKind = "segment_found"
)

type event struct {
	Kind    eventKind    `json:"kind"`
	Node    *nodeWire    `json:"node,omitempty"`
	Segment *segmentWire `json:"segment,omitempty"`
}

type nodeWire struct {
	Size   int32             `json:"size"`
	Origin geometry.BlockPos `json:"origin"`
}

type segmentWire struct {
	Type   string              `json:"type"`
	Start  geometry.BlockPos   `json:"start"`
	Goal   geometry.BlockPos   `json:"goal"`
	Blocks []geometry.BlockPos `json:"blocks"`
}

// client is one connected debug websocket, with a dedicated write goroutine
// reading off a buffered channel so a slow client can't stall the search.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

func (c *client) writeLoop() {
	for payload := range c.send {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			break
		}
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			log.Printf("liveview: set write deadline: %v", err)
			break
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("liveview: write: %v", err)
			break
		}
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Broadcaster implements search.Observer, fanning every node expansion and
// segment discovery out to connected debug clients as JSON.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// New returns a Broadcaster with no clients connected.
func New() *Broadcaster {
	return &Broadcaster{clients: make(map[*client]struct{})}
}

// Handler upgrades the HTTP connection to a websocket and registers the
// resulting client until it disconnects. This call blocks for the
// connection's lifetime; wire it up as an http.HandlerFunc in cmd/pathfinder.
func (b *Broadcaster) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("liveview: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	go c.writeLoop()

	// Drain and discard inbound frames (including close frames) to keep the
	// connection alive until the peer disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	delete(b.clients, c)
	b.mu.Unlock()
	c.close()
}

// NodeExpanded implements search.Observer.
func (b *Broadcaster) NodeExpanded(_ context.Context, pos geometry.NodePos) {
	b.publish(event{
		Kind: eventNodeExpanded,
		Node: &nodeWire{Size: pos.Size.Blocks(), Origin: pos.Origin},
	})
}

// SegmentFound implements search.Observer.
func (b *Broadcaster) SegmentFound(_ context.Context, path *search.Path) {
	b.publish(event{
		Kind: eventSegmentFound,
		Segment: &segmentWire{
			Type:   path.Type.String(),
			Start:  path.Start,
			Goal:   path.Goal,
			Blocks: path.Blocks,
		},
	})
}

func (b *Broadcaster) publish(e event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("liveview: marshal event: %v", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- payload:
		default:
			log.Printf("liveview: dropped event for slow client")
		}
	}
}

// ClientCount reports the number of currently connected debug clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
