package liveview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"netherpath/internal/geometry"
	"netherpath/internal/search"
)

func dialBroadcaster(t *testing.T, b *Broadcaster) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(b.Handler))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitForClientCount(t *testing.T, b *Broadcaster, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d, got %d", want, b.ClientCount())
}

func TestBroadcasterDeliversNodeExpandedEvent(t *testing.T) {
	b := New()
	conn, cleanup := dialBroadcaster(t, b)
	defer cleanup()
	waitForClientCount(t, b, 1)

	pos := geometry.NodePos{Size: geometry.Size4, Origin: geometry.BlockPos{X: 16, Y: 64, Z: 0}}
	b.NodeExpanded(context.Background(), pos)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got event
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, eventNodeExpanded, got.Kind)
	require.NotNil(t, got.Node)
	require.Equal(t, int32(4), got.Node.Size)
	require.Equal(t, pos.Origin, got.Node.Origin)
}

func TestBroadcasterDeliversSegmentFoundEvent(t *testing.T) {
	b := New()
	conn, cleanup := dialBroadcaster(t, b)
	defer cleanup()
	waitForClientCount(t, b, 1)

	path := &search.Path{
		Type:   search.FinishedPath,
		Start:  geometry.BlockPos{X: 0, Y: 64, Z: 0},
		Goal:   geometry.BlockPos{X: 10, Y: 64, Z: 0},
		Blocks: []geometry.BlockPos{{X: 0, Y: 64, Z: 0}, {X: 10, Y: 64, Z: 0}},
	}
	b.SegmentFound(context.Background(), path)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got event
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, eventSegmentFound, got.Kind)
	require.NotNil(t, got.Segment)
	require.Equal(t, "finished", got.Segment.Type)
	require.Len(t, got.Segment.Blocks, 2)
}

func TestBroadcasterDisconnectRemovesClient(t *testing.T) {
	b := New()
	conn, cleanup := dialBroadcaster(t, b)
	waitForClientCount(t, b, 1)

	conn.Close()
	cleanup()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && b.ClientCount() != 0 {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 0, b.ClientCount())
}
