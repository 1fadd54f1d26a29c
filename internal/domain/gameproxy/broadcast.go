package gameproxy

import (
	"github.com/puzpuzpuz/xsync/v2"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/pkg/logger"
	"github.com/quizbattle-lab/backend/pkg/ws"
)

// Broadcaster maps a room id to its set of subscribed connections and fans
// room messages out to them. Delivery pushes into each client's buffered
// write channel, so a broadcast never blocks on a slow peer; the per-client
// writer goroutine does the network I/O.
type Broadcaster struct {
	logger      logger.Logger
	compression bool

	topics *xsync.MapOf[string, *xsync.MapOf[string, *ws.Client]]
}

func NewBroadcaster(logger logger.Logger, compression bool) *Broadcaster {
	return &Broadcaster{
		logger:      logger,
		compression: compression,
		topics:      xsync.NewMapOf[*xsync.MapOf[string, *ws.Client]](),
	}
}

// Subscribe adds the connection to the room's topic, creating the topic on
// first use. Resubscribing replaces the player's previous connection.
func (b *Broadcaster) Subscribe(roomID, playerID string, client *ws.Client) {
	topic, _ := b.topics.LoadOrCompute(roomID, func() *xsync.MapOf[string, *ws.Client] {
		return xsync.NewMapOf[*ws.Client]()
	})
	topic.Store(playerID, client)
}

// Unsubscribe removes a single connection from the room's topic.
func (b *Broadcaster) Unsubscribe(roomID, playerID string) {
	if topic, ok := b.topics.Load(roomID); ok {
		topic.Delete(playerID)
	}
}

// Broadcast delivers the message to the current snapshot of subscribers. A
// subscriber whose connection died mid-broadcast is skipped, not fatal.
func (b *Broadcaster) Broadcast(roomID string, msg model.ServerMessage) {
	topic, ok := b.topics.Load(roomID)
	if !ok {
		return
	}

	raw, err := model.MarshalServerMessage(msg)
	if err != nil {
		b.logger.Errorf("Cannot marshal %s message: %v", msg.MessageType(), err)
		return
	}

	topic.Range(func(playerID string, client *ws.Client) bool {
		if err := client.Write(raw, b.compression); err != nil {
			b.logger.Debugf("Cannot broadcast to player %s in room %s: %v", playerID, roomID, err)
		}
		return true
	})
}

// DeleteTopic drops the room's topic and all its subscriptions.
func (b *Broadcaster) DeleteTopic(roomID string) {
	b.topics.Delete(roomID)
}
