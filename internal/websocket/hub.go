package websocket

import (
	"sync"

	"github.com/isdelr/wsquared-be/internal/models"
	"github.com/rs/zerolog/log"
)

type directMessage struct {
	clientID string
	payload  []byte
}

type replyMessage struct {
	client  *Client
	payload []byte
}

// Hub maintains the set of active connections grouped by client ID. All map
// access happens on the Run goroutine.
type Hub struct {
	// Connections per client ID.
	subscriptions map[string]map[*Client]bool

	// Register requests from the connections.
	Register chan *Client

	// Unregister requests from connections.
	Unregister chan *Client

	direct   chan directMessage
	reply    chan replyMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[string]map[*Client]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		direct:        make(chan directMessage, 64),
		reply:         make(chan replyMessage, 64),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for _, subs := range h.subscriptions {
				for client := range subs {
					close(client.Send)
				}
			}
			h.subscriptions = make(map[string]map[*Client]bool)
			return
		case client := <-h.Register:
			if h.subscriptions[client.ClientID] == nil {
				h.subscriptions[client.ClientID] = make(map[*Client]bool)
			}
			h.subscriptions[client.ClientID][client] = true
			log.Info().Str("client_id", client.ClientID).Int("connections", len(h.subscriptions[client.ClientID])).Msg("Client connected")
		case client := <-h.Unregister:
			h.remove(client)
		case msg := <-h.direct:
			for client := range h.subscriptions[msg.clientID] {
				select {
				case client.Send <- msg.payload:
				default:
					h.remove(client)
				}
			}
		case msg := <-h.reply:
			if !h.subscriptions[msg.client.ClientID][msg.client] {
				continue
			}
			select {
			case msg.client.Send <- msg.payload:
			default:
				h.remove(msg.client)
			}
		}
	}
}

// Stop ends the Run loop and closes every connection's Send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// BroadcastTo sends a message to every connection of a client.
func (h *Hub) BroadcastTo(clientID string, message []byte) {
	if message == nil {
		return
	}
	select {
	case h.direct <- directMessage{clientID: clientID, payload: message}:
	case <-h.done:
	}
}

// SendTo delivers a message to one connection only, such as the reply to a
// request made on it.
func (h *Hub) SendTo(client *Client, message []byte) {
	if message == nil {
		return
	}
	select {
	case h.reply <- replyMessage{client: client, payload: message}:
	case <-h.done:
	}
}

// NotifySession publishes a client's new shell state to its open tabs.
func (h *Hub) NotifySession(clientID string, state models.ShellState) {
	h.BroadcastTo(clientID, Encode(ActionSessionUpdated, state))
}

func (h *Hub) remove(client *Client) {
	subs, ok := h.subscriptions[client.ClientID]
	if !ok {
		return
	}
	if _, ok := subs[client]; !ok {
		return
	}
	delete(subs, client)
	close(client.Send)
	if len(subs) == 0 {
		delete(h.subscriptions, client.ClientID)
	}
	log.Info().Str("client_id", client.ClientID).Msg("Client disconnected")
}

// Join registers a connection with the hub. It reports false when the hub has
// stopped, in which case the connection's Send channel is closed.
func (h *Hub) Join(client *Client) bool {
	select {
	case <-h.done:
		close(client.Send)
		return false
	default:
	}

	select {
	case h.Register <- client:
		return true
	case <-h.done:
		close(client.Send)
		return false
	}
}

// Leave unregisters a connection. It is a no-op once the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}
