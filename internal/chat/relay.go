package chat

import (
	"log"
	"sync"
	"time"

	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/types"
)

// Event is the wire payload exchanged over a chat connection.
type Event struct {
	Type      string    `json:"type"`
	RoomID    uint      `json:"room_id"`
	SenderID  uint      `json:"sender_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

const (
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
)

// Client is one realtime connection. The transport layer drains Send and
// writes each event to the underlying socket.
type Client struct {
	UserID uint
	Send   chan Event
}

func NewClient(userID uint) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan Event, 64),
	}
}

// Relay fans chat messages out to the participants joined to a request's
// room and persists each message before broadcasting it. Room membership is
// owned by the relay, not ambient global state, so it can be exercised
// without a live network layer.
type Relay struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]struct{}

	requests *store.RequestStore
	messages *store.MessageStore
}

func NewRelay(requests *store.RequestStore, messages *store.MessageStore) *Relay {
	return &Relay{
		rooms:    make(map[uint]map[*Client]struct{}),
		requests: requests,
		messages: messages,
	}
}

// Join adds the client to a room. Join is unconditional; room validity is
// checked at send time by resolving the request.
func (r *Relay) Join(roomID uint, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[*Client]struct{})
	}

	r.rooms[roomID][client] = struct{}{}
}

func (r *Relay) Leave(roomID uint, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(roomID, client)
}

// Drop removes the client from every room it joined. Called when the
// connection closes.
func (r *Relay) Drop(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.rooms {
		r.removeLocked(roomID, client)
	}
}

func (r *Relay) removeLocked(roomID uint, client *Client) {
	if members, exists := r.rooms[roomID]; exists {
		delete(members, client)

		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

// Send persists the message and broadcasts it to every other member of the
// room. The sender is identified by the connection, not the payload, and is
// excluded from the broadcast since it already has a local echo.
//
// A message is only meaningful for an approved request with an assigned
// donor; when resolution fails the message is logged and dropped without
// raising an error to the sender's connection. Persistence happens before
// the broadcast for each message, but delivery to each member is
// independent and best-effort: a slow member's full buffer drops the event
// rather than blocking the room.
func (r *Relay) Send(roomID uint, sender *Client, message string, timestamp time.Time) {
	request, err := r.requests.Get(roomID)

	if err != nil {
		log.Printf("Dropping chat message for room %d: %v", roomID, err)
		return
	}

	if request.Status != types.StatusApproved || request.AssignedDonorID == nil {
		log.Printf("Dropping chat message for room %d: request not approved", roomID)
		return
	}

	counterpart := *request.AssignedDonorID
	if sender.UserID != request.RecipientUserID {
		counterpart = request.RecipientUserID
	}

	if _, err := r.messages.Append(roomID, sender.UserID, counterpart, message, timestamp); err != nil {
		log.Printf("Failed to persist chat message for room %d: %v", roomID, err)
		return
	}

	event := Event{
		Type:      EventReceiveMessage,
		RoomID:    roomID,
		SenderID:  sender.UserID,
		Message:   message,
		Timestamp: timestamp,
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for member := range r.rooms[roomID] {
		if member == sender {
			continue
		}

		select {
		case member.Send <- event:
		default:
			log.Printf("Dropping chat event for slow member of room %d", roomID)
		}
	}
}
