package chat

import (
	"testing"
	"time"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRelay(t *testing.T) (*Relay, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(&models.User{}, &models.Donor{}, &models.BloodRequest{}, &models.ChatMessage{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewRelay(store.NewRequestStore(gdb), store.NewMessageStore(gdb)), gdb
}

func approvedRequest(t *testing.T, gdb *gorm.DB, recipientID, donorID uint) uint {
	t.Helper()

	recipient := models.User{Email: "recipient@example.com", PasswordHash: "x", FullName: "Recipient", BloodGroup: "O-", Role: "user"}
	donor := models.User{Email: "donor@example.com", PasswordHash: "x", FullName: "Donor", BloodGroup: "O-", Role: "user"}
	recipient.ID = recipientID
	donor.ID = donorID

	if err := gdb.Create(&recipient).Error; err != nil {
		t.Fatalf("failed to create recipient: %v", err)
	}
	if err := gdb.Create(&donor).Error; err != nil {
		t.Fatalf("failed to create donor: %v", err)
	}

	adminID := uint(1)
	request := models.BloodRequest{
		RecipientUserID:    recipientID,
		RequiredBloodGroup: "O-",
		HospitalName:       "City Hospital",
		Status:             types.StatusApproved,
		ApprovedByAdminID:  &adminID,
		AssignedDonorID:    &donorID,
	}

	if err := gdb.Create(&request).Error; err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	return request.ID
}

func tryReceive(client *Client) (Event, bool) {
	select {
	case event := <-client.Send:
		return event, true
	default:
		return Event{}, false
	}
}

func TestSendPersistsThenBroadcastsToOthers(t *testing.T) {
	relay, gdb := newTestRelay(t)
	roomID := approvedRequest(t, gdb, 7, 9)

	sender := NewClient(7)
	counterpart := NewClient(9)
	secondDevice := NewClient(9)

	relay.Join(roomID, sender)
	relay.Join(roomID, counterpart)
	relay.Join(roomID, secondDevice)

	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	relay.Send(roomID, sender, "hi", timestamp)

	for _, client := range []*Client{counterpart, secondDevice} {
		event, ok := tryReceive(client)
		if !ok {
			t.Fatal("joined member did not receive the broadcast")
		}
		if event.Type != EventReceiveMessage {
			t.Errorf("event type = %q, want %q", event.Type, EventReceiveMessage)
		}
		if event.RoomID != roomID || event.SenderID != 7 || event.Message != "hi" {
			t.Errorf("event = %+v", event)
		}
	}

	if _, ok := tryReceive(sender); ok {
		t.Error("sender received its own broadcast")
	}

	var persisted []models.ChatMessage
	if err := gdb.Find(&persisted).Error; err != nil {
		t.Fatalf("failed to load messages: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("%d messages persisted, want exactly 1", len(persisted))
	}
	if persisted[0].SenderID != 7 || persisted[0].RecipientID != 9 {
		t.Errorf("persisted message sender/recipient = %d/%d, want 7/9", persisted[0].SenderID, persisted[0].RecipientID)
	}
	if persisted[0].RequestID != roomID {
		t.Errorf("persisted message request = %d, want %d", persisted[0].RequestID, roomID)
	}
}

func TestSendFromDonorResolvesRecipientAsCounterpart(t *testing.T) {
	relay, gdb := newTestRelay(t)
	roomID := approvedRequest(t, gdb, 7, 9)

	donorClient := NewClient(9)
	relay.Join(roomID, donorClient)

	relay.Send(roomID, donorClient, "on my way", time.Now())

	var persisted models.ChatMessage
	if err := gdb.First(&persisted).Error; err != nil {
		t.Fatalf("failed to load message: %v", err)
	}
	if persisted.SenderID != 9 || persisted.RecipientID != 7 {
		t.Errorf("sender/recipient = %d/%d, want 9/7", persisted.SenderID, persisted.RecipientID)
	}
}

func TestSendUnknownRoomIsDropped(t *testing.T) {
	relay, gdb := newTestRelay(t)

	sender := NewClient(7)
	listener := NewClient(9)
	relay.Join(999, sender)
	relay.Join(999, listener)

	relay.Send(999, sender, "anyone there?", time.Now())

	if _, ok := tryReceive(listener); ok {
		t.Error("message for unknown room was broadcast")
	}

	var count int64
	gdb.Model(&models.ChatMessage{}).Count(&count)
	if count != 0 {
		t.Errorf("%d messages persisted for unknown room", count)
	}
}

func TestSendPendingRoomIsDropped(t *testing.T) {
	relay, gdb := newTestRelay(t)

	recipient := models.User{Email: "recipient@example.com", PasswordHash: "x", FullName: "Recipient", BloodGroup: "O-", Role: "user"}
	if err := gdb.Create(&recipient).Error; err != nil {
		t.Fatalf("failed to create recipient: %v", err)
	}

	request := models.BloodRequest{
		RecipientUserID:    recipient.ID,
		RequiredBloodGroup: "O-",
		HospitalName:       "City Hospital",
		Status:             types.StatusPending,
	}
	if err := gdb.Create(&request).Error; err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	sender := NewClient(recipient.ID)
	listener := NewClient(42)
	relay.Join(request.ID, sender)
	relay.Join(request.ID, listener)

	relay.Send(request.ID, sender, "too early", time.Now())

	if _, ok := tryReceive(listener); ok {
		t.Error("message for pending request was broadcast")
	}

	var count int64
	gdb.Model(&models.ChatMessage{}).Count(&count)
	if count != 0 {
		t.Errorf("%d messages persisted for pending request", count)
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	relay, gdb := newTestRelay(t)
	roomID := approvedRequest(t, gdb, 7, 9)

	sender := NewClient(7)
	leaver := NewClient(9)
	relay.Join(roomID, sender)
	relay.Join(roomID, leaver)
	relay.Leave(roomID, leaver)

	relay.Send(roomID, sender, "hello?", time.Now())

	if _, ok := tryReceive(leaver); ok {
		t.Error("departed member received a broadcast")
	}
}

func TestDropLeavesAllRooms(t *testing.T) {
	relay, gdb := newTestRelay(t)
	roomA := approvedRequest(t, gdb, 7, 9)

	adminID := uint(1)
	donorID := uint(7)
	other := models.BloodRequest{
		RecipientUserID:    9,
		RequiredBloodGroup: "O-",
		HospitalName:       "General Hospital",
		Status:             types.StatusApproved,
		ApprovedByAdminID:  &adminID,
		AssignedDonorID:    &donorID,
	}
	if err := gdb.Create(&other).Error; err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	multi := NewClient(9)
	senderA := NewClient(7)
	senderB := NewClient(7)

	relay.Join(roomA, multi)
	relay.Join(other.ID, multi)
	relay.Join(roomA, senderA)
	relay.Join(other.ID, senderB)

	relay.Drop(multi)

	relay.Send(roomA, senderA, "a", time.Now())
	relay.Send(other.ID, senderB, "b", time.Now())

	if _, ok := tryReceive(multi); ok {
		t.Error("dropped client received a broadcast")
	}
}

func TestSlowMemberDoesNotBlockRoom(t *testing.T) {
	relay, gdb := newTestRelay(t)
	roomID := approvedRequest(t, gdb, 7, 9)

	sender := NewClient(7)
	slow := &Client{UserID: 9, Send: make(chan Event)} // no buffer, never drained
	healthy := NewClient(9)

	relay.Join(roomID, sender)
	relay.Join(roomID, slow)
	relay.Join(roomID, healthy)

	done := make(chan struct{})
	go func() {
		relay.Send(roomID, sender, "hi", time.Now())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a slow member")
	}

	if _, ok := tryReceive(healthy); !ok {
		t.Error("healthy member missed the broadcast")
	}
}
