package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"github.com/lifeblood-dev/lifeblood/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier dispatches the approval email to a request's recipient and
// records the attempt as a Notification row. Dispatch is best-effort: the
// adjudication that triggered it has already committed and is never rolled
// back on failure.
type Notifier struct {
	DB     *gorm.DB
	Mailer Mailer
}

func NewNotifier(db *gorm.DB, mailer Mailer) *Notifier {
	return &Notifier{DB: db, Mailer: mailer}
}

func (n *Notifier) NotifyApproval(request *models.BloodRequest) error {
	var recipient models.User

	if err := n.DB.First(&recipient, request.RecipientUserID).Error; err != nil {
		return fmt.Errorf("failed to load recipient %d: %w", request.RecipientUserID, err)
	}

	subject := "Your Blood Request has been Approved!"
	body := fmt.Sprintf(
		"<h3>Hello %s,</h3><p>Great news! Your blood request (ID: %d) has been approved and a donor has been assigned.</p><p>Please log in to the app and go to the \"My Chats\" section to coordinate with the donor directly.</p><br><p>Thank you,</p><p><b>The LifeBlood Team</b></p>",
		recipient.FullName, request.ID)

	sendErr := n.Mailer.Send(recipient.Email, subject, body)

	payload, err := json.Marshal(map[string]interface{}{
		"request_id":  request.ID,
		"donor_id":    request.AssignedDonorID,
		"blood_group": request.RequiredBloodGroup,
		"email":       recipient.Email,
	})

	if err != nil {
		payload = nil
	}

	notification := models.Notification{
		RequestID: request.ID,
		UserID:    recipient.ID,
		Channel:   types.ChannelEmail,
		Status:    types.NotificationSent,
		Message:   subject,
		Payload:   datatypes.JSON(payload),
	}

	if sendErr != nil {
		notification.Status = types.NotificationFailed
		notification.Message = sendErr.Error()
	} else {
		now := time.Now()
		notification.SentAt = &now
	}

	if err := n.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to record notification for request %d: %v", request.ID, err)
	}

	return sendErr
}
