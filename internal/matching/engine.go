package matching

import (
	"errors"
	"log"

	"github.com/lifeblood-dev/lifeblood/internal/models"
	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/types"
	"gorm.io/gorm"
)

// ApprovalNotifier dispatches the post-approval notification. Failures are
// logged by the engine, never surfaced to the adjudicating admin.
type ApprovalNotifier interface {
	NotifyApproval(request *models.BloodRequest) error
}

// Engine adjudicates pending blood requests. Approval assigns the first
// eligible donor and transitions the request in a single conditional update,
// so two admins racing on the same request cannot both win.
type Engine struct {
	Requests *store.RequestStore
	Donors   *store.DonorRegistry
	Notifier ApprovalNotifier
}

func NewEngine(requests *store.RequestStore, donors *store.DonorRegistry, notifier ApprovalNotifier) *Engine {
	return &Engine{Requests: requests, Donors: donors, Notifier: notifier}
}

// Approve assigns a donor to the request and marks it approved.
//
// Returns store.ErrNotFoundOrProcessed when the request is absent or no
// longer pending, and store.ErrNoAvailableDonor when no eligible donor
// exists; in the latter case the request stays pending so the admin can
// retry once a donor becomes available.
func (e *Engine) Approve(requestID, adminID uint) (*models.BloodRequest, error) {
	request, err := e.Requests.Get(requestID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFoundOrProcessed
		}
		return nil, err
	}

	if request.Status != types.StatusPending {
		return nil, store.ErrNotFoundOrProcessed
	}

	candidates, err := e.Donors.FindEligible(request.RequiredBloodGroup, request.RecipientUserID)

	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, store.ErrNoAvailableDonor
	}

	// First match in registry order, no ranking.
	donorID := candidates[0].UserID

	err = e.Requests.Transition(requestID, types.StatusPending, map[string]interface{}{
		"status":               types.StatusApproved,
		"approved_by_admin_id": adminID,
		"assigned_donor_id":    donorID,
	})

	if err != nil {
		return nil, err
	}

	request.Status = types.StatusApproved
	request.ApprovedByAdminID = &adminID
	request.AssignedDonorID = &donorID

	// The transition is final once persisted. Notification failure is
	// logged, not retried, and not reported as a failed adjudication.
	if e.Notifier != nil {
		if err := e.Notifier.NotifyApproval(request); err != nil {
			log.Printf("Approval notification failed for request %d: %v", requestID, err)
		}
	}

	return request, nil
}

// Reject marks a pending request rejected. No donor lookup, no notification.
func (e *Engine) Reject(requestID, adminID uint) error {
	return e.Requests.Transition(requestID, types.StatusPending, map[string]interface{}{
		"status":               types.StatusRejected,
		"approved_by_admin_id": adminID,
	})
}
