package store

import (
	"errors"
	"testing"

	"github.com/lifeblood-dev/lifeblood/internal/types"
)

func TestRegisterCopiesBloodGroupAndDefaultsAvailable(t *testing.T) {
	gdb := newTestDB(t)
	registry := NewDonorRegistry(gdb)
	user := createUser(t, gdb, "donor@example.com", "B-", "")

	donor, err := registry.Register(user.ID)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if donor.BloodGroup != "B-" {
		t.Errorf("donor blood group = %q, want %q", donor.BloodGroup, "B-")
	}
	if donor.AvailabilityStatus != types.AvailabilityAvailable {
		t.Errorf("donor availability = %q, want %q", donor.AvailabilityStatus, types.AvailabilityAvailable)
	}
}

func TestRegisterTwiceFailsAndKeepsOriginal(t *testing.T) {
	gdb := newTestDB(t)
	registry := NewDonorRegistry(gdb)
	user := createUser(t, gdb, "donor@example.com", "B-", "")

	original, err := registry.Register(user.ID)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Change the user's profile group; a second registration must neither
	// succeed nor re-sync the existing donor record.
	if err := gdb.Model(&user).Update("blood_group", "A+").Error; err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	if _, err := registry.Register(user.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register returned %v, want ErrAlreadyRegistered", err)
	}

	profile, err := registry.Profile(user.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.ID != original.ID || profile.BloodGroup != "B-" {
		t.Errorf("original donor record was modified: %+v", profile)
	}
}

func TestSetAvailabilityValidation(t *testing.T) {
	gdb := newTestDB(t)
	registry := NewDonorRegistry(gdb)
	user := createUser(t, gdb, "donor@example.com", "O+", "")

	if err := registry.SetAvailability(user.ID, "busy"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("SetAvailability with bad value returned %v, want ErrInvalidStatus", err)
	}

	if err := registry.SetAvailability(user.ID, types.AvailabilityUnavailable); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("SetAvailability before Register returned %v, want ErrNotRegistered", err)
	}

	if _, err := registry.Register(user.ID); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := registry.SetAvailability(user.ID, types.AvailabilityUnavailable); err != nil {
		t.Fatalf("SetAvailability returned error: %v", err)
	}

	profile, err := registry.Profile(user.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.AvailabilityStatus != types.AvailabilityUnavailable {
		t.Errorf("availability = %q, want %q", profile.AvailabilityStatus, types.AvailabilityUnavailable)
	}
}

func TestFindEligibleFiltersAndOrder(t *testing.T) {
	gdb := newTestDB(t)
	registry := NewDonorRegistry(gdb)

	recipient := createUser(t, gdb, "recipient@example.com", "O-", "")
	matching1 := createUser(t, gdb, "first@example.com", "O-", "")
	matching2 := createUser(t, gdb, "second@example.com", "O-", "")
	unavailable := createUser(t, gdb, "unavailable@example.com", "O-", "")
	wrongGroup := createUser(t, gdb, "wrong@example.com", "A+", "")

	for _, u := range []uint{recipient.ID, matching1.ID, matching2.ID, unavailable.ID, wrongGroup.ID} {
		if _, err := registry.Register(u); err != nil {
			t.Fatalf("Register(%d) returned error: %v", u, err)
		}
	}

	if err := registry.SetAvailability(unavailable.ID, types.AvailabilityUnavailable); err != nil {
		t.Fatalf("SetAvailability returned error: %v", err)
	}

	candidates, err := registry.FindEligible("O-", recipient.ID)
	if err != nil {
		t.Fatalf("FindEligible returned error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("FindEligible returned %d candidates, want 2", len(candidates))
	}
	// Registration order: recipient registered first, so the first
	// eligible candidate is matching1.
	if candidates[0].UserID != matching1.ID || candidates[1].UserID != matching2.ID {
		t.Errorf("candidate order = [%d %d], want [%d %d]",
			candidates[0].UserID, candidates[1].UserID, matching1.ID, matching2.ID)
	}
	for _, c := range candidates {
		if c.UserID == recipient.ID {
			t.Error("FindEligible returned the recipient")
		}
		if c.UserID == unavailable.ID {
			t.Error("FindEligible returned an unavailable donor")
		}
		if c.BloodGroup != "O-" {
			t.Errorf("FindEligible returned donor of group %q", c.BloodGroup)
		}
	}
}

func TestSearchAddressFilterCaseInsensitive(t *testing.T) {
	gdb := newTestDB(t)
	registry := NewDonorRegistry(gdb)

	searcher := createUser(t, gdb, "searcher@example.com", "A-", "Mumbai")
	near := createUser(t, gdb, "near@example.com", "A-", "South Mumbai")
	far := createUser(t, gdb, "far@example.com", "A-", "Delhi")

	for _, u := range []uint{searcher.ID, near.ID, far.ID} {
		if _, err := registry.Register(u); err != nil {
			t.Fatalf("Register(%d) returned error: %v", u, err)
		}
	}

	candidates, err := registry.Search("A-", "mumbai", searcher.ID)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("Search returned %d candidates, want 1", len(candidates))
	}
	if candidates[0].UserID != near.ID {
		t.Errorf("Search returned user %d, want %d", candidates[0].UserID, near.ID)
	}

	// Without the address filter the searcher is still excluded.
	candidates, err = registry.Search("A-", "", searcher.ID)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Search returned %d candidates, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.UserID == searcher.ID {
			t.Error("Search returned the searcher")
		}
	}
}
