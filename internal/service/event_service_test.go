package service

import (
	"context"
	"testing"

	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dto"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip with host attending", func(t *testing.T) {
		dep := newTestDep(t)
		host := createTestUser(t, dep, "host")

		event := createTestEvent(t, dep, host.ID, "", intPtr(10))

		if event.Name != "Board game night" {
			t.Errorf("unexpected name %q", event.Name)
		}
		if event.PrivacyLevel != model.PrivacyPublic {
			t.Errorf("expected default privacy %q, got %q", model.PrivacyPublic, event.PrivacyLevel)
		}
		if event.Host.ID != host.ID {
			t.Errorf("expected host %d, got %d", host.ID, event.Host.ID)
		}
		if event.Capacity == nil || *event.Capacity != 10 {
			t.Errorf("unexpected capacity %v", event.Capacity)
		}

		if len(event.Attendees) != 1 {
			t.Fatalf("expected 1 attendee, got %d", len(event.Attendees))
		}
		if event.Attendees[0].ID != host.ID || event.Attendees[0].Rsvp != model.RsvpYes {
			t.Errorf("expected host attending YES, got %+v", event.Attendees[0])
		}
	})

	t.Run("strips markup from name", func(t *testing.T) {
		dep := newTestDep(t)
		host := createTestUser(t, dep, "host")
		svc := NewEventService(dep)

		event, err := svc.CreateEvent(ctx, host.ID, &dto.CreateEventRequest{
			EventBody: dto.EventBody{
				Name:     "<b>Picnic</b>",
				Date:     "2026-09-12",
				Time:     "12:00",
				Duration: 120,
				Location: "Park",
			},
		})
		if err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if event.Name != "Picnic" {
			t.Errorf("expected sanitized name, got %q", event.Name)
		}
	})

	t.Run("rejects name that is only markup", func(t *testing.T) {
		dep := newTestDep(t)
		host := createTestUser(t, dep, "host")
		svc := NewEventService(dep)

		_, err := svc.CreateEvent(ctx, host.ID, &dto.CreateEventRequest{
			EventBody: dto.EventBody{
				Name:     "<script>alert(1)</script>",
				Date:     "2026-09-12",
				Time:     "12:00",
				Duration: 120,
				Location: "Park",
			},
		})
		assertAppError(t, err, 400)
	})
}

func TestGetEventVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("private event is hidden from strangers", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		stranger := createTestUser(t, dep, "stranger")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPrivate, nil)

		if _, err := svc.GetEvent(ctx, host.ID, event.ID); err != nil {
			t.Errorf("expected host to see the event: %v", err)
		}

		_, err := svc.GetEvent(ctx, stranger.ID, event.ID)
		assertAppError(t, err, 403)
	})

	t.Run("private event is visible to invited users", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		guest := createTestUser(t, dep, "guest")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPrivate, nil)

		if err := svc.InviteUser(ctx, host.ID, event.ID, guest.ID); err != nil {
			t.Fatalf("failed to invite guest: %v", err)
		}

		if _, err := svc.GetEvent(ctx, guest.ID, event.ID); err != nil {
			t.Errorf("expected invited guest to see the event: %v", err)
		}
	})

	t.Run("friends-only event is visible to friends of the host", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		friend := createTestUser(t, dep, "friend")
		stranger := createTestUser(t, dep, "stranger")
		makeFriends(t, dep, host.ID, friend.ID)
		event := createTestEvent(t, dep, host.ID, model.PrivacyFriendsOnly, nil)

		if _, err := svc.GetEvent(ctx, friend.ID, event.ID); err != nil {
			t.Errorf("expected friend to see the event: %v", err)
		}

		_, err := svc.GetEvent(ctx, stranger.ID, event.ID)
		assertAppError(t, err, 403)
	})

	t.Run("public event is visible to everyone", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		stranger := createTestUser(t, dep, "stranger")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		if _, err := svc.GetEvent(ctx, stranger.ID, event.ID); err != nil {
			t.Errorf("expected stranger to see a public event: %v", err)
		}
	})

	t.Run("unknown event returns 404", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		user := createTestUser(t, dep, "user")

		_, err := svc.GetEvent(ctx, user.ID, 9999)
		assertAppError(t, err, 404)
	})
}

func TestGetVisibleEvents(t *testing.T) {
	ctx := context.Background()

	dep := newTestDep(t)
	svc := NewEventService(dep)
	host := createTestUser(t, dep, "host")
	friend := createTestUser(t, dep, "friend")
	stranger := createTestUser(t, dep, "stranger")
	makeFriends(t, dep, host.ID, friend.ID)

	public := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)
	friendsOnly := createTestEvent(t, dep, host.ID, model.PrivacyFriendsOnly, nil)
	private := createTestEvent(t, dep, host.ID, model.PrivacyPrivate, nil)
	invited := createTestEvent(t, dep, host.ID, model.PrivacyPrivate, nil)
	if err := svc.InviteUser(ctx, host.ID, invited.ID, stranger.ID); err != nil {
		t.Fatalf("failed to invite stranger: %v", err)
	}

	contains := func(events []dto.EventResponse, id uint) bool {
		for _, e := range events {
			if e.ID == id {
				return true
			}
		}
		return false
	}

	hostEvents, err := svc.GetVisibleEvents(ctx, host.ID)
	if err != nil {
		t.Fatalf("failed to list events for host: %v", err)
	}
	if len(hostEvents) != 4 {
		t.Errorf("expected host to see 4 events, got %d", len(hostEvents))
	}

	friendEvents, err := svc.GetVisibleEvents(ctx, friend.ID)
	if err != nil {
		t.Fatalf("failed to list events for friend: %v", err)
	}
	if !contains(friendEvents, public.ID) || !contains(friendEvents, friendsOnly.ID) {
		t.Error("expected friend to see public and friends-only events")
	}
	if contains(friendEvents, private.ID) {
		t.Error("expected friend not to see the private event")
	}

	strangerEvents, err := svc.GetVisibleEvents(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("failed to list events for stranger: %v", err)
	}
	if !contains(strangerEvents, public.ID) || !contains(strangerEvents, invited.ID) {
		t.Error("expected stranger to see public event and the one they are invited to")
	}
	if contains(strangerEvents, friendsOnly.ID) || contains(strangerEvents, private.ID) {
		t.Error("expected stranger not to see restricted events")
	}
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("host updates fields", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		updated, err := svc.UpdateEvent(ctx, host.ID, event.ID, &dto.UpdateEventRequest{
			EventBody: dto.EventBody{
				Name:         "Moved game night",
				Date:         "2026-09-19",
				Time:         "20:00",
				Duration:     120,
				Location:     "Back room",
				Capacity:     intPtr(8),
				PrivacyLevel: model.PrivacyFriendsOnly,
			},
		})
		if err != nil {
			t.Fatalf("failed to update event: %v", err)
		}

		if updated.Name != "Moved game night" || updated.Date != "2026-09-19" || updated.Time != "20:00" {
			t.Errorf("unexpected update result %+v", updated)
		}
		if updated.PrivacyLevel != model.PrivacyFriendsOnly {
			t.Errorf("expected privacy %q, got %q", model.PrivacyFriendsOnly, updated.PrivacyLevel)
		}
		if updated.Capacity == nil || *updated.Capacity != 8 {
			t.Errorf("unexpected capacity %v", updated.Capacity)
		}
	})

	t.Run("non-host is rejected", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		other := createTestUser(t, dep, "other")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		_, err := svc.UpdateEvent(ctx, other.ID, event.ID, &dto.UpdateEventRequest{
			EventBody: dto.EventBody{
				Name:     "Hijacked",
				Date:     "2026-09-19",
				Time:     "20:00",
				Duration: 60,
				Location: "Elsewhere",
			},
		})
		assertAppError(t, err, 403)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("removes attendees and comments, keeps notifications", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		guest := createTestUser(t, dep, "guest")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		if err := svc.InviteUser(ctx, host.ID, event.ID, guest.ID); err != nil {
			t.Fatalf("failed to invite guest: %v", err)
		}
		if _, err := svc.AddComment(ctx, guest.ID, event.ID, &dto.CreateCommentRequest{Content: "see you there"}); err != nil {
			t.Fatalf("failed to add comment: %v", err)
		}

		if err := svc.DeleteEvent(ctx, host.ID, event.ID); err != nil {
			t.Fatalf("failed to delete event: %v", err)
		}

		if got := countRows[model.Attendee](t, dep, "event_id = ?", event.ID); got != 0 {
			t.Errorf("expected attendee rows to cascade, got %d", got)
		}
		if got := countRows[model.Comment](t, dep, "event_id = ?", event.ID); got != 0 {
			t.Errorf("expected comment rows to cascade, got %d", got)
		}

		// The invite notification survives with its event reference nulled.
		if got := countRows[model.Notification](t, dep, "target_user_id = ?", guest.ID); got != 1 {
			t.Fatalf("expected the invite notification to survive, got %d", got)
		}
		if got := countRows[model.Notification](t, dep, "target_user_id = ? AND event_id IS NULL", guest.ID); got != 1 {
			t.Error("expected the surviving notification to have a null event reference")
		}
	})

	t.Run("non-host is rejected", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		other := createTestUser(t, dep, "other")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		err := svc.DeleteEvent(ctx, other.ID, event.ID)
		assertAppError(t, err, 403)
	})
}
