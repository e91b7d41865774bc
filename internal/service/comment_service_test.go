package service

import (
	"context"
	"testing"

	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dto"
)

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		guest := createTestUser(t, dep, "guest")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		comment, err := svc.AddComment(ctx, guest.ID, event.ID, &dto.CreateCommentRequest{Content: "looking forward to it"})
		if err != nil {
			t.Fatalf("failed to add comment: %v", err)
		}

		if comment.Content != "looking forward to it" {
			t.Errorf("unexpected content %q", comment.Content)
		}
		if comment.User.Username != "guest" {
			t.Errorf("expected author guest, got %q", comment.User.Username)
		}
		if comment.EventID != event.ID {
			t.Errorf("expected event %d, got %d", event.ID, comment.EventID)
		}
	})

	t.Run("strips markup", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		comment, err := svc.AddComment(ctx, host.ID, event.ID, &dto.CreateCommentRequest{Content: "<b>nice</b>"})
		if err != nil {
			t.Fatalf("failed to add comment: %v", err)
		}

		if comment.Content != "nice" {
			t.Errorf("expected sanitized content, got %q", comment.Content)
		}
	})

	t.Run("rejects content that is only markup", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		_, err := svc.AddComment(ctx, host.ID, event.ID, &dto.CreateCommentRequest{Content: "<script>alert(1)</script>"})
		assertAppError(t, err, 400)
	})

	t.Run("hidden event is rejected", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		stranger := createTestUser(t, dep, "stranger")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPrivate, nil)

		_, err := svc.AddComment(ctx, stranger.ID, event.ID, &dto.CreateCommentRequest{Content: "let me in"})
		assertAppError(t, err, 403)
	})
}

func TestGetEventComments(t *testing.T) {
	ctx := context.Background()

	dep := newTestDep(t)
	svc := NewEventService(dep)
	host := createTestUser(t, dep, "host")
	guest := createTestUser(t, dep, "guest")
	event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

	if _, err := svc.AddComment(ctx, host.ID, event.ID, &dto.CreateCommentRequest{Content: "first"}); err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}
	if _, err := svc.AddComment(ctx, guest.ID, event.ID, &dto.CreateCommentRequest{Content: "second"}); err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}

	comments, err := svc.GetEventComments(ctx, guest.ID, event.ID)
	if err != nil {
		t.Fatalf("failed to get comments: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Content != "first" || comments[1].Content != "second" {
		t.Errorf("expected chronological order, got %q then %q", comments[0].Content, comments[1].Content)
	}
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	addComment := func(t *testing.T, svc *EventService, userID, eventID uint) uint {
		t.Helper()
		comment, err := svc.AddComment(ctx, userID, eventID, &dto.CreateCommentRequest{Content: "hello"})
		if err != nil {
			t.Fatalf("failed to add comment: %v", err)
		}
		return comment.ID
	}

	t.Run("author may delete", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		guest := createTestUser(t, dep, "guest")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)
		commentID := addComment(t, svc, guest.ID, event.ID)

		if err := svc.DeleteComment(ctx, guest.ID, event.ID, commentID); err != nil {
			t.Fatalf("failed to delete comment: %v", err)
		}

		if got := countRows[model.Comment](t, dep, "id = ?", commentID); got != 0 {
			t.Error("expected the comment to be deleted")
		}
	})

	t.Run("host may delete any comment", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		guest := createTestUser(t, dep, "guest")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)
		commentID := addComment(t, svc, guest.ID, event.ID)

		if err := svc.DeleteComment(ctx, host.ID, event.ID, commentID); err != nil {
			t.Fatalf("failed to delete comment as host: %v", err)
		}
	})

	t.Run("others are rejected", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		guest := createTestUser(t, dep, "guest")
		other := createTestUser(t, dep, "other")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)
		commentID := addComment(t, svc, guest.ID, event.ID)

		err := svc.DeleteComment(ctx, other.ID, event.ID, commentID)
		assertAppError(t, err, 403)
	})

	t.Run("unknown comment returns 404", func(t *testing.T) {
		dep := newTestDep(t)
		svc := NewEventService(dep)
		host := createTestUser(t, dep, "host")
		event := createTestEvent(t, dep, host.ID, model.PrivacyPublic, nil)

		err := svc.DeleteComment(ctx, host.ID, event.ID, 9999)
		assertAppError(t, err, 404)
	})
}
