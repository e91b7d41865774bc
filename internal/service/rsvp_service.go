package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	model "github.com/meeton-app/meeton-server/internal/db"
)

func eventLink(eventID uint) *string {
	link := fmt.Sprintf("/events/%d", eventID)
	return &link
}

// UpsertRsvp creates or updates the caller's attendee row. The capacity
// check and the upsert run in the same transaction so two concurrent YES
// responses cannot both slip under the limit.
func (s *EventService) UpsertRsvp(ctx context.Context, userID uint, eventID uint, newStatus string) (*model.Attendee, error) {
	var event model.Event

	err := s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = gorm.G[model.Event](tx).Where("id = ?", eventID).First(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appError.NewAppError(404, "event not found")
			}
			return err
		}

		visible, err := canViewEvent(ctx, tx, userID, &event)
		if err != nil {
			return err
		}
		if !visible {
			return appError.NewAppError(403, "not allowed to rsvp to this event")
		}

		if newStatus == model.RsvpYes && event.Capacity != nil {
			yesCount, err := gorm.G[model.Attendee](tx).
				Where("event_id = ? AND rsvp = ? AND user_id != ?", eventID, model.RsvpYes, userID).
				Count(ctx, "*")
			if err != nil {
				return err
			}

			if yesCount >= int64(*event.Capacity) {
				return appError.NewAppError(409, "event is at capacity")
			}
		}

		attendee := model.Attendee{
			UserID:  userID,
			EventID: eventID,
			Rsvp:    newStatus,
		}

		return tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rsvp", "updated_at"}),
		}).Create(&attendee).Error
	})
	if err != nil {
		return nil, err
	}

	if newStatus != model.RsvpPending && userID != event.HostID {
		user, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", userID).First(ctx)
		if err != nil {
			return nil, err
		}

		createNotification(ctx, s.Dep, &model.Notification{
			TargetUserID: event.HostID,
			Message:      fmt.Sprintf("%s responded %s to %s", user.Username, newStatus, event.Name),
			Link:         eventLink(event.ID),
			SourceType:   model.SourceRsvp,
			EventID:      &event.ID,
		})
	}

	return &model.Attendee{UserID: userID, EventID: eventID, Rsvp: newStatus}, nil
}

func (s *EventService) RemoveRsvp(ctx context.Context, userID uint, eventID uint) error {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return err
	}

	rowsAffected, err := gorm.G[model.Attendee](s.Dep.DB).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(ctx)
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return appError.NewAppError(404, "rsvp not found")
	}

	if userID != event.HostID {
		user, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", userID).First(ctx)
		if err != nil {
			return err
		}

		createNotification(ctx, s.Dep, &model.Notification{
			TargetUserID: event.HostID,
			Message:      fmt.Sprintf("%s is no longer attending %s", user.Username, event.Name),
			Link:         eventLink(event.ID),
			SourceType:   model.SourceRsvp,
			EventID:      &event.ID,
		})
	}

	return nil
}

func (s *EventService) InviteUser(ctx context.Context, actorID uint, eventID uint, targetUserID uint) error {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return err
	}

	if event.HostID != actorID {
		return appError.NewAppError(403, "only the host can invite users")
	}

	_, err = gorm.G[model.User](s.Dep.DB).Where("id = ?", targetUserID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appError.NewAppError(404, "user not found")
		}
		return err
	}

	host, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", event.HostID).First(ctx)
	if err != nil {
		return err
	}

	err = gorm.G[model.Attendee](s.Dep.DB).Create(ctx, &model.Attendee{
		UserID:  targetUserID,
		EventID: eventID,
		Rsvp:    model.RsvpPending,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appError.NewAppError(409, "user is already invited")
		}
		return err
	}

	var message string
	priority := model.PriorityNormal

	switch event.PrivacyLevel {
	case model.PrivacyPrivate:
		message = fmt.Sprintf("%s invited you to a private event: %s", host.Username, event.Name)
		priority = model.PriorityHigh
	case model.PrivacyFriendsOnly:
		message = fmt.Sprintf("%s invited you to a friends-only event: %s", host.Username, event.Name)
	default:
		message = fmt.Sprintf("%s invited you to %s", host.Username, event.Name)
	}

	createNotification(ctx, s.Dep, &model.Notification{
		TargetUserID: targetUserID,
		Message:      message,
		Link:         eventLink(event.ID),
		SourceType:   model.SourceInvite,
		Priority:     priority,
		EventID:      &event.ID,
	})

	return nil
}
