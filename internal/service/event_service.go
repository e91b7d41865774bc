package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/security"
)

type EventService struct {
	Dep *dependency.Dependency
}

func NewEventService(dep *dependency.Dependency) *EventService {

	if dep.DB == nil {
		panic("EventService: db is nil")
	}

	return &EventService{
		Dep: dep,
	}
}

// canViewEvent implements the privacy rules: hosts and attendees always see
// their event, PUBLIC is visible to everyone, FRIENDS_ONLY additionally to
// friends of the host.
func canViewEvent(ctx context.Context, tx *gorm.DB, userID uint, event *model.Event) (bool, error) {
	if event.HostID == userID || event.PrivacyLevel == model.PrivacyPublic {
		return true, nil
	}

	_, err := gorm.G[model.Attendee](tx).Where("user_id = ? AND event_id = ?", userID, event.ID).First(ctx)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if event.PrivacyLevel == model.PrivacyFriendsOnly {
		_, err := gorm.G[model.Friend](tx).Where("user_id = ? AND friend_id = ?", event.HostID, userID).First(ctx)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}

	return false, nil
}

func (s *EventService) getEventModel(ctx context.Context, eventID uint) (*model.Event, error) {
	event, err := gorm.G[model.Event](s.Dep.DB).Where("id = ?", eventID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appError.NewAppError(404, "event not found")
		}
		return nil, err
	}

	return &event, nil
}

func (s *EventService) eventToResponse(ctx context.Context, event *model.Event) (*dto.EventResponse, error) {
	host, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", event.HostID).First(ctx)
	if err != nil {
		return nil, err
	}

	attendees, err := gorm.G[model.Attendee](s.Dep.DB).Preload("User", nil).Where("event_id = ?", event.ID).Find(ctx)
	if err != nil {
		return nil, err
	}

	attendeeResponses := make([]dto.AttendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		attendeeResponses = append(attendeeResponses, dto.AttendeeResponse{
			SimpleUser: *userToSimpleUser(&a.User),
			Rsvp:       a.Rsvp,
		})
	}

	return &dto.EventResponse{
		ID:           event.ID,
		Host:         *userToSimpleUser(&host),
		Name:         event.Name,
		Description:  event.Description,
		Date:         event.Date,
		Time:         event.Time,
		Duration:     event.DurationMin,
		Location:     event.Location,
		Capacity:     event.Capacity,
		PrivacyLevel: event.PrivacyLevel,
		CreatedAt:    event.CreatedAt.Unix(),
		Attendees:    attendeeResponses,
	}, nil
}

func (s *EventService) CreateEvent(ctx context.Context, hostID uint, request *dto.CreateEventRequest) (*dto.EventResponse, error) {
	privacyLevel := request.PrivacyLevel
	if privacyLevel == "" {
		privacyLevel = model.PrivacyPublic
	}

	event := model.Event{
		HostID:       hostID,
		Name:         security.SanitizeText(request.Name),
		Description:  security.SanitizeTextPtr(request.Description),
		Date:         request.Date,
		Time:         request.Time,
		DurationMin:  request.Duration,
		Location:     security.SanitizeText(request.Location),
		Capacity:     request.Capacity,
		PrivacyLevel: privacyLevel,
	}

	if event.Name == "" || event.Location == "" {
		return nil, appError.NewAppError(400, "event name and location cannot be empty")
	}

	// The host always attends their own event.
	err := s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gorm.G[model.Event](tx).Create(ctx, &event); err != nil {
			return err
		}

		return gorm.G[model.Attendee](tx).Create(ctx, &model.Attendee{
			UserID:  hostID,
			EventID: event.ID,
			Rsvp:    model.RsvpYes,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.eventToResponse(ctx, &event)
}

func (s *EventService) GetEvent(ctx context.Context, userID uint, eventID uint) (*dto.EventResponse, error) {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return nil, err
	}

	visible, err := canViewEvent(ctx, s.Dep.DB, userID, event)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, appError.NewAppError(403, "not allowed to view this event")
	}

	return s.eventToResponse(ctx, event)
}

func (s *EventService) GetVisibleEvents(ctx context.Context, userID uint) ([]dto.EventResponse, error) {
	events, err := gorm.G[model.Event](s.Dep.DB).
		Where(
			"privacy_level = ?"+
				" OR host_id = ?"+
				" OR id IN (SELECT event_id FROM attendees WHERE user_id = ?)"+
				" OR (privacy_level = ? AND host_id IN (SELECT friend_id FROM friends WHERE user_id = ?))",
			model.PrivacyPublic, userID, userID, model.PrivacyFriendsOnly, userID,
		).
		Order("date, time").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		response, err := s.eventToResponse(ctx, &event)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}

	return responses, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, userID uint, eventID uint, request *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.HostID != userID {
		return nil, appError.NewAppError(403, "only the host can update the event")
	}

	event.Name = security.SanitizeText(request.Name)
	event.Description = security.SanitizeTextPtr(request.Description)
	event.Date = request.Date
	event.Time = request.Time
	event.DurationMin = request.Duration
	event.Location = security.SanitizeText(request.Location)
	event.Capacity = request.Capacity
	if request.PrivacyLevel != "" {
		event.PrivacyLevel = request.PrivacyLevel
	}

	if event.Name == "" || event.Location == "" {
		return nil, appError.NewAppError(400, "event name and location cannot be empty")
	}

	if err := s.Dep.DB.WithContext(ctx).Save(event).Error; err != nil {
		return nil, err
	}

	return s.eventToResponse(ctx, event)
}

// DeleteEvent hard-deletes the event; attendee and comment rows go with it
// via FK cascade.
func (s *EventService) DeleteEvent(ctx context.Context, userID uint, eventID uint) error {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return err
	}

	if event.HostID != userID {
		return appError.NewAppError(403, "only the host can delete the event")
	}

	res := s.Dep.DB.WithContext(ctx).Unscoped().Delete(&model.Event{}, eventID)
	if res.Error != nil {
		return res.Error
	}

	return nil
}
