package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/security"
)

func commentToResponse(comment *model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		EventID:   comment.EventID,
		User:      *userToSimpleUser(&comment.User),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Unix(),
	}
}

func (s *EventService) AddComment(ctx context.Context, userID uint, eventID uint, request *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return nil, err
	}

	visible, err := canViewEvent(ctx, s.Dep.DB, userID, event)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, appError.NewAppError(403, "not allowed to comment on this event")
	}

	content := security.SanitizeText(request.Content)
	if content == "" {
		return nil, appError.NewAppError(400, "comment cannot be empty")
	}

	comment := model.Comment{
		EventID: eventID,
		UserID:  userID,
		Content: content,
	}

	if err := gorm.G[model.Comment](s.Dep.DB).Create(ctx, &comment); err != nil {
		return nil, err
	}

	user, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", userID).First(ctx)
	if err != nil {
		return nil, err
	}
	comment.User = user

	response := commentToResponse(&comment)
	return &response, nil
}

func (s *EventService) GetEventComments(ctx context.Context, userID uint, eventID uint) ([]dto.CommentResponse, error) {
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

	comments, err := gorm.G[model.Comment](s.Dep.DB).
		Preload("User", nil).
		Where("event_id = ?", eventID).
		Order("created_at").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, commentToResponse(&comment))
	}

	return responses, nil
}

// DeleteComment is allowed for the comment author and the event host.
func (s *EventService) DeleteComment(ctx context.Context, userID uint, eventID uint, commentID uint) error {
	event, err := s.getEventModel(ctx, eventID)
	if err != nil {
		return err
	}

	comment, err := gorm.G[model.Comment](s.Dep.DB).Where("id = ? AND event_id = ?", commentID, eventID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appError.NewAppError(404, "comment not found")
		}
		return err
	}

	if comment.UserID != userID && event.HostID != userID {
		return appError.NewAppError(403, "only the author or the host can delete a comment")
	}

	res := s.Dep.DB.WithContext(ctx).Unscoped().Delete(&model.Comment{}, commentID)
	if res.Error != nil {
		return res.Error
	}

	return nil
}
