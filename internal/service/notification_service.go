package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
)

type NotificationService struct {
	Dep *dependency.Dependency
}

func NewNotificationService(dep *dependency.Dependency) *NotificationService {

	if dep.DB == nil {
		panic("NotificationService: db is nil")
	}

	return &NotificationService{
		Dep: dep,
	}
}

// createNotification is fire-and-forget from the caller's perspective: a
// failed insert is logged and never aborts the transition that caused it.
func createNotification(ctx context.Context, dep *dependency.Dependency, notification *model.Notification) {
	if notification.Priority == "" {
		notification.Priority = model.PriorityNormal
	}

	if err := gorm.G[model.Notification](dep.DB).Create(ctx, notification); err != nil {
		dep.Logger.Warn("failed to create notification",
			"targetUserId", notification.TargetUserID,
			"sourceType", notification.SourceType,
			"err", err,
		)
	}
}

func notificationToResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:              n.ID,
		Message:         n.Message,
		Link:            n.Link,
		SourceType:      n.SourceType,
		Priority:        n.Priority,
		IsRead:          n.IsRead,
		FriendRequestID: n.FriendRequestID,
		EventID:         n.EventID,
		CreatedAt:       n.CreatedAt.Unix(),
	}
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uint) (*dto.NotificationsResponse, error) {
	notifications, err := gorm.G[model.Notification](s.Dep.DB).
		Where("target_user_id = ?", userID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
		responses = append(responses, notificationToResponse(&n))
	}

	return &dto.NotificationsResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, userID uint, notificationID uint) (*dto.NotificationResponse, error) {
	notification, err := gorm.G[model.Notification](s.Dep.DB).Where("id = ?", notificationID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appError.NewAppError(404, "notification not found")
		}
		return nil, err
	}

	if notification.TargetUserID != userID {
		return nil, appError.NewAppError(403, "notification does not belong to user")
	}

	if !notification.IsRead {
		_, err = gorm.G[model.Notification](s.Dep.DB).Where("id = ?", notificationID).Update(ctx, "is_read", true)
		if err != nil {
			return nil, err
		}
		notification.IsRead = true
	}

	response := notificationToResponse(&notification)
	return &response, nil
}

func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	_, err := gorm.G[model.Notification](s.Dep.DB).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Update(ctx, "is_read", true)

	return err
}
