package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
)

const (
	FriendRequestStatusPending  = "pending"
	FriendRequestStatusAccepted = "accepted"
	FriendRequestStatusDeclined = "declined"
)

type FriendService struct {
	Dep *dependency.Dependency
}

func NewFriendService(dep *dependency.Dependency) *FriendService {

	if dep.DB == nil {
		panic("FriendService: db is nil")
	}

	return &FriendService{
		Dep: dep,
	}
}

// createFriendship writes both directions of the friends edge and removes
// every pending request between the pair, so a racing reverse request cannot
// leave a stale pending row behind. Caller provides the transaction.
func createFriendship(ctx context.Context, tx *gorm.DB, userA, userB uint) error {
	edges := []model.Friend{
		{UserID: userA, FriendID: userB},
		{UserID: userB, FriendID: userA},
	}

	err := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error
	if err != nil {
		return err
	}

	return deleteRequestsBetween(ctx, tx, userA, userB)
}

func deleteRequestsBetween(ctx context.Context, tx *gorm.DB, userA, userB uint) error {
	_, err := gorm.G[model.FriendRequest](tx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Delete(ctx)

	return err
}

func (s *FriendService) SendFriendRequest(ctx context.Context, senderID uint, request *dto.SendFriendRequestRequest) (*dto.SendFriendRequestResponse, error) {

	if senderID == request.UserID {
		return nil, appError.NewAppError(400, "cannot send a friend request to yourself")
	}

	sender, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", senderID).First(ctx)
	if err != nil {
		return nil, err
	}

	_, err = gorm.G[model.User](s.Dep.DB).Where("id = ?", request.UserID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appError.NewAppError(404, "user not found")
		}
		return nil, err
	}

	var pendingRequest model.FriendRequest
	autoAccepted := false

	err = s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := gorm.G[model.Friend](tx).Where("user_id = ? AND friend_id = ?", senderID, request.UserID).First(ctx)
		if err == nil {
			return appError.NewAppError(409, "already friends")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		_, err = gorm.G[model.FriendRequest](tx).Where("sender_id = ? AND receiver_id = ?", senderID, request.UserID).First(ctx)
		if err == nil {
			return appError.NewAppError(409, "friend request already sent")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// A pending request in the other direction collapses directly into
		// friendship instead of producing a duplicate pair of requests.
		_, err = gorm.G[model.FriendRequest](tx).Where("sender_id = ? AND receiver_id = ?", request.UserID, senderID).First(ctx)
		if err == nil {
			autoAccepted = true
			return createFriendship(ctx, tx, senderID, request.UserID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pendingRequest = model.FriendRequest{
			SenderID:   senderID,
			ReceiverID: request.UserID,
		}
		if err := gorm.G[model.FriendRequest](tx).Create(ctx, &pendingRequest); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return appError.NewAppError(409, "friend request already sent")
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if autoAccepted {
		createNotification(ctx, s.Dep, &model.Notification{
			TargetUserID: request.UserID,
			Message:      sender.Username + " accepted your friend request",
			SourceType:   model.SourceFriendAccept,
		})

		return &dto.SendFriendRequestResponse{Status: FriendRequestStatusAccepted}, nil
	}

	link := "/friends/requests"
	createNotification(ctx, s.Dep, &model.Notification{
		TargetUserID:    request.UserID,
		Message:         sender.Username + " sent you a friend request",
		Link:            &link,
		SourceType:      model.SourceFriendRequest,
		FriendRequestID: &pendingRequest.ID,
	})

	return &dto.SendFriendRequestResponse{
		RequestID: &pendingRequest.ID,
		Status:    FriendRequestStatusPending,
	}, nil
}

func (s *FriendService) RespondToFriendRequest(ctx context.Context, userID uint, request *dto.RespondFriendRequestRequest) (*dto.RespondFriendRequestResponse, error) {
	pendingRequest, err := gorm.G[model.FriendRequest](s.Dep.DB).Where("id = ?", request.RequestID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appError.NewAppError(404, "friend request not found")
		}
		return nil, err
	}

	if pendingRequest.ReceiverID != userID {
		return nil, appError.NewAppError(403, "only the receiver can respond to a friend request")
	}

	if request.Action == "accept" {
		err = s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return createFriendship(ctx, tx, pendingRequest.SenderID, pendingRequest.ReceiverID)
		})
		if err != nil {
			return nil, err
		}

		receiver, err := gorm.G[model.User](s.Dep.DB).Where("id = ?", userID).First(ctx)
		if err != nil {
			return nil, err
		}

		createNotification(ctx, s.Dep, &model.Notification{
			TargetUserID: pendingRequest.SenderID,
			Message:      receiver.Username + " accepted your friend request",
			SourceType:   model.SourceFriendAccept,
		})

		return &dto.RespondFriendRequestResponse{Status: FriendRequestStatusAccepted}, nil
	}

	// Declines are silent: the sender is not notified.
	err = s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRequestsBetween(ctx, tx, pendingRequest.SenderID, pendingRequest.ReceiverID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.RespondFriendRequestResponse{Status: FriendRequestStatusDeclined}, nil
}

// Unfriend removes both directions of the friends edge. Removing an absent
// friendship succeeds silently.
func (s *FriendService) Unfriend(ctx context.Context, userID uint, friendID uint) error {
	_, err := gorm.G[model.Friend](s.Dep.DB).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, friendID, friendID, userID).
		Delete(ctx)

	return err
}

func (s *FriendService) GetUserFriends(ctx context.Context, userID uint) ([]dto.FriendResponse, error) {
	friends, err := gorm.G[model.Friend](s.Dep.DB).Preload("Friend", nil).Where("user_id = ?", userID).Find(ctx)
	if err != nil {
		return nil, err
	}

	onlineStatus, err := getOnlineStatus(ctx, s.Dep)
	if err != nil {
		return nil, err
	}

	checker := newOnlineStatusChecker(onlineStatus)

	friendResponses := make([]dto.FriendResponse, 0, len(friends))
	for _, f := range friends {
		friendResponses = append(friendResponses, dto.FriendResponse{
			SimpleUser: *userToSimpleUser(&f.Friend),
			Online:     checker.isOnline(f.FriendID),
		})
	}

	return friendResponses, nil
}

func friendRequestToInfo(fr *model.FriendRequest) dto.FriendRequestInfo {
	return dto.FriendRequestInfo{
		RequestID: fr.ID,
		Sender:    *userToSimpleUser(&fr.Sender),
		Receiver:  *userToSimpleUser(&fr.Receiver),
		CreatedAt: fr.CreatedAt.Unix(),
	}
}

func (s *FriendService) GetFriendRequests(ctx context.Context, userID uint) (*dto.FriendRequestsResponse, error) {
	incoming, err := gorm.G[model.FriendRequest](s.Dep.DB).
		Preload("Sender", nil).
		Preload("Receiver", nil).
		Where("receiver_id = ?", userID).
		Find(ctx)
	if err != nil {
		return nil, err
	}

	outgoing, err := gorm.G[model.FriendRequest](s.Dep.DB).
		Preload("Sender", nil).
		Preload("Receiver", nil).
		Where("sender_id = ?", userID).
		Find(ctx)
	if err != nil {
		return nil, err
	}

	response := &dto.FriendRequestsResponse{
		Incoming: make([]dto.FriendRequestInfo, 0, len(incoming)),
		Outgoing: make([]dto.FriendRequestInfo, 0, len(outgoing)),
	}

	for _, fr := range incoming {
		response.Incoming = append(response.Incoming, friendRequestToInfo(&fr))
	}
	for _, fr := range outgoing {
		response.Outgoing = append(response.Outgoing, friendRequestToInfo(&fr))
	}

	return response, nil
}
