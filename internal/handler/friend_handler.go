package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/service"
)

type FriendHandler struct {
	S *service.FriendService
}

// SendFriendRequestHandler godoc
// @Summary Send friend request
// @Description Send a friend request, a mutual request collapses into friendship
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SendFriendRequestRequest true "Send friend request payload"
// @Success 201 {object} dto.SendFriendRequestResponse
// @Router /friends/request [post]
func (h *FriendHandler) SendFriendRequestHandler(c *gin.Context) {
	body := validatedBody[dto.SendFriendRequestRequest](c)

	response, err := h.S.SendFriendRequest(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(201, response)
}

// RespondFriendRequestHandler godoc
// @Summary Respond to friend request
// @Description Accept or decline a pending friend request
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RespondFriendRequestRequest true "Respond friend request payload"
// @Success 200 {object} dto.RespondFriendRequestResponse
// @Router /friends/request [put]
func (h *FriendHandler) RespondFriendRequestHandler(c *gin.Context) {
	body := validatedBody[dto.RespondFriendRequestRequest](c)

	response, err := h.S.RespondToFriendRequest(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, response)
}

// GetFriendRequestsHandler godoc
// @Summary List friend requests
// @Description Returns pending incoming and outgoing friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FriendRequestsResponse
// @Router /friends/requests [get]
func (h *FriendHandler) GetFriendRequestsHandler(c *gin.Context) {
	response, err := h.S.GetFriendRequests(c.Request.Context(), loggedUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, response)
}

// GetFriendsHandler godoc
// @Summary List friends
// @Description Returns the authenticated user's friends with online status
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FriendsResponse
// @Router /friends/ [get]
func (h *FriendHandler) GetFriendsHandler(c *gin.Context) {
	friends, err := h.S.GetUserFriends(c.Request.Context(), loggedUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, dto.FriendsResponse{Friends: friends})
}

// UnfriendHandler godoc
// @Summary Unfriend
// @Description Remove a friendship in both directions
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /friends/{userId} [delete]
func (h *FriendHandler) UnfriendHandler(c *gin.Context) {
	friendID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}

	if err := h.S.Unfriend(c.Request.Context(), loggedUserID(c), friendID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}
