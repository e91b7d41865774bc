package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/service"
)

type EventHandler struct {
	S *service.EventService
}

// CreateEventHandler godoc
// @Summary Create event
// @Description Create a new event hosted by the authenticated user
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateEventRequest true "Create event payload"
// @Success 201 {object} dto.EventResponse
// @Router /events/ [post]
func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	body := validatedBody[dto.CreateEventRequest](c)

	event, err := h.S.CreateEvent(c.Request.Context(), loggedUserID(c), &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(201, event)
}

// GetEventsHandler godoc
// @Summary List visible events
// @Description Returns all events the authenticated user may see
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EventsResponse
// @Router /events/ [get]
func (h *EventHandler) GetEventsHandler(c *gin.Context) {
	events, err := h.S.GetVisibleEvents(c.Request.Context(), loggedUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, dto.EventsResponse{Events: events})
}

// GetEventHandler godoc
// @Summary Get event
// @Description Returns a single event with its attendees
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EventResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEventHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	event, err := h.S.GetEvent(c.Request.Context(), loggedUserID(c), eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, event)
}

// UpdateEventHandler godoc
// @Summary Update event
// @Description Update an event, host only
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateEventRequest true "Update event payload"
// @Success 200 {object} dto.EventResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEventHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	body := validatedBody[dto.UpdateEventRequest](c)

	event, err := h.S.UpdateEvent(c.Request.Context(), loggedUserID(c), eventID, &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, event)
}

// DeleteEventHandler godoc
// @Summary Delete event
// @Description Delete an event and its attendee and comment rows, host only
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEventHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.S.DeleteEvent(c.Request.Context(), loggedUserID(c), eventID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}

// UpsertRsvpHandler godoc
// @Summary RSVP to event
// @Description Create or update the authenticated user's RSVP
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpsertRsvpRequest true "RSVP payload"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "event is at capacity"
// @Router /events/{id}/rsvp [post]
func (h *EventHandler) UpsertRsvpHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	body := validatedBody[dto.UpsertRsvpRequest](c)

	attendee, err := h.S.UpsertRsvp(c.Request.Context(), loggedUserID(c), eventID, body.Rsvp)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, gin.H{"rsvp": attendee.Rsvp})
}

// RemoveRsvpHandler godoc
// @Summary Remove RSVP
// @Description Remove the authenticated user's RSVP from an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /events/{id}/rsvp [delete]
func (h *EventHandler) RemoveRsvpHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.S.RemoveRsvp(c.Request.Context(), loggedUserID(c), eventID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}

// InviteUserHandler godoc
// @Summary Invite user to event
// @Description Invite a user to an event as a pending attendee, host only
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.InviteUserRequest true "Invite payload"
// @Success 201 {object} nil
// @Router /events/{id}/invite [post]
func (h *EventHandler) InviteUserHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	body := validatedBody[dto.InviteUserRequest](c)

	if err := h.S.InviteUser(c.Request.Context(), loggedUserID(c), eventID, body.UserID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(201)
}

// AddCommentHandler godoc
// @Summary Comment on event
// @Description Add a comment to an event the authenticated user may see
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCommentRequest true "Comment payload"
// @Success 201 {object} dto.CommentResponse
// @Router /events/{id}/comments [post]
func (h *EventHandler) AddCommentHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	body := validatedBody[dto.CreateCommentRequest](c)

	comment, err := h.S.AddComment(c.Request.Context(), loggedUserID(c), eventID, &body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(201, comment)
}

// GetCommentsHandler godoc
// @Summary List event comments
// @Description Returns an event's comments in chronological order
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CommentsResponse
// @Router /events/{id}/comments [get]
func (h *EventHandler) GetCommentsHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.S.GetEventComments(c.Request.Context(), loggedUserID(c), eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, dto.CommentsResponse{Comments: comments})
}

// DeleteCommentHandler godoc
// @Summary Delete comment
// @Description Delete a comment, allowed for the author and the event host
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /events/{id}/comments/{commentId} [delete]
func (h *EventHandler) DeleteCommentHandler(c *gin.Context) {
	eventID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.S.DeleteComment(c.Request.Context(), loggedUserID(c), eventID, commentID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}
