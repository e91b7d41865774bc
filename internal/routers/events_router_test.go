package routers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeton-app/meeton-server/internal/dto"
)

func newEventBody(name string) dto.CreateEventRequest {
	return dto.CreateEventRequest{
		EventBody: dto.EventBody{
			Name:     name,
			Date:     "2026-09-12",
			Time:     "19:00",
			Duration: 120,
			Location: "Community hall",
		},
	}
}

func TestEventsRouterFlow(t *testing.T) {
	env := setupRouterTest(t)
	hostID, hostToken := signupAndLogin(t, env.dep, "host")
	_, guestToken := signupAndLogin(t, env.dep, "guest")

	// host creates an event
	resp := doRequest(t, env, http.MethodPost, "/events/", hostToken, newEventBody("Quiz night"))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	event := decodeBody[dto.EventResponse](t, resp)
	assert.Equal(t, "Quiz night", event.Name)
	assert.Equal(t, hostID, event.Host.ID)
	require.Len(t, event.Attendees, 1)
	assert.Equal(t, "YES", event.Attendees[0].Rsvp)

	eventPath := "/events/" + uintToString(event.ID)

	// guest rsvps
	resp = doRequest(t, env, http.MethodPost, eventPath+"/rsvp", guestToken, dto.UpsertRsvpRequest{Rsvp: "YES"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// event now shows both attendees
	resp = doRequest(t, env, http.MethodGet, eventPath, guestToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeBody[dto.EventResponse](t, resp).Attendees, 2)

	// guest comments
	resp = doRequest(t, env, http.MethodPost, eventPath+"/comments", guestToken, dto.CreateCommentRequest{Content: "count me in"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doRequest(t, env, http.MethodGet, eventPath+"/comments", hostToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	comments := decodeBody[dto.CommentsResponse](t, resp)
	require.Len(t, comments.Comments, 1)
	assert.Equal(t, "count me in", comments.Comments[0].Content)

	// listing shows the event for both users
	resp = doRequest(t, env, http.MethodGet, "/events/", guestToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeBody[dto.EventsResponse](t, resp).Events, 1)

	// guest cannot update or delete
	resp = doRequest(t, env, http.MethodPut, eventPath, guestToken, newEventBody("Hijacked"))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doRequest(t, env, http.MethodDelete, eventPath, guestToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// host deletes
	resp = doRequest(t, env, http.MethodDelete, eventPath, hostToken, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = doRequest(t, env, http.MethodGet, eventPath, hostToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestEventsRouterCapacityConflict(t *testing.T) {
	env := setupRouterTest(t)
	_, hostToken := signupAndLogin(t, env.dep, "host")
	_, guestToken := signupAndLogin(t, env.dep, "guest")

	body := newEventBody("Tiny dinner")
	capacity := 1
	body.Capacity = &capacity

	resp := doRequest(t, env, http.MethodPost, "/events/", hostToken, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	event := decodeBody[dto.EventResponse](t, resp)

	// the host's seat is the only one
	resp = doRequest(t, env, http.MethodPost, "/events/"+uintToString(event.ID)+"/rsvp", guestToken, dto.UpsertRsvpRequest{Rsvp: "YES"})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestEventsRouterInvite(t *testing.T) {
	env := setupRouterTest(t)
	_, hostToken := signupAndLogin(t, env.dep, "host")
	guestID, guestToken := signupAndLogin(t, env.dep, "guest")

	body := newEventBody("Private dinner")
	body.PrivacyLevel = "PRIVATE"

	resp := doRequest(t, env, http.MethodPost, "/events/", hostToken, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	event := decodeBody[dto.EventResponse](t, resp)
	eventPath := "/events/" + uintToString(event.ID)

	// hidden until invited
	resp = doRequest(t, env, http.MethodGet, eventPath, guestToken, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = doRequest(t, env, http.MethodPost, eventPath+"/invite", hostToken, dto.InviteUserRequest{UserID: guestID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doRequest(t, env, http.MethodGet, eventPath, guestToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// the invite produced a high priority notification
	resp = doRequest(t, env, http.MethodGet, "/notifications/", guestToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	notifications := decodeBody[dto.NotificationsResponse](t, resp)
	require.Len(t, notifications.Notifications, 1)
	assert.Equal(t, "HIGH", notifications.Notifications[0].Priority)
	assert.Equal(t, 1, notifications.UnreadCount)
}

func TestEventsRouterValidation(t *testing.T) {
	env := setupRouterTest(t)
	_, token := signupAndLogin(t, env.dep, "host")

	// missing name
	body := newEventBody("")
	resp := doRequest(t, env, http.MethodPost, "/events/", token, body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// bad date format
	body = newEventBody("Quiz night")
	body.Date = "12-09-2026"
	resp = doRequest(t, env, http.MethodPost, "/events/", token, body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// bad rsvp value
	resp = doRequest(t, env, http.MethodPost, "/events/1/rsvp", token, map[string]string{"rsvp": "PERHAPS"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// non-numeric event id
	resp = doRequest(t, env, http.MethodGet, "/events/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
