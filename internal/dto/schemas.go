package dto

import (
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/golang-jwt/jwt/v5"
)

var (
	Validate *validator.Validate
	Trans    ut.Translator
)

func InitValidator() {
	en := en.New()
	uni := ut.New(en, en)
	Trans, _ = uni.GetTranslator("en")

	Validate = validator.New()

	_ = enTranslations.RegisterDefaultTranslations(Validate, Trans)

	_ = Validate.RegisterValidation("trim", trimValue) // SIDE EFFECT: trims the value
	_ = Validate.RegisterValidation("username", validateUsername)
	_ = Validate.RegisterValidation("password", validatePassword)
	_ = Validate.RegisterValidation("identifier", validateIdentifier)
	registerUsernameTranslation(Validate, Trans)
	registerPasswordTranslation(Validate, Trans)
	registerIdentifierTranslation(Validate, Trans)
}

// Space Trimming, SIDE EFFECT!
func trimValue(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	trimed := strings.TrimSpace(value)
	fl.Field().SetString(trimed)

	return true
}

// Username

type UserName struct {
	Username string `json:"username" validate:"required,trim,min=3,max=50,username"`
}

// Contains only letters, numbers, ".", "_" or "-"
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()

	return usernameRegex.MatchString(username)
}

func registerUsernameTranslation(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation(
		"username",
		trans,
		func(ut ut.Translator) error {
			return ut.Add(
				"username",
				"username may only contain letters, numbers, '.', '_' or '-'",
				true,
			)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("username")
			return msg
		},
	)
}

// Password

type Password struct {
	Password string `json:"password" validate:"required,trim,min=3,max=20,password"`
}

type OldPassword struct {
	OldPassword string `json:"oldPassword" validate:"required,trim,password,min=3,max=20"`
}

type NewPassword struct {
	NewPassword string `json:"newPassword" validate:"required,trim,password,min=3,max=20"`
}

var passwordRegex = regexp.MustCompile(`^[A-Za-z0-9,.#$%@^;|_!*&?]+$`)

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	return passwordRegex.MatchString(password)
}

func registerPasswordTranslation(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation(
		"password",
		trans,
		func(ut ut.Translator) error {
			return ut.Add(
				"password",
				"password may only contain letters, numbers, and the following symbols: ,.#$%@^;|_!*&?",
				true,
			)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("password")
			return msg
		},
	)
}

// Identifier
type Identifier struct {
	Identifier string `json:"identifier" validate:"required,trim,min=3,max=100,identifier"` // username or email
}

func validateIdentifier(fl validator.FieldLevel) bool {
	identifier := fl.Field().String()

	usernameErrs := Validate.Var(identifier, "username")
	emailErrs := Validate.Var(identifier, "email")

	if usernameErrs == nil || emailErrs == nil {
		return true
	}

	return false
}

func registerIdentifierTranslation(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation(
		"identifier",
		trans,
		func(ut ut.Translator) error {
			return ut.Add(
				"identifier",
				"identifier may only contain a valid username or email address",
				true,
			)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("identifier")
			return msg
		},
	)
}

// User DTOs

type User struct {
	UserName
	Email  string  `json:"email" validate:"required,trim,email,max=100"`
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Bio    *string `json:"bio" validate:"omitempty,max=500"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

type SimpleUser struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name,omitempty"`
	Avatar   *string `json:"avatar"`
}

type CreateUserRequest struct {
	User
	Password
}

type UpdateUserPasswordRequest struct {
	OldPassword
	NewPassword
}

type LoginUserRequest struct {
	Identifier
	Password
}

type UpdateUserRequest struct {
	User
}

type UserWithTokenResponse struct {
	ID            uint    `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	Bio           *string `json:"bio"`
	Avatar        *string `json:"avatar"`
	TwoFA         bool    `json:"twoFa"`
	GoogleOauthId *string `json:"googleOauthId,omitempty"`
	CreatedAt     int64   `json:"createdAt"`
	Token         string  `json:"token"`
}

type UserWithoutTokenResponse struct {
	ID            uint    `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	Bio           *string `json:"bio"`
	Avatar        *string `json:"avatar"`
	TwoFA         bool    `json:"twoFa"`
	GoogleOauthId *string `json:"googleOauthId,omitempty"`
	CreatedAt     int64   `json:"createdAt"`
}

type UsersResponse struct {
	Users []SimpleUser `json:"users"`
}

// For 2FA

type DisableTwoFARequest struct {
	Password
}

type TwoFAConfirmRequest struct {
	TwoFACode  string `json:"twoFaCode" validate:"required,len=6,numeric"`
	SetupToken string `json:"setupToken" validate:"required"`
}

type TwoFAChallengeRequest struct {
	TwoFACode    string `json:"twoFaCode" validate:"required,len=6,numeric"`
	SessionToken string `json:"sessionToken" validate:"required"`
}

type TwoFASetupResponse struct {
	TwoFASecret string `json:"twoFaSecret"`
	SetupToken  string `json:"setupToken"`
	TwoFaUri    string `json:"twoFaUri"`
}

type TwoFAPendingUserResponse struct {
	Message      string `json:"message"`
	SessionToken string `json:"sessionToken"`
}

// Friendship DTOs

type SendFriendRequestRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

// Status is "pending" for a new request and "accepted" when a mutual request
// collapsed directly into friendship.
type SendFriendRequestResponse struct {
	RequestID *uint  `json:"requestId,omitempty"`
	Status    string `json:"status"`
}

type RespondFriendRequestRequest struct {
	RequestID uint   `json:"requestId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=accept decline"`
}

type RespondFriendRequestResponse struct {
	Status string `json:"status"`
}

type FriendRequestInfo struct {
	RequestID uint       `json:"requestId"`
	Sender    SimpleUser `json:"sender"`
	Receiver  SimpleUser `json:"receiver"`
	CreatedAt int64      `json:"createdAt"`
}

type FriendRequestsResponse struct {
	Incoming []FriendRequestInfo `json:"incoming"`
	Outgoing []FriendRequestInfo `json:"outgoing"`
}

type FriendResponse struct {
	SimpleUser
	Online bool `json:"online"`
}

type FriendsResponse struct {
	Friends []FriendResponse `json:"friends"`
}

// Event DTOs

type EventBody struct {
	Name         string  `json:"name" validate:"required,trim,min=1,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string  `json:"time" validate:"required,datetime=15:04"`
	Duration     int     `json:"duration" validate:"required,min=1,max=1440"` // minutes
	Location     string  `json:"location" validate:"required,trim,min=1,max=200"`
	Capacity     *int    `json:"capacity" validate:"omitempty,min=1"`
	PrivacyLevel string  `json:"privacyLevel" validate:"omitempty,oneof=PUBLIC FRIENDS_ONLY PRIVATE"`
}

type CreateEventRequest struct {
	EventBody
}

type UpdateEventRequest struct {
	EventBody
}

type AttendeeResponse struct {
	SimpleUser
	Rsvp string `json:"rsvp"`
}

type EventResponse struct {
	ID           uint               `json:"id"`
	Host         SimpleUser         `json:"host"`
	Name         string             `json:"name"`
	Description  *string            `json:"description"`
	Date         string             `json:"date"`
	Time         string             `json:"time"`
	Duration     int                `json:"duration"`
	Location     string             `json:"location"`
	Capacity     *int               `json:"capacity"`
	PrivacyLevel string             `json:"privacyLevel"`
	CreatedAt    int64              `json:"createdAt"`
	Attendees    []AttendeeResponse `json:"attendees"`
}

type EventsResponse struct {
	Events []EventResponse `json:"events"`
}

type UpsertRsvpRequest struct {
	Rsvp string `json:"rsvp" validate:"required,oneof=PENDING YES NO MAYBE"`
}

type InviteUserRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,trim,min=1,max=1000"`
}

type CommentResponse struct {
	ID        uint       `json:"id"`
	EventID   uint       `json:"eventId"`
	User      SimpleUser `json:"user"`
	Content   string     `json:"content"`
	CreatedAt int64      `json:"createdAt"`
}

type CommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// Notification DTOs

type NotificationResponse struct {
	ID              uint    `json:"id"`
	Message         string  `json:"message"`
	Link            *string `json:"link,omitempty"`
	SourceType      string  `json:"sourceType"`
	Priority        string  `json:"priority"`
	IsRead          bool    `json:"isRead"`
	FriendRequestID *uint   `json:"friendRequestId,omitempty"`
	EventID         *uint   `json:"eventId,omitempty"`
	CreatedAt       int64   `json:"createdAt"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// OAuth DTOs

type GoogleUserData struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

type GoogleJwtPayload struct {
	AccessToken  string `json:"access_token"`
	IdToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type GoogleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// JWT payloads

type UserJwtPayload struct {
	UserID uint   `json:"userId"`
	Type   string `json:"type"` // must be "USER"
	jwt.RegisteredClaims
}

type OauthStateJwtPayload struct {
	Type string `json:"type"` // must be "GoogleOAuthState"
	jwt.RegisteredClaims
}

type TwoFaSetupJwtPayload struct {
	UserID uint   `json:"userId"`
	Secret string `json:"secret"`
	Type   string `json:"type"` // must be "2FA_SETUP"
	jwt.RegisteredClaims
}

type TwoFaJwtPayload struct {
	UserID uint   `json:"userId"`
	Type   string `json:"type"` // must be "2FA"
	jwt.RegisteredClaims
}
