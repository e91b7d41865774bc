package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/middleware"
	"github.com/meeton-app/meeton-server/internal/service"
	"github.com/meeton-app/meeton-server/internal/testutil"
)

func TestAuth(t *testing.T) {
	dto.InitValidator()

	db := testutil.NewTestDB(t)
	dep := testutil.NewTestDependency(nil, db, nil, nil)
	userService := service.NewUserService(dep)

	ctx := context.Background()

	_, err := userService.CreateUser(ctx, &dto.CreateUserRequest{
		User:     dto.User{UserName: dto.UserName{Username: "alice"}, Email: "alice@example.com"},
		Password: dto.Password{Password: "password123"},
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := userService.LoginUser(ctx, &dto.LoginUserRequest{
		Identifier: dto.Identifier{Identifier: "alice"},
		Password:   dto.Password{Password: "password123"},
	})
	if err != nil {
		t.Fatalf("failed to login user: %v", err)
	}
	token := result.User.Token

	testCases := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid token", authHeader: middleware.PrefixBearer + token, expectedStatus: 200},
		{name: "missing header", authHeader: "", expectedStatus: 401},
		{name: "wrong scheme", authHeader: "Basic " + token, expectedStatus: 401},
		{name: "garbage token", authHeader: middleware.PrefixBearer + "not-a-jwt", expectedStatus: 401},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewMiddlewareTestRouter(
				middleware.ErrorHandler(),
				middleware.Auth(userService),
			)

			req := httptest.NewRequest(http.MethodGet, "/middleware-test", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("expected: %d, got: %d", tc.expectedStatus, w.Code)
			}
		})
	}
}

func TestAuthRejectsLoggedOutToken(t *testing.T) {
	dto.InitValidator()

	db := testutil.NewTestDB(t)
	dep := testutil.NewTestDependency(nil, db, nil, nil)
	userService := service.NewUserService(dep)

	ctx := context.Background()

	_, err := userService.CreateUser(ctx, &dto.CreateUserRequest{
		User:     dto.User{UserName: dto.UserName{Username: "bob"}, Email: "bob@example.com"},
		Password: dto.Password{Password: "password123"},
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := userService.LoginUser(ctx, &dto.LoginUserRequest{
		Identifier: dto.Identifier{Identifier: "bob"},
		Password:   dto.Password{Password: "password123"},
	})
	if err != nil {
		t.Fatalf("failed to login user: %v", err)
	}
	token := result.User.Token

	if err := userService.LogoutUser(ctx, result.User.ID); err != nil {
		t.Fatalf("failed to logout user: %v", err)
	}

	r := testutil.NewMiddlewareTestRouter(
		middleware.ErrorHandler(),
		middleware.Auth(userService),
	)

	req := httptest.NewRequest(http.MethodGet, "/middleware-test", nil)
	req.Header.Set("Authorization", middleware.PrefixBearer+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 401 {
		t.Fatalf("expected: 401, got: %d", w.Code)
	}
}
