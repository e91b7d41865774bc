package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/testutil"
)

func newRedisTestDep(t *testing.T) (*dependency.Dependency, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	dep := testutil.NewTestDependency(nil, testutil.NewTestDB(t), client, nil)
	return dep, mr
}

func TestValidateUserTokenRedis(t *testing.T) {
	ctx := context.Background()

	dep, mr := newRedisTestDep(t)
	svc := NewUserService(dep)
	alice := createTestUser(t, dep, "alice")

	result, err := svc.LoginUser(ctx, &dto.LoginUserRequest{
		Identifier: dto.Identifier{Identifier: "alice"},
		Password:   dto.Password{Password: "password123"},
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	token := result.User.Token

	if err := svc.ValidateUserToken(ctx, token, alice.ID); err != nil {
		t.Errorf("expected the token to validate: %v", err)
	}

	// The token lives under a per-user key with a TTL.
	key := buildTokenKey(alice.ID, token)
	if !mr.Exists(key) {
		t.Fatalf("expected key %q in redis", key)
	}
	if mr.TTL(key) <= 0 {
		t.Error("expected a sliding expiration on the token key")
	}

	// Expiry in redis revokes the session.
	mr.FastForward(time.Duration(dep.Cfg.UserTokenExpiry+1) * time.Second)
	if err := svc.ValidateUserToken(ctx, token, alice.ID); err == nil {
		t.Error("expected an expired token to be rejected")
	}
}

func TestLogoutUserRedis(t *testing.T) {
	ctx := context.Background()

	dep, mr := newRedisTestDep(t)
	svc := NewUserService(dep)
	alice := createTestUser(t, dep, "alice")

	result, err := svc.LoginUser(ctx, &dto.LoginUserRequest{
		Identifier: dto.Identifier{Identifier: "alice"},
		Password:   dto.Password{Password: "password123"},
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	if err := svc.LogoutUser(ctx, alice.ID); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}

	if mr.Exists(buildTokenKey(alice.ID, result.User.Token)) {
		t.Error("expected the token key to be deleted on logout")
	}
	if err := svc.ValidateUserToken(ctx, result.User.Token, alice.ID); err == nil {
		t.Error("expected the token to be revoked after logout")
	}
}

func TestOnlineStatusRedis(t *testing.T) {
	ctx := context.Background()

	dep, _ := newRedisTestDep(t)
	friendSvc := NewFriendService(dep)
	alice := createTestUser(t, dep, "alice")
	bob := createTestUser(t, dep, "bob")
	makeFriends(t, dep, alice.ID, bob.ID)

	// A heartbeat marks bob online for his friends.
	updateHeartBeat(dep, bob.ID)

	// The heartbeat write is async; give it a moment.
	deadline := time.Now().Add(time.Second)
	for {
		friends, err := friendSvc.GetUserFriends(ctx, alice.ID)
		if err != nil {
			t.Fatalf("failed to get friends: %v", err)
		}
		if len(friends) == 1 && friends[0].Online {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected bob to be reported online")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
