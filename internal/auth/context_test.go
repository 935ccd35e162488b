package auth

import (
	"context"
	"testing"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 7, SessionID: 3})

	ac, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context")
	}
	if ac.UserID != 7 || ac.SessionID != 3 {
		t.Errorf("ac = %+v", ac)
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no auth context")
	}
}

func TestUserIDDefaultsToZero(t *testing.T) {
	if id := UserID(context.Background()); id != 0 {
		t.Errorf("id = %d, want 0", id)
	}
	ctx := WithAuth(context.Background(), AuthContext{UserID: 9})
	if id := UserID(ctx); id != 9 {
		t.Errorf("id = %d, want 9", id)
	}
}
