package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CodyErekson/kitchenKiosk/internal/repository"
)

func TestRememberServiceIssue(t *testing.T) {
	repo := newStubCookieRepo()
	service := NewRememberService(repo)

	cookie, err := service.Issue(context.Background(), 3, "cody")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	username, token, ok := SplitCookie(cookie)
	if !ok {
		t.Fatalf("issued cookie %q does not split", cookie)
	}
	if username != "cody" {
		t.Fatalf("expected username cody, got %q", username)
	}
	if len(token) != 32 {
		t.Fatalf("expected 32 hex characters, got %d", len(token))
	}

	if len(repo.cookies) != 1 {
		t.Fatalf("expected one stored cookie, got %d", len(repo.cookies))
	}
	if repo.cookies[0].UserID != 3 || repo.cookies[0].Value != token {
		t.Fatalf("stored cookie does not match issued value: %+v", repo.cookies[0])
	}
}

func TestRememberServiceRedeemSingleUse(t *testing.T) {
	repo := newStubCookieRepo()
	repo.usernames[3] = "cody"
	service := NewRememberService(repo)

	cookie, err := service.Issue(context.Background(), 3, "cody")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	_, token, _ := SplitCookie(cookie)

	userID, err := service.Redeem(context.Background(), "cody", token)
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if userID != 3 {
		t.Fatalf("expected user id 3, got %d", userID)
	}

	if _, err := service.Redeem(context.Background(), "cody", token); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected second redemption to miss, got %v", err)
	}
}

func TestRememberServicePurge(t *testing.T) {
	repo := newStubCookieRepo()
	repo.usernames[3] = "cody"
	service := NewRememberService(repo)

	if _, err := service.Issue(context.Background(), 3, "cody"); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	count, err := service.Purge(context.Background(), "cody")
	if err != nil {
		t.Fatalf("Purge returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 purged cookie, got %d", count)
	}
	if len(repo.cookies) != 0 {
		t.Fatal("expected cookie store to be empty after purge")
	}
}

func TestSplitCookie(t *testing.T) {
	username, token, ok := SplitCookie("cody:deadbeef")
	if !ok || username != "cody" || token != "deadbeef" {
		t.Fatalf("unexpected split: %q %q %v", username, token, ok)
	}

	// Split happens at the last colon so colons in usernames survive.
	username, token, ok = SplitCookie("co:dy:deadbeef")
	if !ok || username != "co:dy" || token != "deadbeef" {
		t.Fatalf("unexpected split: %q %q %v", username, token, ok)
	}

	for _, value := range []string{"", "cody", ":deadbeef", "cody:", strings.Repeat(":", 3)} {
		if _, _, ok := SplitCookie(value); ok {
			t.Fatalf("SplitCookie accepted malformed value %q", value)
		}
	}
}
