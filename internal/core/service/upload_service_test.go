package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

type stubSigner struct {
	key string
	ttl time.Duration
	err error
}

func (s *stubSigner) PresignPut(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.key, s.ttl = key, ttl
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.test/" + key + "?sig", nil
}

func TestUploadService_Sign(t *testing.T) {
	signer := &stubSigner{}
	svc := NewUploadService(signer, 10*time.Minute)
	svc.now = testClock

	ticket, err := svc.Sign(context.Background(), domain.Identity{UserID: "u1"}, "Scan.PNG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ticket.Key, "uploads/u1/") || !strings.HasSuffix(ticket.Key, ".png") {
		t.Errorf("unexpected key %q", ticket.Key)
	}
	if signer.ttl != 10*time.Minute {
		t.Errorf("ttl not forwarded: %v", signer.ttl)
	}
	if !ticket.ExpiresAt.Equal(testNow.Add(10 * time.Minute)) {
		t.Errorf("unexpected expiry %v", ticket.ExpiresAt)
	}
}

func TestUploadService_DropsOddExtensions(t *testing.T) {
	signer := &stubSigner{}
	svc := NewUploadService(signer, 0)

	for _, name := range []string{"", "noext", "weird.ex$t", "long.abcdefghij"} {
		ticket, err := svc.Sign(context.Background(), domain.Identity{UserID: "u1"}, name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if strings.Contains(strings.TrimPrefix(ticket.Key, "uploads/u1/"), ".") {
			t.Errorf("%q: extension should be dropped, got %q", name, ticket.Key)
		}
	}
}

func TestUploadService_Errors(t *testing.T) {
	if _, err := NewUploadService(nil, 0).Sign(context.Background(), domain.Identity{UserID: "u1"}, "a.png"); !errors.Is(err, domain.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}

	boom := errors.New("minio down")
	svc := NewUploadService(&stubSigner{err: boom}, 0)
	if _, err := svc.Sign(context.Background(), domain.Identity{UserID: "u1"}, "a.png"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped signer error, got %v", err)
	}
}
