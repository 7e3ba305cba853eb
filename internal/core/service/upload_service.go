package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// UploadService hands out presigned upload URLs under uploads/<userID>/.
type UploadService struct {
	signer ports.UploadSigner
	ttl    time.Duration
	now    func() time.Time
}

// NewUploadService accepts a nil signer; Sign then reports ErrStorageDisabled.
func NewUploadService(signer ports.UploadSigner, ttl time.Duration) *UploadService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &UploadService{signer: signer, ttl: ttl, now: time.Now}
}

func (s *UploadService) Sign(ctx context.Context, caller domain.Identity, filename string) (*ports.UploadTicket, error) {
	if s.signer == nil {
		return nil, domain.ErrStorageDisabled
	}

	ext := strings.ToLower(path.Ext(filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	key := fmt.Sprintf("uploads/%s/%s%s", caller.UserID, uuid.NewString(), ext)

	url, err := s.signer.PresignPut(ctx, key, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}
	return &ports.UploadTicket{
		URL:       url,
		Key:       key,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}, nil
}
