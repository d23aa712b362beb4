package service

import (
	"context"

	"ykwatch/internal/modules/credential/domain"
	"ykwatch/internal/platform/clock"
)

// CredentialService resolves captures into credentials with an explicit
// clock so capture timestamps stay deterministic in tests.
type CredentialService struct {
	clock clock.Clock
}

func NewCredentialService(clock clock.Clock) *CredentialService {
	return &CredentialService{clock: clock}
}

func (s *CredentialService) Resolve(_ context.Context, capture domain.PageCapture) (domain.Credentials, error) {
	return domain.Resolve(capture, s.clock.Now())
}
