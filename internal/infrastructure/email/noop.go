package email

import (
	"context"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

// NoopEmailService logs instead of sending. Used when email is disabled.
type NoopEmailService struct {
	logger logger.Interface
}

func NewNoopEmailService(logger logger.Interface) *NoopEmailService {
	return &NoopEmailService{logger: logger}
}

func (s *NoopEmailService) SendQuotaReachedEmail(_ context.Context, to string, n quota.QuotaReachedNotice) error {
	s.logger.Debugw("email disabled, skipping quota notice",
		"to", utils.MaskEmail(to),
		"resource", n.Resource,
		"limit", n.Limit,
	)
	return nil
}
