package usecases

import (
	"context"

	"karnex/internal/domain/quota"
)

// QuotaNotifier tells an account owner that a ceiling was reached.
type QuotaNotifier interface {
	SendQuotaReachedEmail(ctx context.Context, to string, notice quota.QuotaReachedNotice) error
}

// UsageMetrics records tracker outcomes.
type UsageMetrics interface {
	RecordIncrement(resource string, err error)
	RecordDegraded(gate string)
}

type nopUsageMetrics struct{}

func (nopUsageMetrics) RecordIncrement(string, error) {}
func (nopUsageMetrics) RecordDegraded(string)         {}
