package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/logger"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.messages = append(s.messages, m...)
	return s.err
}

func renderMessage(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	decoded, err := io.ReadAll(quotedprintable.NewReader(&buf))
	require.NoError(t, err)
	return string(decoded)
}

func TestSendQuotaReachedEmail(t *testing.T) {
	rec := &recordingSender{}
	svc := &SMTPEmailService{
		config: SMTPConfig{FromAddress: "noreply@karnex.ir", FromName: "Karnex", BaseURL: "https://karnex.ir"},
		dialer: rec,
	}

	err := svc.SendQuotaReachedEmail(context.Background(), "founder@example.com", quota.QuotaReachedNotice{
		Resource:  quota.ResourceAICalls,
		Used:      5000,
		Limit:     5000,
		PlanTier:  quota.PlanTierFree,
		PeriodEnd: time.Date(2025, 3, 20, 20, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rec.messages, 1)

	msg := rec.messages[0]
	assert.Equal(t, []string{"founder@example.com"}, msg.GetHeader("To"))

	body := renderMessage(t, msg)
	assert.Contains(t, body, "https://karnex.ir/pricing")
	assert.Contains(t, body, "درخواست‌های هوش مصنوعی")
	assert.NotContains(t, body, "5000")
}

func TestSendQuotaReachedEmail_SendError(t *testing.T) {
	svc := &SMTPEmailService{dialer: &recordingSender{err: errors.New("connection refused")}}

	err := svc.SendQuotaReachedEmail(context.Background(), "a@b.c", quota.QuotaReachedNotice{Resource: quota.ResourceProjects})
	assert.ErrorContains(t, err, "connection refused")
}

func TestNoopEmailService(t *testing.T) {
	svc := NewNoopEmailService(logger.NewNopLogger())
	assert.NoError(t, svc.SendQuotaReachedEmail(context.Background(), "a@b.c", quota.QuotaReachedNotice{}))
}
