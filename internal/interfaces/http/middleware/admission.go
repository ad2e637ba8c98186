package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"karnex/internal/domain/admission"
	"karnex/internal/infrastructure/ratelimit"
	"karnex/internal/shared/constants"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

// Admitter is the admission controller seen by HTTP.
type Admitter interface {
	Admit(ctx context.Context, clientKey string, userID uint, op admission.Operation) admission.Decision
	AdmitQuota(ctx context.Context, userID uint, op admission.Operation) admission.Decision
	Commit(ctx context.Context, userID uint, op admission.Operation)
}

type AdmissionMiddleware struct {
	admitter   Admitter
	now        func() time.Time
	logger     logger.Interface
	proxiedIPs bool
}

// AdmissionOption configures an AdmissionMiddleware.
type AdmissionOption func(*AdmissionMiddleware)

// WithTrustedProxyClientIP keys clients by gin's ClientIP, which honours
// forwarding headers only when they come from a trusted proxy.
func WithTrustedProxyClientIP() AdmissionOption {
	return func(m *AdmissionMiddleware) { m.proxiedIPs = true }
}

func NewAdmissionMiddleware(admitter Admitter, logger logger.Interface, opts ...AdmissionOption) *AdmissionMiddleware {
	m := &AdmissionMiddleware{
		admitter: admitter,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *AdmissionMiddleware) clientKey(c *gin.Context) string {
	if m.proxiedIPs {
		return ratelimit.ClientKey(c.ClientIP(), "")
	}
	return ratelimit.ClientKey(c.GetHeader(constants.HeaderXForwardedFor), c.GetHeader(constants.HeaderXRealIP))
}

// RateLimit applies only the per-client window. It does not need an
// authenticated caller, so it belongs ahead of auth. A later Guard on the
// same request checks quota only.
func (m *AdmissionMiddleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := m.clientKey(c)
		c.Set(constants.ContextKeyClientKey, clientKey)

		decision := m.admitter.Admit(c.Request.Context(), clientKey, UserID(c), admission.OperationRequest)
		m.writeHeaders(c, decision)
		if !decision.Allowed {
			m.deny(c, clientKey, UserID(c), decision)
			return
		}

		c.Set(constants.ContextKeyWindowCounted, true)
		c.Next()
	}
}

// Guard admits op, runs the handler, then counts usage when the handler
// succeeded. Responses with status >= 400 or recorded handler errors are
// not counted.
func (m *AdmissionMiddleware) Guard(op admission.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)

		var decision admission.Decision
		clientKey := c.GetString(constants.ContextKeyClientKey)
		if c.GetBool(constants.ContextKeyWindowCounted) {
			decision = m.admitter.AdmitQuota(c.Request.Context(), userID, op)
		} else {
			clientKey = m.clientKey(c)
			c.Set(constants.ContextKeyClientKey, clientKey)
			decision = m.admitter.Admit(c.Request.Context(), clientKey, userID, op)
		}
		m.writeHeaders(c, decision)

		if !decision.Allowed {
			m.deny(c, clientKey, userID, decision)
			return
		}

		c.Next()

		if !op.Billable() || userID == 0 {
			return
		}
		if c.Writer.Status() >= 400 || len(c.Errors) > 0 {
			return
		}
		m.admitter.Commit(context.WithoutCancel(c.Request.Context()), userID, op)
	}
}

func (m *AdmissionMiddleware) writeHeaders(c *gin.Context, d admission.Decision) {
	if d.Window.Limit > 0 {
		c.Header(constants.HeaderRateLimitLimit, strconv.FormatInt(d.Window.Limit, 10))
		c.Header(constants.HeaderRateLimitRemaining, strconv.FormatInt(d.Window.Remaining, 10))
		c.Header(constants.HeaderRateLimitReset, strconv.FormatInt(d.Window.ResetAt.Unix(), 10))
	}
	if d.Allowed && d.Operation.Billable() && !d.Unlimited() {
		c.Header(constants.HeaderQuotaRemaining, strconv.FormatInt(d.Remaining, 10))
	}
}

func (m *AdmissionMiddleware) deny(c *gin.Context, clientKey string, userID uint, d admission.Decision) {
	m.logger.Infow("request denied by admission",
		"operation", d.Operation,
		"reason", d.Reason,
		"client_key", clientKey,
		"user_id", userID,
		"used", d.Used,
		"limit", d.Limit,
	)

	if d.Reason == admission.ReasonRateLimited {
		wait := int64(d.RetryAfter(m.now()) / time.Second)
		c.Header(constants.HeaderRetryAfter, strconv.FormatInt(wait, 10))
		utils.DeniedResponse(c, utils.DenialResponse{
			Error:      "rate limit exceeded",
			Message:    utils.Persianf("تعداد درخواست‌ها بیش از حد مجاز است. لطفاً %d ثانیه دیگر دوباره تلاش کنید.", wait),
			Code:       d.Code(),
			RetryAfter: wait,
		})
		return
	}

	used, limit := d.Used, d.Limit
	body := utils.DenialResponse{
		Code:         d.Code(),
		Used:         &used,
		Limit:        &limit,
		LimitReached: true,
	}
	if d.Reason == admission.ReasonProjectLimitExceeded {
		body.Error = "project limit exceeded"
		body.Message = utils.Persianf("به سقف تعداد پروژه‌های طرح خود رسیده‌اید (%d از %d). برای ساخت پروژه جدید طرح خود را ارتقا دهید.", used, limit)
	} else {
		body.Error = "AI quota exceeded"
		body.Message = utils.Persianf("سهمیه هوش مصنوعی این ماه شما به پایان رسیده است (%d از %d). برای ادامه طرح خود را ارتقا دهید.", used, limit)
	}
	utils.DeniedResponse(c, body)
}
