package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/biztime"
	"karnex/internal/shared/config"
	"karnex/internal/shared/utils"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "https://karnex.ir")
}

// SMTPConfigFrom maps the email section of the service configuration.
func SMTPConfigFrom(cfg config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		BaseURL:     cfg.BaseURL,
	}
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer sender
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

var resourceLabels = map[quota.Resource]string{
	quota.ResourceAICalls:  "درخواست‌های هوش مصنوعی",
	quota.ResourceProjects: "پروژه‌ها",
}

// SendQuotaReachedEmail tells the account owner a plan ceiling was reached
// and links to the upgrade page.
func (s *SMTPEmailService) SendQuotaReachedEmail(_ context.Context, to string, n quota.QuotaReachedNotice) error {
	upgradeURL := fmt.Sprintf("%s/pricing", s.config.BaseURL)
	label, ok := resourceLabels[n.Resource]
	if !ok {
		label = string(n.Resource)
	}
	renewal := biztime.FormatInBizTimezone(n.PeriodEnd, "2006/01/02")

	subject := "سقف استفاده از طرح شما تکمیل شد"
	htmlBody := fmt.Sprintf(`
		<html>
		<body dir="rtl" style="font-family: Vazirmatn, Tahoma, sans-serif;">
			<h2>سقف %s تکمیل شد</h2>
			<p>شما از %s مورد از %s مجاز در طرح %s استفاده کرده‌اید.</p>
			<p>سهمیه شما در تاریخ %s (میلادی) تمدید می‌شود.</p>
			<p>برای ادامه بدون وقفه، طرح خود را ارتقا دهید:</p>
			<p><a href="%s">ارتقای طرح</a></p>
		</body>
		</html>
	`, label, utils.PersianNumber(n.Used), utils.PersianNumber(n.Limit), n.PlanTier.String(), renewal, upgradeURL)

	plainBody := fmt.Sprintf(`
سقف %s تکمیل شد

شما از %s مورد از %s مجاز در طرح %s استفاده کرده‌اید.
سهمیه شما در تاریخ %s (میلادی) تمدید می‌شود.

برای ارتقای طرح به این نشانی بروید:
%s
	`, label, utils.PersianNumber(n.Used), utils.PersianNumber(n.Limit), n.PlanTier.String(), renewal, upgradeURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
