package service

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"prochatbot/model"
)

// ReportConfig 包含用量报告邮件的配置信息
type ReportConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
	Password string
	To       []string
}

func ReportConfigFromEnv() ReportConfig {
	config := ReportConfig{
		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		From:     os.Getenv("SMTP_FROM"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
	if to := os.Getenv("REPORT_RECIPIENTS"); to != "" {
		for _, addr := range strings.Split(to, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				config.To = append(config.To, addr)
			}
		}
	}
	return config
}

// Enabled reports whether the daily mail job should be scheduled at all.
func (c ReportConfig) Enabled() bool {
	return c.SMTPHost != "" && len(c.To) > 0
}

// ReportService mails a daily per-school usage summary to the configured
// recipients.
type ReportService struct {
	db     *gorm.DB
	config ReportConfig
	logger *logrus.Logger
}

func NewReportService(db *gorm.DB, config ReportConfig, logger *logrus.Logger) *ReportService {
	return &ReportService{db: db, config: config, logger: logger}
}

// SendDailyUsageReport builds and sends the usage summary. Meant to run from
// the cron scheduler; failures are logged by the caller.
func (s *ReportService) SendDailyUsageReport(ctx context.Context) error {
	stats, err := model.GetAllStatistics(s.db.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("Usage report %s\n\n", time.Now().Format("2006-01-02")))
	if len(stats) == 0 {
		body.WriteString("No usage recorded yet.\n")
	}
	for _, row := range stats {
		body.WriteString(fmt.Sprintf("school %d: %d logins, %d questions, %d seconds session time\n",
			row.SchoolID, row.TotalLogins, row.TotalQuestions, row.TotalSessionDuration))
	}

	e := email.NewEmail()
	e.From = s.config.From
	e.To = s.config.To
	e.Subject = fmt.Sprintf("Prochatbot usage report %s", time.Now().Format("2006-01-02"))
	e.Text = []byte(body.String())

	addr := s.config.SMTPHost + ":" + s.config.SMTPPort
	auth := smtp.PlainAuth("", s.config.From, s.config.Password, s.config.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}

	s.logger.Infof("usage report sent to %d recipients", len(s.config.To))
	return nil
}
