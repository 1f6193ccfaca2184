package service

import (
	"fmt"
	"html"
	"io"

	"fintrack/config"
	"fintrack/report"

	"gopkg.in/gomail.v2"
)

// ReportFilename 邮件附件名
const ReportFilename = "financial_report.pdf"

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return s
}

// SendReport 发送带 PDF 附件的报表邮件
func (s *EmailService) SendReport(to, username string, r report.Report, pdf []byte) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	subject := "[FinTrack] Financial report " + r.Period()
	body := s.generateReportEmailBody(username, r)

	m := s.newMessage(to, subject, body)
	m.Attach(ReportFilename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := s.send(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// generateReportEmailBody 生成报表邮件内容
func (s *EmailService) generateReportEmailBody(username string, r report.Report) string {
	cur := html.EscapeString(r.Currency)
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #1976d2, #1565c0); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 8px 0; border-bottom: 1px solid #eee; }
        td.amount { text-align: right; font-weight: 600; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Financial Transaction Report</h1>
        </div>
        <div class="content">
            <p>Hello <strong>%s</strong>,</p>
            <p>Your report for <strong>%s</strong> is attached.</p>
            <table>
                <tr><td>Total Income</td><td class="amount">%s%s</td></tr>
                <tr><td>Total Expense</td><td class="amount">%s%s</td></tr>
                <tr><td>Net Balance</td><td class="amount">%s%s</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>This email was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(username), r.Period(),
		cur, r.Totals.Income.StringFixed(2),
		cur, r.Totals.Expense.StringFixed(2),
		cur, r.Totals.Net.StringFixed(2))
}

func (s *EmailService) newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}
