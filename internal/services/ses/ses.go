// Package ses sends comparison report summaries via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "palms-analytics/internal/config"
	"palms-analytics/internal/services/comparison"
	"palms-analytics/internal/utils"
)

// Service handles SES email operations
type Service struct {
	client    *ses.Client
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To        string
	Subject   string
	HTMLBody  string
	TextBody  string
	ReplyTo   string
	CC        []string
	BCC       []string
	ConfigSet string
}

// SummaryParams contains data for a comparison summary email
type SummaryParams struct {
	ChapterName string
	Recipient   string
	RunID       string
	Insights    comparison.Insights
	ReportURL   string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if appCfg.SESSenderEmail == "" {
		return nil, fmt.Errorf("sender email is not configured")
	}

	return &Service{
		client:    ses.NewFromConfig(cfg),
		fromEmail: appCfg.SESSenderEmail,
	}, nil
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	// Add HTML body if provided
	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	// Add text body if provided
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	// Add CC addresses
	if len(params.CC) > 0 {
		input.Destination.CcAddresses = params.CC
	}

	// Add BCC addresses
	if len(params.BCC) > 0 {
		input.Destination.BccAddresses = params.BCC
	}

	// Add reply-to
	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	// Add config set if specified
	if params.ConfigSet != "" {
		input.ConfigurationSetName = aws.String(params.ConfigSet)
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.Logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	utils.Logger.Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", *result.MessageId),
	)

	return &SendEmailResult{
		MessageID: *result.MessageId,
		SentAt:    time.Now(),
	}, nil
}

// SendComparisonSummary sends a comparison summary email
func (s *Service) SendComparisonSummary(ctx context.Context, params SummaryParams) (*SendEmailResult, error) {
	htmlBody, err := s.renderSummaryHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	textBody := s.renderSummaryText(params)

	subject := fmt.Sprintf("%s referral comparison: %d improved, %d declined",
		params.ChapterName, params.Insights.Improved, params.Insights.Declined)

	return s.SendEmail(ctx, EmailParams{
		To:       params.Recipient,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}

// renderSummaryHTML renders the HTML email template
func (s *Service) renderSummaryHTML(params SummaryParams) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #b8262c 0%, #7a1418 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .stat-row { display: flex; justify-content: space-between; flex-wrap: wrap; }
        .stat-card { background: white; border-radius: 8px; padding: 15px 20px; margin: 10px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); text-align: center; flex: 1; }
        .stat-card .stat-label { font-size: 12px; color: #999; }
        .stat-card .stat-value { font-size: 22px; font-weight: bold; color: #333; }
        .mover-card { background: white; border-radius: 8px; padding: 15px 20px; margin: 10px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .mover-card .name { font-weight: bold; color: #333; }
        .mover-card .change { color: #666; font-size: 14px; }
        .cta-button { display: inline-block; background: #b8262c; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.ChapterName}} Referral Comparison</h1>
        <p>{{.Insights.TotalMembers}} members compared against the previous report</p>
    </div>
    <div class="content">
        <div class="stat-row">
            <div class="stat-card">
                <div class="stat-label">Improved</div>
                <div class="stat-value">{{.Insights.Improved}}</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Declined</div>
                <div class="stat-value">{{.Insights.Declined}}</div>
            </div>
            <div class="stat-card">
                <div class="stat-label">Unchanged</div>
                <div class="stat-value">{{.Insights.Unchanged}}</div>
            </div>
        </div>

        {{if .Insights.TopImprovements}}
        <h3>Top improvements</h3>
        {{range .Insights.TopImprovements}}
        <div class="mover-card">
            <span class="name">{{.Name}}</span>
            <span class="change">{{printf "%+.0f" .Change}} referrals</span>
        </div>
        {{end}}
        {{end}}

        {{if .Insights.TopDeclines}}
        <h3>Largest declines</h3>
        {{range .Insights.TopDeclines}}
        <div class="mover-card">
            <span class="name">{{.Name}}</span>
            <span class="change">{{printf "%+.0f" .Change}} referrals</span>
        </div>
        {{end}}
        {{end}}

        {{if .ReportURL}}
        <div style="text-align: center;">
            <a href="{{.ReportURL}}" class="cta-button">Download Full Report</a>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>This email was sent by PALMS Analytics</p>
        <p>Run {{.RunID}}</p>
    </div>
</body>
</html>`

	t, err := template.New("comparison_summary").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderSummaryText renders plain text version
func (s *Service) renderSummaryText(params SummaryParams) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s referral comparison\n\n", params.ChapterName))
	buf.WriteString(fmt.Sprintf("Members compared: %d\n", params.Insights.TotalMembers))
	buf.WriteString(fmt.Sprintf("Improved:  %d (%.1f%%)\n", params.Insights.Improved, params.Insights.ImprovementRate*100))
	buf.WriteString(fmt.Sprintf("Declined:  %d (%.1f%%)\n", params.Insights.Declined, params.Insights.DeclineRate*100))
	buf.WriteString(fmt.Sprintf("Unchanged: %d\n", params.Insights.Unchanged))
	buf.WriteString(fmt.Sprintf("Average change: %+.2f referrals\n\n", params.Insights.AverageChange))

	if len(params.Insights.TopImprovements) > 0 {
		buf.WriteString("Top improvements:\n")
		for i, mover := range params.Insights.TopImprovements {
			buf.WriteString(fmt.Sprintf("%d. %s (%+.0f)\n", i+1, mover.Name, mover.Change))
		}
		buf.WriteString("\n")
	}

	if len(params.Insights.TopDeclines) > 0 {
		buf.WriteString("Largest declines:\n")
		for i, mover := range params.Insights.TopDeclines {
			buf.WriteString(fmt.Sprintf("%d. %s (%+.0f)\n", i+1, mover.Name, mover.Change))
		}
		buf.WriteString("\n")
	}

	if params.ReportURL != "" {
		buf.WriteString(fmt.Sprintf("Full report: %s\n\n", params.ReportURL))
	}

	buf.WriteString(fmt.Sprintf("Run %s\n", params.RunID))

	return buf.String()
}

// VerifyEmailAddress verifies an email address for sending
func (s *Service) VerifyEmailAddress(ctx context.Context, email string) error {
	input := &ses.VerifyEmailAddressInput{
		EmailAddress: aws.String(email),
	}

	_, err := s.client.VerifyEmailAddress(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	utils.Logger.Info("Email verification initiated", zap.String("email", email))
	return nil
}
