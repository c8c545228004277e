package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	verifyv2 "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/gramsetu/employment-service/internal/utils"
)

// EmailSender delivers a one-time code over email. The primary OTP
// channel; failure here fails the issue call.
type EmailSender interface {
	SendCode(ctx context.Context, to, code string) error
}

// SMSSender delivers a one-time code over SMS. Best effort; failure is
// logged and swallowed by the caller.
type SMSSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// RemoteOtpVerifier checks a code against the SMS provider's own
// verification service, for codes the provider generated itself.
type RemoteOtpVerifier interface {
	CheckCode(ctx context.Context, phone, code string) (bool, error)
}

const verificationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f0fdf4; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #bbf7d0; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #15803d; margin-bottom: 15px; }
.content { padding: 30px; text-align: center; }
.code { font-size: 36px; font-weight: bold; letter-spacing: 8px; color: #15803d; background-color: #f1f3f5; padding: 15px 20px; border-radius: 5px; display: inline-block; margin: 20px 0; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>%s</p>
      <div class="code">%s</div>
    </div>
    <div class="footer">
      © %d GramSetu. All rights reserved.
    </div>
  </div>
</body>
</html>`

type sendgridEmailSender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	sandbox   bool
}

func NewSendgridEmailSender(apiKey, fromName, fromEmail string, sandbox bool) EmailSender {
	return &sendgridEmailSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		sandbox:   sandbox,
	}
}

func (s *sendgridEmailSender) SendCode(_ context.Context, to, code string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	subject := s.fromName + " - Verification Code"
	plainTextContent := fmt.Sprintf("Your verification code is %s", code)
	htmlContent := fmt.Sprintf(verificationEmailHTML,
		"Verification Code",
		"Please use the following code to complete your verification. This code will expire in 15 minutes.",
		code, time.Now().Year())
	message := mail.NewSingleEmail(from, subject, recipient, plainTextContent, htmlContent)

	if s.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	_, err := s.client.Send(message)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send verification email to %s via SendGrid", to)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}

type twilioSMSSender struct {
	client    *twilio.RestClient
	fromPhone string
}

func NewTwilioSMSSender(client *twilio.RestClient, fromPhone string) SMSSender {
	return &twilioSMSSender{client: client, fromPhone: fromPhone}
}

func (s *twilioSMSSender) SendCode(_ context.Context, phone, code string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.fromPhone)
	params.SetBody(fmt.Sprintf("Your GramSetu verification code is %s", code))

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send verification SMS to %s via Twilio", phone)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}

type twilioRemoteVerifier struct {
	client     *twilio.RestClient
	serviceSid string
}

// NewTwilioRemoteVerifier checks codes against a Twilio Verify service.
// Used as a fallback when local verification misses, since the user may
// have received a provider-generated code rather than ours.
func NewTwilioRemoteVerifier(client *twilio.RestClient, serviceSid string) RemoteOtpVerifier {
	return &twilioRemoteVerifier{client: client, serviceSid: serviceSid}
}

func (v *twilioRemoteVerifier) CheckCode(_ context.Context, phone, code string) (bool, error) {
	params := &verifyv2.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := v.client.VerifyV2.CreateVerificationCheck(v.serviceSid, params)
	if err != nil {
		return false, fmt.Errorf("%w: twilio verify check: %v", utils.ErrExternalServiceFailure, err)
	}
	return resp.Status != nil && *resp.Status == "approved", nil
}
