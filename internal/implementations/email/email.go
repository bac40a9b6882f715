package email

import (
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type EmailSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
	passwordResetBaseUrl  url.URL
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
	optFns ...func(*ses.Options),
) *EmailSender {
	return &EmailSender{
		ses:                   ses.NewFromConfig(awsConfig, optFns...),
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
		passwordResetBaseUrl:  passwordResetBaseUrl,
	}
}

func (s *EmailSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	templateParamsBytes, err := json.Marshal(
		passwordResetTemplateParams{
			FullName:         u.FullName,
			PasswordResetUrl: PasswordResetURL(s.passwordResetBaseUrl, token),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

// PasswordResetURL puts the plaintext token as the last path segment of the base URL.
func PasswordResetURL(base url.URL, token user.PasswordResetToken) string {
	return base.JoinPath(string(token)).String()
}

type passwordResetTemplateParams struct {
	FullName         string `json:"fullName"`
	PasswordResetUrl string `json:"passwordResetUrl"`
}

// TestEmailSender does not send anything, it is used in test mode
// where the token is handed back to the client directly.
type TestEmailSender struct {
	log logging.Logger
}

func NewTestEmailSender(log logging.Logger) *TestEmailSender {
	return &TestEmailSender{log: log}
}

func (s *TestEmailSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	s.log.Info(ctx, "Password reset email skipped in test mode.", logging.Entry("userId", u.ID))
	return nil
}
