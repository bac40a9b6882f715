package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/caarlos0/env/v6"
)

const (
	passwordResetSubject = "Reset your password"
	passwordResetText    = "Hi {{fullName}},\n\n" +
		"Use the link below to set a new password. It is valid for a limited time.\n\n" +
		"{{passwordResetUrl}}\n\n" +
		"If you did not request a password reset, ignore this email."
	passwordResetHtml = "<p>Hi {{fullName}},</p>" +
		"<p>Use the link below to set a new password. It is valid for a limited time.</p>" +
		"<p><a href=\"{{passwordResetUrl}}\">Reset password</a></p>" +
		"<p>If you did not request a password reset, ignore this email.</p>"
)

type awsEnv struct {
	Region    string `env:"AWS_REGION,required"`
	AccessKey string `env:"AWS_ACCESS_KEY,required"`
	SecretKey string `env:"AWS_SECRET_KEY,required"`
	Sender    string `env:"AWS_EMAIL_SENDER"`
	Template  string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"password-reset"`
}

// Manages the SES template used for password reset emails.
//
//	aws -action create
//	aws -action delete
//	aws -action send -to someone@example.com
func main() {
	action := flag.String("action", "", "one of: create, delete, send")
	to := flag.String("to", "", "recipient for the send action")
	flag.Parse()

	cfg := awsEnv{}
	if err := env.Parse(&cfg); err != nil {
		exit(err)
	}
	svc := ses.NewFromConfig(loadAwsConfig(cfg))

	var (
		result any
		err    error
	)
	switch *action {
	case "create":
		result, err = svc.CreateTemplate(context.Background(), &ses.CreateTemplateInput{
			Template: &types.Template{
				TemplateName: aws.String(cfg.Template),
				SubjectPart:  aws.String(passwordResetSubject),
				TextPart:     aws.String(passwordResetText),
				HtmlPart:     aws.String(passwordResetHtml),
			},
		})
	case "delete":
		result, err = svc.DeleteTemplate(context.Background(), &ses.DeleteTemplateInput{
			TemplateName: aws.String(cfg.Template),
		})
	case "send":
		if *to == "" || cfg.Sender == "" {
			exit(fmt.Errorf("-to and AWS_EMAIL_SENDER are required to send a test email"))
		}
		result, err = svc.SendTemplatedEmail(context.Background(), &ses.SendTemplatedEmailInput{
			// This address must be verified with Amazon SES.
			Source:       aws.String(cfg.Sender),
			Destination:  &types.Destination{ToAddresses: []string{*to}},
			Template:     aws.String(cfg.Template),
			TemplateData: aws.String(`{"fullName":"Test","passwordResetUrl":"https://example.com/reset?token=test"}`),
		})
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func loadAwsConfig(cfg awsEnv) aws.Config {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.Region),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		exit(err)
	}
	return awsCfg
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
