// Package main is the entry point for the ses-courier CLI, which composes
// one email from a template and dispatches it through the configured
// delivery backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Oolga/ses-courier/internal/config"
	"github.com/Oolga/ses-courier/internal/email"
	"github.com/Oolga/ses-courier/internal/identity"
	"github.com/Oolga/ses-courier/internal/mailer"
	"github.com/Oolga/ses-courier/internal/mailer/ses"
	"github.com/Oolga/ses-courier/internal/mailer/stdout"
	"github.com/Oolga/ses-courier/internal/template"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ses-courier", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML configuration file (optional)")
	sender := fs.String("sender", "", "sender address (must be verified with the provider)")
	to := fs.String("to", "", "comma-separated recipient addresses")
	cc := fs.String("cc", "", "comma-separated Cc addresses")
	bcc := fs.String("bcc", "", "comma-separated Bcc addresses")
	subject := fs.String("subject", "", "email subject")
	templatePath := fs.String("template", "", "path to the HTML body file")
	textBody := fs.String("text", "", "plain-text alternative body")
	structured := fs.Bool("structured", false, "send as structured fields instead of a raw MIME document")
	dryRun := fs.Bool("dry-run", false, "print the message instead of dispatching it")
	verifyAddr := fs.String("verify", "", "request provider verification of this address and exit")
	fs.Parse(args)

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}
	applyFlags(cfg, *sender, *to, *cc, *bcc, *subject, *templatePath, *textBody)

	// Setup structured logging
	setupLogger(cfg.Logging.Level)

	ctx := context.Background()

	if cfg.Provider == "ses" && !cfg.SESConfigured() {
		slog.Error("ses provider selected but SES_REGION is required")
		return 1
	}
	useSES := !*dryRun && cfg.Provider != "stdout" && cfg.SESConfigured()

	// The identity lookup is the first call that exercises the credential
	// chain; failing here means no provider call can succeed.
	if useSES {
		caller, err := resolveCaller(ctx, cfg.SES.Region)
		if err != nil {
			printCredentialHelp(err)
			return 1
		}
		fmt.Printf("AWS account: %s\n", caller.Account)
		fmt.Printf("AWS caller:  %s\n", caller.ARN)
	}

	m, err := selectMailer(ctx, cfg, useSES)
	if err != nil {
		slog.Error("failed to create delivery backend", "error", err)
		return 1
	}
	slog.Info("delivery backend ready", "backend", m.Name())

	// Verification is a standalone flow: request it and stop.
	if *verifyAddr != "" {
		if err := m.VerifyIdentity(ctx, *verifyAddr); err != nil {
			logFailure("verification request failed", err)
			return 1
		}
		fmt.Printf("Verification email requested for %s\n", *verifyAddr)
		return 0
	}

	htmlBody, err := template.Load(cfg.Mail.TemplatePath)
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			slog.Error("template file not found", "path", cfg.Mail.TemplatePath)
		} else {
			slog.Error("failed to load template", "error", err)
		}
		return 1
	}

	msg := &email.Message{
		From:     cfg.Mail.Sender,
		To:       cfg.Mail.To,
		Cc:       cfg.Mail.Cc,
		Bcc:      cfg.Mail.Bcc,
		Subject:  cfg.Mail.Subject,
		HTMLBody: htmlBody,
		TextBody: cfg.Mail.TextBody,
	}

	var receipt *mailer.Receipt
	if *structured {
		receipt, err = m.Send(ctx, msg)
	} else {
		receipt, err = m.SendRaw(ctx, msg)
	}
	if err != nil {
		logFailure("send failed", err)
		return 1
	}
	fmt.Printf("Message sent: %s\n", receipt.MessageID)

	// Quota reporting is informational; its failure does not undo the send.
	quota, err := m.SendQuota(ctx)
	if err != nil {
		slog.Warn("failed to fetch send quota", "error", err)
		return 0
	}
	fmt.Printf("Max 24 hour send:   %.0f\n", quota.Max24HourSend)
	fmt.Printf("Max send rate:      %.2f/s\n", quota.MaxSendRate)
	fmt.Printf("Sent last 24 hours: %.0f\n", quota.SentLast24Hours)

	return 0
}

// loadConfig loads configuration from the specified path (YAML + env
// override) or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// applyFlags overrides configuration with non-empty command-line values.
func applyFlags(cfg *config.Config, sender, to, cc, bcc, subject, templatePath, textBody string) {
	if sender != "" {
		cfg.Mail.Sender = sender
	}
	if to != "" {
		cfg.Mail.To = config.SplitList(to)
	}
	if cc != "" {
		cfg.Mail.Cc = config.SplitList(cc)
	}
	if bcc != "" {
		cfg.Mail.Bcc = config.SplitList(bcc)
	}
	if subject != "" {
		cfg.Mail.Subject = subject
	}
	if templatePath != "" {
		cfg.Mail.TemplatePath = templatePath
	}
	if textBody != "" {
		cfg.Mail.TextBody = textBody
	}
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// resolveCaller looks up the identity behind the ambient credential chain.
func resolveCaller(ctx context.Context, region string) (*identity.Caller, error) {
	resolver, err := identity.New(ctx, region)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(ctx)
}

// selectMailer chooses the delivery backend.
func selectMailer(ctx context.Context, cfg *config.Config, useSES bool) (mailer.Mailer, error) {
	if useSES {
		return ses.New(ctx, ses.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
	}
	slog.Info("no SES region configured or dry run requested, using stdout backend")
	return stdout.New(), nil
}

// logFailure logs err, surfacing the failure kind when the backend
// classified it.
func logFailure(msg string, err error) {
	var mErr *mailer.Error
	if errors.As(err, &mErr) {
		slog.Error(msg, "kind", string(mErr.Kind), "error", err)
		return
	}
	slog.Error(msg, "error", err)
}

// printCredentialHelp prints remediation guidance for an unusable
// credential chain.
func printCredentialHelp(err error) {
	fmt.Fprintf(os.Stderr, "AWS credentials not configured or invalid: %v\n\n", err)
	fmt.Fprintln(os.Stderr, "To configure AWS credentials:")
	fmt.Fprintln(os.Stderr, "  1. Run: aws configure")
	fmt.Fprintln(os.Stderr, "  2. Or set environment variables:")
	fmt.Fprintln(os.Stderr, "     export AWS_ACCESS_KEY_ID=your_access_key")
	fmt.Fprintln(os.Stderr, "     export AWS_SECRET_ACCESS_KEY=your_secret_key")
	fmt.Fprintln(os.Stderr, "     export AWS_DEFAULT_REGION=us-east-1")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Make sure the sender address is verified with SES.")
}
