// Package notify acknowledges feedback to the person who left it, either by
// sending the mail directly or by queueing it for the mail worker.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/wneessen/go-mail"
)

// MailConfig holds SMTP relay settings
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	SendTimeout time.Duration
}

// Sender delivers composed messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// MailNotifier sends feedback acknowledgements over SMTP
type MailNotifier struct {
	sender  Sender
	from    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewMailNotifier creates a MailNotifier backed by an SMTP client for cfg
func NewMailNotifier(cfg MailConfig, logger *slog.Logger) (*MailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	}
	if cfg.SendTimeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.SendTimeout))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return NewMailNotifierWithSender(client, cfg.From, cfg.SendTimeout, logger), nil
}

// NewMailNotifierWithSender creates a MailNotifier that delivers through sender
func NewMailNotifierWithSender(sender Sender, from string, timeout time.Duration, logger *slog.Logger) *MailNotifier {
	return &MailNotifier{
		sender:  sender,
		from:    from,
		timeout: timeout,
		logger:  logger,
	}
}

// NotifyFeedback mails the acknowledgement for fb to its author
func (n *MailNotifier) NotifyFeedback(ctx context.Context, fb *domain.Feedback) error {
	msg, err := ComposeAcknowledgement(n.from, fb)
	if err != nil {
		return err
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send feedback mail: %w", err)
	}

	n.logger.Info("Feedback acknowledgement sent",
		slog.String("feedback_id", fb.ID),
		slog.String("to", fb.Email),
	)

	return nil
}

// ComposeAcknowledgement builds the plain-text thank-you mail for fb
func ComposeAcknowledgement(from string, fb *domain.Feedback) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(fb.Email); err != nil {
		return nil, fmt.Errorf("failed to set recipient: %w", err)
	}

	msg.Subject(fmt.Sprintf("Thank you for your feedback, %s!", fb.Name))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\nWe have received your feedback: \"%s\".\nWe will get back to you soon!\n\nBest Regards,\nYour Team",
		fb.Name, fb.Message,
	))

	return msg, nil
}
