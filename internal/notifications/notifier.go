package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/pkg/enums"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/pricing"
)

const (
	// NotifyTagPrefix marks customers whose orders are announced to the sales desk.
	NotifyTagPrefix = "ima"

	defaultNotifyTimeout = 5 * time.Second
	fromName             = "Portal B2B"
)

// Config holds the mail settings; any blank field disables sending.
type Config struct {
	APIKey  string
	From    string
	To      string
	Timeout time.Duration
}

func (c Config) configured() bool {
	return strings.TrimSpace(c.APIKey) != "" &&
		strings.TrimSpace(c.From) != "" &&
		strings.TrimSpace(c.To) != ""
}

// OrderSummary is everything the internal order email shows.
type OrderSummary struct {
	CustomerID      string
	CustomerEmail   string
	CustomerName    string
	CustomerTags    string
	DraftOrderID    int64
	OrderNumber     string
	Total           string
	Discount        string
	Currency        string
	DiscountPercent int
	PaymentMethod   enums.PaymentMethod
	EvidenceURL     string
	Lines           []Line
	Summary         pricing.Summary
	Note            string
}

// Line is one cart line with its display breakdown.
type Line struct {
	Title string
	pricing.Line
}

// StepResult reports what happened to the notification; it never fails the checkout.
type StepResult struct {
	Sent    bool   `json:"sent"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

func (r StepResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Notifier emails the sales desk about new orders from tagged customers.
type Notifier struct {
	sender Sender
	cfg    Config
	logg   *logger.Logger
}

// NewNotifier returns a notifier; without a sender or complete config it only skips.
func NewNotifier(sender Sender, cfg Config, logg *logger.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultNotifyTimeout
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Notifier{sender: sender, cfg: cfg, logg: logg}
}

// Enabled reports whether messages can actually be sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil && n.cfg.configured()
}

// Notify sends at most one email, on a context detached from the request.
func (n *Notifier) Notify(ctx context.Context, summary OrderSummary) StepResult {
	if !customers.HasTagPrefix(summary.CustomerTags, NotifyTagPrefix) {
		return StepResult{Skipped: true, Reason: "customer not tagged for notification"}
	}
	if !n.Enabled() {
		return StepResult{Skipped: true, Reason: "mail transport not configured"}
	}

	body, err := renderOrderEmail(summary)
	if err != nil {
		n.logg.WarnErr(ctx, "checkout.notify.failed", err)
		return StepResult{Err: fmt.Errorf("render order email: %w", err)}
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(fromName, n.cfg.From),
		Subject(summary),
		mail.NewEmail("", n.cfg.To),
		plainText(summary),
		body,
	)
	if summary.CustomerEmail != "" {
		message.SetReplyTo(mail.NewEmail(summary.CustomerName, summary.CustomerEmail))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.Timeout)
	defer cancel()

	if err := n.sender.Send(ctx, message); err != nil {
		n.logg.WarnErr(n.logg.WithField(ctx, "draft_order_id", summary.DraftOrderID), "checkout.notify.failed", err)
		return StepResult{Err: err}
	}
	return StepResult{Sent: true}
}

// Subject is the email subject line for an order.
func Subject(summary OrderSummary) string {
	return fmt.Sprintf("Nuevo pedido B2B %s - %s", summary.OrderNumber, summary.CustomerEmail)
}

func plainText(summary OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido %s de %s\n", summary.OrderNumber, summary.CustomerEmail)
	fmt.Fprintf(&b, "Total: %s %s\n", summary.Total, summary.Currency)
	if summary.Note != "" {
		b.WriteString("\n")
		b.WriteString(summary.Note)
	}
	return b.String()
}
