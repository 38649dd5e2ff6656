package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridNotifier delivers account emails through the SendGrid v3 API.
type SendgridNotifier struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

func NewSendgridNotifier(key, appName, fromEmail string) *SendgridNotifier {
	return &SendgridNotifier{
		key:        key,
		host:       sendgridHost,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

// WithHost points the notifier at another API host.
func (n *SendgridNotifier) WithHost(host string) *SendgridNotifier {
	n.host = host
	return n
}

func (n *SendgridNotifier) welcomeMail(user *models.User) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = n.subjPrefix + "Welcome aboard"
	p.AddTos(sgmail.NewEmail(user.Name, user.Email))

	text := fmt.Sprintf("Hi %s,\n\nyour onboarding journey has started. Complete your first module to earn XP and climb the leaderboard.", user.Name)
	body := fmt.Sprintf("<p>Hi %s,</p><p>your onboarding journey has started. Complete your first module to earn XP and climb the leaderboard.</p>", html.EscapeString(user.Name))

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", body),
	)
	return m
}

func (n *SendgridNotifier) SendWelcome(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return nil
	}

	req := sendgrid.GetRequest(n.key, sendgridEndpoint, n.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(n.welcomeMail(user))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}

	slog.Debug("Welcome email sent",
		slog.String("user_id", user.ID),
		slog.Int("status", res.StatusCode))
	return nil
}
