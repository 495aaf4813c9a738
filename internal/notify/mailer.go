package notify

import (
	"context"
	"errors"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

var sosBody = template.Must(template.New("sos").Funcs(template.FuncMap{
	"deref": func(f *float64) float64 { return *f },
}).Parse(`SOS raised by {{.RaisedByName}} ({{.Role}})
{{- if .Station}}
Station: {{.Station}}{{end}}
{{- if .Phone}}
Phone: {{.Phone}}{{end}}
{{- if and .Latitude .Longitude}}
Location: {{printf "%.6f" (deref .Latitude)}}, {{printf "%.6f" (deref .Longitude)}}{{end}}
Time: {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}

{{.Message}}
`))

// ErrNoRecipients is returned by Message when there is nobody to address.
var ErrNoRecipients = errors.New("no sos recipients")

// Mailer sends SOS alerts over SMTP.
type Mailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Message renders the email for alert without sending it.
func (m *Mailer) Message(alert *models.SOSAlert, recipients []string) (*mail.Msg, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(recipients...); err != nil {
		return nil, err
	}
	msg.Subject("SOS: " + alert.RaisedByName + stationSuffix(alert.Station))
	msg.SetImportance(mail.ImportanceUrgent)
	if err := msg.SetBodyTextTemplate(sosBody, alert); err != nil {
		return nil, err
	}
	return msg, nil
}

// NotifySOS mails recipients. An empty list sends nothing and is not a
// failure; other channels may still carry the alert.
func (m *Mailer) NotifySOS(ctx context.Context, alert *models.SOSAlert, recipients []string) error {
	if len(recipients) == 0 {
		zerolog.Ctx(ctx).Debug().Uint("sos_id", alert.ID).Msg("no sos email recipients, skipping mail")
		return nil
	}
	msg, err := m.Message(alert, recipients)
	if err != nil {
		return err
	}
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func stationSuffix(station string) string {
	if station == "" {
		return ""
	}
	return " at " + station
}
