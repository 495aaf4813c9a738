package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

// Publisher is the slice of *nats.Conn the SOS publisher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SOSEvent is the JSON body published for every alert.
type SOSEvent struct {
	EventID    string           `json:"eventId"`
	Alert      *models.SOSAlert `json:"alert"`
	Recipients []string         `json:"recipients"`
	SentAt     time.Time        `json:"sentAt"`
}

type NATSPublisher struct {
	conn    Publisher
	subject string
}

func NewNATSPublisher(conn Publisher, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// DialNATS connects with reconnects enabled; callers own the returned conn.
func DialNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("rail-portal"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

func (p *NATSPublisher) NotifySOS(ctx context.Context, alert *models.SOSAlert, recipients []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(SOSEvent{
		EventID:    uuid.NewString(),
		Alert:      alert,
		Recipients: recipients,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}
