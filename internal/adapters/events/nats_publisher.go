package events

import (
	"encoding/json"
	"fmt"
	"time"

	"map-weather-service/internal/domain"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "weather.lookups."

// Publisher implements ports.OutcomePublisher over core NATS.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS, retrying in the background if the server is not up yet.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("map-weather-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// Subject returns the subject an outcome is published on.
func Subject(outcome domain.LookupOutcome) string {
	return subjectPrefix + string(outcome.State)
}

func (p *Publisher) PublishOutcome(outcome domain.LookupOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("publish outcome %s: encode: %w", outcome.ID, err)
	}
	if err := p.conn.Publish(Subject(outcome), data); err != nil {
		return fmt.Errorf("publish outcome %s: %w", outcome.ID, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
