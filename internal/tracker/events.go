package tracker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=events_mocks_test.go -package=tracker_test

const SubjectPrefix = "syclar.activity."

type EventKind string

const (
	EventApproachLogged   EventKind = "approach_logged"
	EventPassedByAdjusted EventKind = "passed_by_adjusted"
	EventExemptionSet     EventKind = "exemption_set"
	EventThresholdAdvance EventKind = "threshold_advanced"
	EventHomeLocationSet  EventKind = "home_location_set"
	EventHistorySimulated EventKind = "history_simulated"
	EventStateReset       EventKind = "state_reset"
)

// Event is the activity notification sent after every state mutation.
type Event struct {
	UserID     string    `json:"userId"`
	Kind       EventKind `json:"kind"`
	Date       string    `json:"date"`
	Streak     int       `json:"streak"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e Event) Subject() string {
	return SubjectPrefix + string(e.Kind)
}

type Publisher interface {
	Publish(event Event) error
	Close()
}

// natsConn is the part of *nats.Conn the publisher needs.
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
	Close()
}

type NatsPublisher struct {
	conn natsConn
}

func NewNatsPublisher(url string) (*NatsPublisher, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("syclar"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("nats disconnected: %s", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infof("nats reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats [%s]: %w", url, err)
	}
	return NewNatsPublisherWithConn(conn), nil
}

func NewNatsPublisherWithConn(conn natsConn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

func (p *NatsPublisher) Publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(event.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", event.Subject(), err)
	}
	return nil
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Warnf("drain nats connection: %s", err)
	}
	p.conn.Close()
}

// NoopPublisher is used when no NATS url is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) error { return nil }
func (NoopPublisher) Close()              {}
