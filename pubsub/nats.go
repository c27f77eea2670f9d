package pubsub

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

type NATS struct {
	Conn *nats.Conn
}

func (ps *NATS) Pub(topic string, data []byte) error {
	if err := ps.Conn.Publish(topic, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", topic, err)
	}
	return nil
}

func (ps *NATS) Sub(topic string, cb func(data []byte)) (func() error, error) {
	sub, err := ps.Conn.Subscribe(topic, func(msg *nats.Msg) {
		cb(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", topic, err)
	}

	return sub.Unsubscribe, nil
}
