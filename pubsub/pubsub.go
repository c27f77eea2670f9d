// Package pubsub carries message events between processes.
package pubsub

// PubSub publishes opaque payloads on topics.
// Sub calls cb for every payload published on topic until unsub is called.
type PubSub interface {
	Pub(topic string, data []byte) error
	Sub(topic string, cb func(data []byte)) (unsub func() error, err error)
}
