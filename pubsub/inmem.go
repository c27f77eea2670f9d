package pubsub

import (
	"strings"
	"sync"
)

// Inmem delivers payloads within the process.
// Topics follow NATS subject rules: tokens split by dots,
// "*" matches one token and a trailing ">" matches the rest.
type Inmem struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]inmemSub
}

type inmemSub struct {
	topic string
	cb    func(data []byte)
}

func (ps *Inmem) Pub(topic string, data []byte) error {
	ps.mu.RLock()
	var cbs []func(data []byte)
	for _, sub := range ps.subs {
		if subjectMatches(sub.topic, topic) {
			cbs = append(cbs, sub.cb)
		}
	}
	ps.mu.RUnlock()

	for _, cb := range cbs {
		cb(data)
	}

	return nil
}

func (ps *Inmem) Sub(topic string, cb func(data []byte)) (func() error, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.subs == nil {
		ps.subs = map[uint64]inmemSub{}
	}

	ps.nextID++
	id := ps.nextID
	ps.subs[id] = inmemSub{topic: topic, cb: cb}

	return func() error {
		ps.mu.Lock()
		defer ps.mu.Unlock()
		delete(ps.subs, id)
		return nil
	}, nil
}

func subjectMatches(pattern, subject string) bool {
	pp := strings.Split(pattern, ".")
	ss := strings.Split(subject, ".")
	for i, p := range pp {
		if p == ">" {
			return i < len(ss)
		}

		if i >= len(ss) {
			return false
		}

		if p != "*" && p != ss[i] {
			return false
		}
	}
	return len(pp) == len(ss)
}
