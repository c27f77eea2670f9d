package chatsync

import (
	"cmp"
	"slices"

	"github.com/nakamauwu/hireloop/types"
)

type EntryState int

const (
	// EntryPending is shown locally while the server has not confirmed it.
	EntryPending EntryState = iota
	EntryConfirmed
)

func (s EntryState) String() string {
	if s == EntryPending {
		return "pending"
	}
	return "confirmed"
}

// Entry of the local message list. Pending entries are identified by LocalID
// and confirmed ones by Message.ID.
type Entry struct {
	LocalID string
	State   EntryState
	Message types.Message
}

func (e Entry) Key() string {
	if e.State == EntryPending {
		return "local:" + e.LocalID
	}
	return e.Message.ID
}

// Merge adds batch to entries as confirmed entries, replacing those with the same ID,
// and returns them sorted by creation time. Pending entries sort after confirmed ones
// created at the same time. entries is not modified.
func Merge(entries []Entry, batch []types.Message) []Entry {
	out := make([]Entry, 0, len(entries)+len(batch))
	index := make(map[string]int, len(entries)+len(batch))

	add := func(e Entry) {
		if i, ok := index[e.Key()]; ok {
			out[i] = e
			return
		}
		index[e.Key()] = len(out)
		out = append(out, e)
	}

	for _, e := range entries {
		add(e)
	}
	for _, m := range batch {
		add(Entry{State: EntryConfirmed, Message: m})
	}

	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Or(
			a.Message.CreatedAt.Compare(b.Message.CreatedAt),
			cmp.Compare(b.State, a.State),
			cmp.Compare(a.Message.Seq, b.Message.Seq),
		)
	})

	return out
}
