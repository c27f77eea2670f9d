package cockroach

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
	"github.com/vmihailenco/msgpack/v5"
)

// MessageCursor is a position in a conversation message log.
// Seq breaks ties between messages sharing a timestamp.
type MessageCursor struct {
	CreatedAt time.Time `msgpack:"t"`
	Seq       int64     `msgpack:"s"`
}

func messageCursorOf(m types.Message) MessageCursor {
	return MessageCursor{CreatedAt: m.CreatedAt, Seq: m.Seq}
}

func EncodeCursor[T any](cursor T) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("msgpack marshal cursor: %w", err)
	}

	return base58.Encode(b), nil
}

func DecodeCursor[T any](s string) (T, error) {
	var c T

	b := base58.Decode(s)
	if len(b) == 0 {
		return c, errs.InvalidArgumentError("invalid cursor")
	}

	if err := msgpack.Unmarshal(b, &c); err != nil {
		return c, errs.InvalidArgumentError("invalid cursor")
	}

	return c, nil
}

// ParseMessageCursor accepts either an opaque cursor or a plain RFC 3339 timestamp.
// A timestamp is placed past every message sharing it when paging forward
// and before every one of them when paging backward,
// so both directions stay strict.
func ParseMessageCursor(s string, mode types.PageMode) (MessageCursor, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		c := MessageCursor{CreatedAt: t}
		if mode == types.PageModeAfter {
			c.Seq = math.MaxInt64
		}
		return c, nil
	}

	c, err := DecodeCursor[MessageCursor](s)
	if err != nil {
		return c, err
	}

	if c.CreatedAt.IsZero() {
		return c, errs.InvalidArgumentError("invalid cursor")
	}

	return c, nil
}

// applyPageMeta trims the extra row fetched to detect more results,
// puts the messages in ascending order and fills the page meta.
// Latest and before pages come in descending order.
func applyPageMeta(page *types.MessagesPage, mode types.PageMode, limit uint, from *MessageCursor) error {
	page.Meta.Mode = mode
	page.Meta.Limit = limit

	if uint(len(page.Messages)) > limit {
		page.Meta.HasMore = true
		page.Messages = page.Messages[:limit]
	}

	if mode != types.PageModeAfter {
		slices.Reverse(page.Messages)
	}

	if page.Messages == nil {
		page.Messages = []types.Message{}
	}

	l := len(page.Messages)
	if l == 0 {
		if from == nil {
			return nil
		}

		// Echo the requested position so callers keep their place.
		cursor, err := EncodeCursor(*from)
		if err != nil {
			return fmt.Errorf("encode cursor: %w", err)
		}

		if mode == types.PageModeAfter {
			page.Meta.NewestAt = new(from.CreatedAt)
			page.Meta.NewestCursor = &cursor
		} else {
			page.Meta.OldestAt = new(from.CreatedAt)
			page.Meta.OldestCursor = &cursor
		}

		return nil
	}

	oldest, newest := page.Messages[0], page.Messages[l-1]

	if c, err := EncodeCursor(messageCursorOf(oldest)); err != nil {
		return fmt.Errorf("encode oldest cursor: %w", err)
	} else {
		page.Meta.OldestCursor = new(c)
	}

	if c, err := EncodeCursor(messageCursorOf(newest)); err != nil {
		return fmt.Errorf("encode newest cursor: %w", err)
	} else {
		page.Meta.NewestCursor = new(c)
	}

	page.Meta.OldestAt = new(oldest.CreatedAt)
	page.Meta.NewestAt = new(newest.CreatedAt)

	return nil
}
