package cockroach

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const sqlMessageCols = `
	  messages.id
	, messages.conversation_id
	, messages.sender_id
	, messages.seq
	, messages.kind
	, messages.text
	, messages.file
	, messages.interview
	, messages.created_at
`

// AppendMessage persists msg in its conversation and updates the conversation summary
// and read state in the same transaction. The sender must be a participant.
// ID, Seq and CreatedAt are assigned by the database.
func (c *Cockroach) AppendMessage(ctx context.Context, msg types.Message) (types.Message, error) {
	out := msg
	err := c.runTx(ctx, func(ctx context.Context) error {
		if err := c.ensureParticipant(ctx, msg.ConversationID, msg.SenderID); err != nil {
			return err
		}

		seq, createdAt, err := c.advanceConversation(ctx, msg.ConversationID, msg.Preview())
		if err != nil {
			return err
		}

		out.Seq = seq
		out.CreatedAt = createdAt

		out.ID, err = c.insertMessage(ctx, out)
		if err != nil {
			return err
		}

		return c.updateReadStateOnAppend(ctx, msg.ConversationID, msg.SenderID, createdAt)
	})
	return out, err
}

// advanceConversation takes the next sequence number under the conversation row lock.
// Timestamps never go backwards within a conversation.
func (c *Cockroach) advanceConversation(ctx context.Context, conversationID, preview string) (int64, time.Time, error) {
	const query = `
		UPDATE conversations
		SET last_seq = last_seq + 1,
			last_message_at = GREATEST(now(), last_message_at),
			last_message_preview = @preview
		WHERE id = @conversation_id
		RETURNING last_seq, last_message_at
	`
	var (
		seq       int64
		createdAt time.Time
	)
	err := c.db.QueryRow(ctx, query, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"preview":         preview,
	}).Scan(&seq, &createdAt)
	if db.IsNotFoundError(err) {
		return 0, time.Time{}, errs.NotFoundError("conversation not found")
	}

	if err != nil {
		return 0, time.Time{}, fmt.Errorf("sql update conversation summary: %w", err)
	}

	return seq, createdAt, nil
}

func (c *Cockroach) insertMessage(ctx context.Context, msg types.Message) (string, error) {
	const query = `
		INSERT INTO messages (conversation_id, sender_id, seq, kind, text, file, interview, created_at)
		VALUES (@conversation_id, @sender_id, @seq, @kind, @text, @file, @interview, @created_at)
		RETURNING id
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": msg.ConversationID,
		"sender_id":       msg.SenderID,
		"seq":             msg.Seq,
		"kind":            msg.Kind,
		"text":            msg.Text,
		"file":            msg.File,
		"interview":       msg.Interview,
		"created_at":      msg.CreatedAt,
	}
	id, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if err != nil {
		return "", fmt.Errorf("sql insert message: %w", err)
	}

	return id, nil
}

// updateReadStateOnAppend resets the sender counter and bumps every other participant by one.
// Counters are updated in place so concurrent appends from both sides converge.
func (c *Cockroach) updateReadStateOnAppend(ctx context.Context, conversationID, senderID string, readAt time.Time) error {
	const query = `
		UPDATE conversation_participants
		SET unread_count = CASE WHEN user_id = @sender_id THEN 0 ELSE unread_count + 1 END,
			last_read_at = CASE WHEN user_id = @sender_id THEN @read_at ELSE last_read_at END
		WHERE conversation_id = @conversation_id
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"sender_id":       senderID,
		"read_at":         readAt,
	})
	if err != nil {
		return fmt.Errorf("sql update read state on append: %w", err)
	}

	return nil
}

// Messages returns a page of the conversation message log in ascending order.
// Fetching the latest page acknowledges reading the conversation.
// Paging after a cursor does too, paging before one never does.
func (c *Cockroach) Messages(ctx context.Context, in types.ListMessages) (types.MessagesPage, error) {
	var out types.MessagesPage

	mode := in.Mode()

	var from *MessageCursor
	switch mode {
	case types.PageModeBefore:
		cursor, err := ParseMessageCursor(*in.Before, mode)
		if err != nil {
			return out, err
		}
		from = &cursor
	case types.PageModeAfter:
		cursor, err := ParseMessageCursor(*in.After, mode)
		if err != nil {
			return out, err
		}
		from = &cursor
	}

	err := c.runTx(ctx, func(ctx context.Context) error {
		if err := c.ensureParticipant(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
			return err
		}

		if mode != types.PageModeBefore {
			ack, err := c.markRead(ctx, in.ConversationID, in.LoggedInUserID())
			if err != nil {
				return err
			}

			out.ReadAck = &ack
		}

		var err error
		out.Messages, err = c.messages(ctx, in.ConversationID, mode, in.Limit, from)
		if err != nil {
			return err
		}

		out.Conversation, err = c.conversation(ctx, in.ConversationID)
		return err
	})
	if err != nil {
		return out, err
	}

	if err := applyPageMeta(&out, mode, in.Limit, from); err != nil {
		return out, err
	}

	return out, nil
}

func (c *Cockroach) messages(ctx context.Context, conversationID string, mode types.PageMode, limit uint, from *MessageCursor) ([]types.Message, error) {
	filters := []string{"messages.conversation_id = @conversation_id"}
	args := pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"limit":           limit + 1,
	}

	order := "DESC"
	if mode == types.PageModeAfter {
		order = "ASC"
	}

	if from != nil {
		op := "<"
		if mode == types.PageModeAfter {
			op = ">"
		}
		filters = append(filters, "(messages.created_at, messages.seq) "+op+" (@cursor_created_at, @cursor_seq)")
		args["cursor_created_at"] = from.CreatedAt
		args["cursor_seq"] = from.Seq
	}

	query := `SELECT ` + sqlMessageCols + ` FROM messages` + where(filters) +
		`ORDER BY messages.created_at ` + order + `, messages.seq ` + order + `
		LIMIT @limit`

	out, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return nil, fmt.Errorf("sql select messages: %w", err)
	}

	return out, nil
}

// Message retrieves a message from a conversation the user participates in.
func (c *Cockroach) Message(ctx context.Context, messageID, userID string) (types.Message, error) {
	query := `SELECT ` + sqlMessageCols + ` FROM messages WHERE messages.id = @message_id`
	args := pgx.StrictNamedArgs{
		"message_id": messageID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Message])
	if db.IsNotFoundError(err) {
		return out, errs.NotFoundError("message not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql select message: %w", err)
	}

	if err := c.ensureParticipant(ctx, out.ConversationID, userID); err != nil {
		return out, err
	}

	return out, nil
}

// UpdateInterviewStatus sets the status of an interview message in place.
// It neither touches read state nor the conversation summary.
func (c *Cockroach) UpdateInterviewStatus(ctx context.Context, in types.UpdateInterviewStatus) (types.Message, error) {
	var out types.Message
	err := c.runTx(ctx, func(ctx context.Context) error {
		msg, err := c.Message(ctx, in.MessageID, in.LoggedInUserID())
		if err != nil {
			return err
		}

		if msg.Kind != types.MessageKindInterview || msg.Interview == nil {
			return errs.InvalidArgumentError("message is not an interview")
		}

		query := `
			UPDATE messages
			SET interview = jsonb_set(interview, '{status}', to_jsonb(@status::STRING))
			WHERE id = @message_id
			RETURNING ` + sqlMessageCols
		args := pgx.StrictNamedArgs{
			"message_id": in.MessageID,
			"status":     in.Status,
		}
		out, err = pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Message])
		if err != nil {
			return fmt.Errorf("sql update interview status: %w", err)
		}

		return nil
	})
	return out, err
}
