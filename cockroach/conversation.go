package cockroach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const sqlConversationCols = `
	  conversations.id
	, conversations.participant_a
	, conversations.participant_b
	, conversations.job_id
	, conversations.created_by
	, conversations.last_message_preview
	, conversations.last_message_at
	, conversations.created_at
	, (
		SELECT COALESCE(json_agg(json_build_object(
			'userID', conversation_participants.user_id,
			'unreadCount', conversation_participants.unread_count,
			'lastReadAt', conversation_participants.last_read_at
		)), '[]'::JSON)
		FROM conversation_participants
		WHERE conversation_participants.conversation_id = conversations.id
	) AS participants
`

type conversationRow struct {
	ID                 string                   `db:"id"`
	ParticipantA       string                   `db:"participant_a"`
	ParticipantB       string                   `db:"participant_b"`
	JobID              *string                  `db:"job_id"`
	CreatedBy          string                   `db:"created_by"`
	LastMessagePreview string                   `db:"last_message_preview"`
	LastMessageAt      time.Time                `db:"last_message_at"`
	CreatedAt          time.Time                `db:"created_at"`
	Participants       []types.ParticipantState `db:"participants"`
}

func (row conversationRow) conversation() (types.Conversation, error) {
	out, err := types.NewConversation(row.ID, row.ParticipantA, row.ParticipantB, row.Participants)
	if err != nil {
		return out, fmt.Errorf("restore conversation %s: %w", row.ID, err)
	}

	out.JobID = row.JobID
	out.CreatedBy = row.CreatedBy
	out.LastMessagePreview = row.LastMessagePreview
	out.LastMessageAt = row.LastMessageAt
	out.CreatedAt = row.CreatedAt

	return out, nil
}

// GetOrCreateConversation resolves the unordered participant pair and job scope
// to its single conversation. Created reports whether this call inserted it.
// The requester read timestamp is initialized when it was never set.
func (c *Cockroach) GetOrCreateConversation(ctx context.Context, in types.GetOrCreateConversation) (out types.Conversation, created bool, err error) {
	pair, err := types.SortParticipants(in.LoggedInUserID(), in.OtherUserID)
	if err != nil {
		return out, false, errs.InvalidArgumentError(err.Error())
	}

	err = c.runTx(ctx, func(ctx context.Context) error {
		created = false

		conversationID, err := c.insertConversation(ctx, pair, in)
		if err != nil {
			return err
		}

		if conversationID != "" {
			created = true

			if err := c.insertParticipants(ctx, conversationID, in.LoggedInUserID(), in.OtherUserID); err != nil {
				return err
			}
		} else {
			conversationID, err = c.conversationIDByScope(ctx, pair, in.JobScope())
			if err != nil {
				return err
			}

			if err := c.initLastReadAt(ctx, conversationID, in.LoggedInUserID()); err != nil {
				return err
			}
		}

		out, err = c.conversation(ctx, conversationID)
		return err
	})

	return out, created, err
}

// insertConversation returns an empty ID when the pair and scope already have one.
func (c *Cockroach) insertConversation(ctx context.Context, pair [2]string, in types.GetOrCreateConversation) (string, error) {
	const query = `
		INSERT INTO conversations (participant_a, participant_b, job_id, job_scope, created_by)
		VALUES (@participant_a, @participant_b, @job_id, @job_scope, @created_by)
		ON CONFLICT (participant_a, participant_b, job_scope) DO NOTHING
		RETURNING id
	`
	args := pgx.StrictNamedArgs{
		"participant_a": pair[0],
		"participant_b": pair[1],
		"job_id":        in.JobID,
		"job_scope":     in.JobScope(),
		"created_by":    in.LoggedInUserID(),
	}
	id, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if db.IsNotFoundError(err) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("sql insert conversation: %w", err)
	}

	return id, nil
}

func (c *Cockroach) insertParticipants(ctx context.Context, conversationID, requesterID, otherUserID string) error {
	const query = `
		INSERT INTO conversation_participants (conversation_id, user_id, unread_count, last_read_at)
		VALUES (@conversation_id, @requester_id, 0, now())
			 , (@conversation_id, @other_user_id, 0, NULL)
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"requester_id":    requesterID,
		"other_user_id":   otherUserID,
	})
	if err != nil {
		return fmt.Errorf("sql insert conversation participants: %w", err)
	}

	return nil
}

func (c *Cockroach) conversationIDByScope(ctx context.Context, pair [2]string, jobScope string) (string, error) {
	const query = `
		SELECT id FROM conversations
		WHERE participant_a = @participant_a
			AND participant_b = @participant_b
			AND job_scope = @job_scope
	`
	args := pgx.StrictNamedArgs{
		"participant_a": pair[0],
		"participant_b": pair[1],
		"job_scope":     jobScope,
	}
	id, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if db.IsNotFoundError(err) {
		return "", errs.NotFoundError("conversation not found")
	}

	if err != nil {
		return "", fmt.Errorf("sql select conversation by scope: %w", err)
	}

	return id, nil
}

func (c *Cockroach) initLastReadAt(ctx context.Context, conversationID, userID string) error {
	const query = `
		UPDATE conversation_participants
		SET last_read_at = now()
		WHERE conversation_id = @conversation_id
			AND user_id = @user_id
			AND last_read_at IS NULL
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	if err != nil {
		return fmt.Errorf("sql init last read at: %w", err)
	}

	return nil
}

// Conversation retrieves a conversation the caller participates in.
func (c *Cockroach) Conversation(ctx context.Context, in types.RetrieveConversation) (types.Conversation, error) {
	var out types.Conversation

	if err := c.ensureParticipant(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
		return out, err
	}

	return c.conversation(ctx, in.ConversationID)
}

func (c *Cockroach) conversation(ctx context.Context, conversationID string) (types.Conversation, error) {
	query := `SELECT ` + sqlConversationCols + ` FROM conversations WHERE conversations.id = @conversation_id`
	args := pgx.StrictNamedArgs{
		"conversation_id": conversationID,
	}
	row, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[conversationRow])
	if db.IsNotFoundError(err) {
		return types.Conversation{}, errs.NotFoundError("conversation not found")
	}

	if err != nil {
		return types.Conversation{}, fmt.Errorf("sql select conversation: %w", err)
	}

	return row.conversation()
}

// Conversations lists the caller conversations by most recent activity.
func (c *Cockroach) Conversations(ctx context.Context, in types.ListConversations) ([]types.Conversation, error) {
	query := `SELECT ` + sqlConversationCols + `
		FROM conversation_participants
		INNER JOIN conversations ON conversations.id = conversation_participants.conversation_id
	` + where([]string{"conversation_participants.user_id = @user_id"}) + `
		ORDER BY conversations.last_message_at DESC, conversations.id DESC
		LIMIT @limit
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
		"limit":   in.Limit,
	}
	rows, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[conversationRow])
	if err != nil {
		return nil, fmt.Errorf("sql select conversations: %w", err)
	}

	out := make([]types.Conversation, 0, len(rows))
	for _, row := range rows {
		conversation, err := row.conversation()
		if err != nil {
			return nil, err
		}

		out = append(out, conversation)
	}

	return out, nil
}

// ensureParticipant distinguishes a missing conversation from one the user is not part of.
func (c *Cockroach) ensureParticipant(ctx context.Context, conversationID, userID string) error {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM conversation_participants
			WHERE conversation_id = conversations.id
				AND user_id = @user_id
		)
		FROM conversations
		WHERE id = @conversation_id
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	}
	ok, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[bool])
	if db.IsNotFoundError(err) {
		return errs.NotFoundError("conversation not found")
	}

	if err != nil {
		return fmt.Errorf("sql select conversation participation: %w", err)
	}

	if !ok {
		return errs.PermissionDeniedError("not a conversation participant")
	}

	return nil
}

// MarkConversationRead clears the caller unread counter
// and sets their read timestamp when it was never set.
// Updated is false when there was nothing to acknowledge.
func (c *Cockroach) MarkConversationRead(ctx context.Context, in types.MarkConversationRead) (types.ReadAck, error) {
	var out types.ReadAck
	err := c.runTx(ctx, func(ctx context.Context) error {
		if err := c.ensureParticipant(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
			return err
		}

		var err error
		out, err = c.markRead(ctx, in.ConversationID, in.LoggedInUserID())
		return err
	})
	return out, err
}

func (c *Cockroach) markRead(ctx context.Context, conversationID, userID string) (types.ReadAck, error) {
	const update = `
		UPDATE conversation_participants
		SET unread_count = 0,
			last_read_at = COALESCE(last_read_at, now())
		WHERE conversation_id = @conversation_id
			AND user_id = @user_id
			AND (unread_count <> 0 OR last_read_at IS NULL)
		RETURNING true AS updated, unread_count, last_read_at
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, update, []any{args}, pgx.RowToStructByNameLax[readAckRow])
	if err == nil {
		return out.ack(), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return types.ReadAck{}, fmt.Errorf("sql update read state: %w", err)
	}

	const query = `
		SELECT false AS updated, unread_count, last_read_at
		FROM conversation_participants
		WHERE conversation_id = @conversation_id
			AND user_id = @user_id
	`
	out, err = pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[readAckRow])
	if db.IsNotFoundError(err) {
		return types.ReadAck{}, errs.PermissionDeniedError("not a conversation participant")
	}

	if err != nil {
		return types.ReadAck{}, fmt.Errorf("sql select read state: %w", err)
	}

	return out.ack(), nil
}

type readAckRow struct {
	Updated     bool       `db:"updated"`
	UnreadCount int        `db:"unread_count"`
	LastReadAt  *time.Time `db:"last_read_at"`
}

func (row readAckRow) ack() types.ReadAck {
	return types.ReadAck{
		Updated:     row.Updated,
		UnreadCount: row.UnreadCount,
		LastReadAt:  row.LastReadAt,
	}
}
