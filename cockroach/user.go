package cockroach

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const sqlUserCols = `
	  users.id
	, users.name
	, users.email
	, users.role
	, users.headline
	, users.company_name
	, users.job_title
	, users.updated_at
`

func (c *Cockroach) CreateUser(ctx context.Context, u types.User) (string, error) {
	const query = `
		INSERT INTO users (name, email, role, headline, company_name, job_title)
		VALUES (@name, @email, @role, @headline, @company_name, @job_title)
		RETURNING id
	`
	args := pgx.StrictNamedArgs{
		"name":         u.Name,
		"email":        u.Email,
		"role":         u.Role,
		"headline":     u.Headline,
		"company_name": u.CompanyName,
		"job_title":    u.JobTitle,
	}
	id, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if db.IsUniqueViolationError(err, "email") {
		return "", errs.ConflictError("email taken")
	}

	if err != nil {
		return "", fmt.Errorf("sql insert user: %w", err)
	}

	return id, nil
}

func (c *Cockroach) User(ctx context.Context, userID string) (types.User, error) {
	query := `SELECT ` + sqlUserCols + ` FROM users WHERE id = @user_id`
	args := pgx.StrictNamedArgs{
		"user_id": userID,
	}
	user, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.User])
	if db.IsNotFoundError(err) {
		return user, errs.NotFoundError("user not found")
	}

	if err != nil {
		return user, fmt.Errorf("sql select user: %w", err)
	}

	return user, nil
}

// SearchUsers lists chat eligible users other than the caller, most recently updated first.
func (c *Cockroach) SearchUsers(ctx context.Context, in types.SearchContacts) ([]types.User, error) {
	filters := []string{
		"users.id <> @user_id",
		"users.role IN (@candidate, @recruiter)",
	}
	args := pgx.StrictNamedArgs{
		"user_id":   in.LoggedInUserID(),
		"candidate": types.RoleCandidate,
		"recruiter": types.RoleRecruiter,
		"limit":     in.Limit,
	}

	if in.Role != nil {
		filters = append(filters, "users.role = @role")
		args["role"] = *in.Role
	}

	if in.Query != "" {
		filters = append(filters, `(
			users.name ILIKE '%' || @query || '%'
			OR users.email ILIKE '%' || @query || '%'
			OR users.headline ILIKE '%' || @query || '%'
			OR users.company_name ILIKE '%' || @query || '%'
			OR users.job_title ILIKE '%' || @query || '%'
		)`)
		args["query"] = escapeLike(in.Query)
	}

	query := `SELECT ` + sqlUserCols + ` FROM users` + where(filters) + `
		ORDER BY users.updated_at DESC, users.id DESC
		LIMIT @limit`

	out, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.User])
	if err != nil {
		return nil, fmt.Errorf("sql select users: %w", err)
	}

	return out, nil
}

func (c *Cockroach) CreateJob(ctx context.Context, recruiterID string, job types.Job) (string, error) {
	const query = `
		INSERT INTO jobs (recruiter_id, title, organization)
		VALUES (@recruiter_id, @title, @organization)
		RETURNING id
	`
	args := pgx.StrictNamedArgs{
		"recruiter_id": recruiterID,
		"title":        job.Title,
		"organization": job.Organization,
	}
	id, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[string])
	if err != nil {
		return "", fmt.Errorf("sql insert job: %w", err)
	}

	return id, nil
}

func (c *Cockroach) Job(ctx context.Context, jobID string) (types.Job, error) {
	const query = `SELECT id, title, organization FROM jobs WHERE id = @job_id`
	args := pgx.StrictNamedArgs{
		"job_id": jobID,
	}
	job, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Job])
	if db.IsNotFoundError(err) {
		return job, errs.NotFoundError("job not found")
	}

	if err != nil {
		return job, fmt.Errorf("sql select job: %w", err)
	}

	return job, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
