package triage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/mailpilot/mailpilot/internal/config"
	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/internal/prompts"
	"github.com/mailpilot/mailpilot/internal/workflow"
	"github.com/mailpilot/mailpilot/pkg/pagination"
	"github.com/mailpilot/mailpilot/pkg/query"
	"github.com/mailpilot/mailpilot/pkg/repository"
	"github.com/mailpilot/mailpilot/pkg/storage"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a triage repository implementing the System interface.
// It internally constructs the workflow runtime from the provided dependencies.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	options config.WorkflowConfig,
	logger *slog.Logger,
	pagination pagination.Config,
	storage storage.System,
	mailSys mail.System,
	prompts prompts.System,
) System {
	rt := &workflow.Runtime{
		Agent:   agent,
		Options: options,
		Mail:    mailSys,
		Storage: storage,
		Prompts: prompts,
		Logger:  logger.With("workflow", "triage"),
	}
	return &repo{
		db:         db,
		rt:         rt,
		logger:     logger.With("system", "triage"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Outcome], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Category", "Reason")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanOutcome)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Outcome, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanOutcome)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

func (r *repo) Process(ctx context.Context, inputs []mail.Input) ([]Outcome, error) {
	emails := make([]mail.Email, 0, len(inputs))
	for i, in := range inputs {
		email, err := in.Email()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		emails = append(emails, email)
	}

	return r.triage(ctx, emails)
}

func (r *repo) ProcessInbox(ctx context.Context) ([]Outcome, error) {
	emails, err := r.rt.Mail.FetchUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch unread: %w", err)
	}

	if len(emails) == 0 {
		return []Outcome{}, nil
	}

	outcomes, err := r.triage(ctx, emails)
	if err != nil {
		return nil, err
	}

	for _, o := range outcomes {
		if o.Status == string(workflow.StatusCancelled) {
			continue
		}

		if err := r.rt.Mail.MarkRead(ctx, o.EmailID); err != nil {
			r.logger.Warn("mark read failed", "email_id", o.EmailID, "error", err)
		}
	}

	return outcomes, nil
}

func (r *repo) triage(ctx context.Context, emails []mail.Email) ([]Outcome, error) {
	results, err := workflow.ProcessAll(ctx, r.rt, emails)
	if err != nil {
		return nil, fmt.Errorf("triage batch: %w", err)
	}

	outcomes := make([]Outcome, 0, len(results))
	for _, result := range results {
		o, err := r.persist(ctx, result)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, *o)
	}

	return outcomes, nil
}

// persist upserts an outcome keyed by email_id so re-triaging the same email
// replaces its prior record.
func (r *repo) persist(ctx context.Context, result workflow.Outcome) (*Outcome, error) {
	upsertQ := `
		INSERT INTO outcomes(
			email_id, thread_id, status, category, draft,
			reason, trials, model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email_id) DO UPDATE SET
			thread_id = EXCLUDED.thread_id,
			status = EXCLUDED.status,
			category = EXCLUDED.category,
			draft = EXCLUDED.draft,
			reason = EXCLUDED.reason,
			trials = EXCLUDED.trials,
			processed_at = NOW(),
			model_name = EXCLUDED.model_name,
			provider_name = EXCLUDED.provider_name
		RETURNING id, email_id, thread_id, status, category, draft,
				  reason, trials, model_name, provider_name, processed_at`

	upsertArgs := []any{
		result.EmailID,
		result.ThreadID,
		string(result.Status),
		result.Category,
		result.Draft,
		result.Reason,
		result.Trials,
		r.rt.Agent.Model.Name,
		r.rt.Agent.Provider.Name,
	}

	o, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Outcome, error) {
		return repository.QueryOne(ctx, tx, upsertQ, upsertArgs, scanOutcome)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("email triaged",
		"id", o.ID,
		"email_id", o.EmailID,
		"status", o.Status,
		"category", o.Category,
		"trials", o.Trials,
	)
	return &o, nil
}
