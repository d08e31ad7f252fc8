package triage

import (
	"net/url"

	"github.com/mailpilot/mailpilot/pkg/query"
	"github.com/mailpilot/mailpilot/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "outcomes", "o").
	Project("id", "ID").
	Project("email_id", "EmailID").
	Project("thread_id", "ThreadID").
	Project("status", "Status").
	Project("category", "Category").
	Project("draft", "Draft").
	Project("reason", "Reason").
	Project("trials", "Trials").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("processed_at", "ProcessedAt")

var defaultSort = query.SortField{
	Field:      "ProcessedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for outcome queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	Category *string `json:"category,omitempty"`
	EmailID  *string `json:"email_id,omitempty"`
	ThreadID *string `json:"thread_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Category", f.Category).
		WhereEquals("EmailID", f.EmailID).
		WhereEquals("ThreadID", f.ThreadID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if e := values.Get("email_id"); e != "" {
		f.EmailID = &e
	}

	if t := values.Get("thread_id"); t != "" {
		f.ThreadID = &t
	}

	return f
}

func scanOutcome(s repository.Scanner) (Outcome, error) {
	var o Outcome
	err := s.Scan(
		&o.ID,
		&o.EmailID,
		&o.ThreadID,
		&o.Status,
		&o.Category,
		&o.Draft,
		&o.Reason,
		&o.Trials,
		&o.ModelName,
		&o.ProviderName,
		&o.ProcessedAt,
	)
	return o, err
}
