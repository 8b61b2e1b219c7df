package audit

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/frahmantamala/inventory-management/internal"
	auditDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/audit"
)

type Repository interface {
	Append(ctx context.Context, entry *auditDatamodel.Entry) error
	List(ctx context.Context) ([]*auditDatamodel.Entry, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Record appends an entry attributed to the session in ctx, if any. Callers
// invoke it only after their own change is committed. A failed write is logged
// and never reported back to the caller.
func (s *Service) Record(ctx context.Context, action Action, details string) {
	entry := &auditDatamodel.Entry{
		Timestamp: s.now().UTC(),
		Action:    string(action),
		Details:   details,
	}
	if sess, ok := internal.SessionFromContext(ctx); ok {
		entry.UserID = sql.NullInt64{Int64: sess.UserID, Valid: true}
		entry.Username = sql.NullString{String: sess.Username, Valid: true}
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry", "action", action, "error", err)
	}
}

// List returns every entry, newest first. Director only.
func (s *Service) List(ctx context.Context) ([]LogResponse, error) {
	if _, err := internal.Authorize(ctx, internal.IsDirector); err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		return nil, internal.NewInternalError("Failed to load audit log", err)
	}

	responses := make([]LogResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, FromDataModel(e).ToResponse())
	}
	return responses, nil
}
