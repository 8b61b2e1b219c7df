package sqlstore

import (
	"context"
	"fmt"

	"github.com/frahmantamala/inventory-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/jmoiron/sqlx"
)

const (
	insertEntry = `INSERT INTO audit_log (timestamp, user_id, username, action, details) VALUES (?, ?, ?, ?, ?)`
	selectAll   = `SELECT id, timestamp, user_id, username, action, details FROM audit_log ORDER BY timestamp DESC, id DESC`
)

type AuditRepository struct {
	store *db.Store
}

func NewAuditRepository(store *db.Store) audit.Repository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) Append(ctx context.Context, e *auditDatamodel.Entry) error {
	q, err := r.store.SQLX(ctx)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, r.store.Rebind(insertEntry), e.Timestamp, e.UserID, e.Username, e.Action, e.Details)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context) ([]*auditDatamodel.Entry, error) {
	q, err := r.store.SQLX(ctx)
	if err != nil {
		return nil, err
	}

	var entries []*auditDatamodel.Entry
	if err := sqlx.SelectContext(ctx, q, &entries, r.store.Rebind(selectAll)); err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}
	return entries, nil
}
