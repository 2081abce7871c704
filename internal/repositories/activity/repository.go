// Package activity stores the audit trail written by vault operations.
package activity

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, e *models.ActivityLog) (int64, error)
	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]*models.ActivityLog, error)
}

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Insert(ctx context.Context, e *models.ActivityLog) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO activity_logs ("user", action, details, timestamp) VALUES (?, ?, ?, ?) RETURNING log_id`,
		e.User, e.Action, e.Details, e.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert activity log: %w", err)
	}
	e.ID = id
	return id, nil
}

func (r *SQLRepository) Recent(ctx context.Context, n int) ([]*models.ActivityLog, error) {
	if n <= 0 {
		n = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT log_id, "user", action, details, timestamp FROM activity_logs ORDER BY log_id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("error selecting activity logs: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ActivityLog, 0, n)
	for rows.Next() {
		e := &models.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.User, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
