package repositories

import (
	"context"
	"fmt"

	"goodsflow/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filters models.AuditLogFilters) ([]*models.AuditLog, error)
}

type auditLogRepo struct {
	db Querier
}

func NewAuditLogRepository(db Querier) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, table_name, record_pk, old_data, new_data, diff, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, log.ID, log.ActorID, log.Action, log.TableName, log.RecordPK,
		log.OldData, log.NewData, log.Diff)
	return err
}

func (r *auditLogRepo) List(ctx context.Context, filters models.AuditLogFilters) ([]*models.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, table_name, record_pk, old_data, new_data, diff, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}
	idx := 1
	if filters.TableName != nil {
		query += fmt.Sprintf(" AND table_name = $%d", idx)
		args = append(args, *filters.TableName)
		idx++
	}
	if filters.RecordPK != nil {
		query += fmt.Sprintf(" AND record_pk = $%d", idx)
		args = append(args, *filters.RecordPK)
		idx++
	}
	if filters.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", idx)
		args = append(args, *filters.Action)
		idx++
	}
	if filters.ActorID != nil {
		query += fmt.Sprintf(" AND actor_id = $%d", idx)
		args = append(args, *filters.ActorID)
		idx++
	}
	if filters.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filters.StartDate)
		idx++
	}
	if filters.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filters.EndDate)
		idx++
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filters.Limit)
		idx++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", idx)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		log := &models.AuditLog{}
		if err := rows.Scan(&log.ID, &log.ActorID, &log.Action, &log.TableName, &log.RecordPK,
			&log.OldData, &log.NewData, &log.Diff, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
