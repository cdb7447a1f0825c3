package services

import (
	"context"

	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

type AuditLogService interface {
	List(ctx context.Context, filters models.AuditLogFilters) ([]*models.AuditLog, error)
	EntityHistory(ctx context.Context, tableName, recordPK string, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogService struct {
	uow repositories.UnitOfWork
}

func NewAuditLogService(uow repositories.UnitOfWork) AuditLogService {
	return &auditLogService{uow: uow}
}

func (s *auditLogService) List(ctx context.Context, filters models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	var logs []*models.AuditLog
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		logs, err = r.AuditLogs.List(ctx, filters)
		return err
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *auditLogService) EntityHistory(ctx context.Context, tableName, recordPK string, limit, offset int) ([]*models.AuditLog, error) {
	return s.List(ctx, models.AuditLogFilters{
		TableName: &tableName,
		RecordPK:  &recordPK,
		Limit:     limit,
		Offset:    offset,
	})
}
