package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goodsflow/internal/audit"
	"goodsflow/internal/common"
)

// Repos bundles every repository bound to one transaction plus the change
// set their writes accumulate into.
type Repos struct {
	Warehouses  WarehouseRepository
	Products    ProductRepository
	Users       UserRepository
	Movements   MovementRepository
	PackDocs    PackDocRepository
	Supplies    SupplyRepository
	CnPurchases CnPurchaseRepository
	MskInbound  MskInboundRepository
	AuditLogs   AuditLogRepository
	Changes     *audit.ChangeSet
}

// NewRepos binds the repositories to a querier with a fresh change set.
func NewRepos(db Querier) *Repos {
	changes := audit.NewChangeSet()
	return &Repos{
		Warehouses:  NewWarehouseRepository(db, changes),
		Products:    NewProductRepository(db, changes),
		Users:       NewUserRepository(db),
		Movements:   NewMovementRepository(db, changes),
		PackDocs:    NewPackDocRepository(db, changes),
		Supplies:    NewSupplyRepository(db, changes),
		CnPurchases: NewCnPurchaseRepository(db, changes),
		MskInbound:  NewMskInboundRepository(db, changes),
		AuditLogs:   NewAuditLogRepository(db),
		Changes:     changes,
	}
}

// UnitOfWork runs a function against transaction-bound repositories. On
// success the recorded changes are written to audit_logs inside the same
// transaction, so a document and its audit trail commit or roll back
// together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r *Repos) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) Do(ctx context.Context, fn func(r *Repos) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	repos := NewRepos(tx)
	if err := fn(repos); err != nil {
		return err
	}
	if err := FlushChanges(ctx, repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// FlushChanges drains the change set into audit_logs. The actor comes from
// the ambient context; nil means a system-initiated change.
func FlushChanges(ctx context.Context, repos *Repos) error {
	actorID := common.ActorIDFromContext(ctx)
	for _, change := range repos.Changes.Drain() {
		log := audit.BuildLog(change, actorID)
		if log == nil {
			continue
		}
		if err := repos.AuditLogs.Create(ctx, log); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
	}
	return nil
}
