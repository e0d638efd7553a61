package persistence

import (
	"context"

	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/sales"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// All repository operations performed through the scoped repositories commit
// or roll back together.
type GormTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, propagated to transfer repos
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// SetOutboxEventSaver propagates the outbox saver to transaction-scoped
// transfer repositories so their events land in the same transaction.
func (s *GormTransactionScope) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos invapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// StockRepo returns the guarded stock repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

// HoldingRepo returns the holding repository scoped to the current transaction
func (r *gormTransactionalRepositories) HoldingRepo() inventory.HoldingRepository {
	return NewGormHoldingRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// RawMaterialRepo returns the raw material repository scoped to the current transaction
func (r *gormTransactionalRepositories) RawMaterialRepo() catalog.RawMaterialRepository {
	return NewGormRawMaterialRepository(r.tx)
}

// ProducedGoodRepo returns the produced good repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProducedGoodRepo() catalog.ProducedGoodRepository {
	return NewGormProducedGoodRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormTransactionalRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// TransferRepo returns the transfer request repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransferRepo() transfer.TransferRequestRepository {
	repo := NewGormTransferRequestRepository(r.tx)
	if r.outboxSaver != nil {
		repo.SetOutboxEventSaver(r.outboxSaver)
	}
	return repo
}

// Ensure GormTransactionScope implements TransactionScope
var _ invapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ invapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
