package inventory

import (
	"context"

	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/sales"
	"github.com/supplychain/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the stock-touching
// repositories. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository a stock
// mutation may need within one transaction. Guarded quantity rows, the
// movement ledger and the business record causing the change (sale,
// transfer, catalog row) must always commit together.
type TransactionalRepositories interface {
	StockRepo() inventory.StockRepository
	HoldingRepo() inventory.HoldingRepository
	MovementRepo() inventory.MovementRepository
	RawMaterialRepo() catalog.RawMaterialRepository
	ProducedGoodRepo() catalog.ProducedGoodRepository
	SaleRepo() sales.SaleRepository
	TransferRepo() transfer.TransferRequestRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for callers that manage atomicity themselves.
type NoOpTransactionScope struct {
	stockRepo        inventory.StockRepository
	holdingRepo      inventory.HoldingRepository
	movementRepo     inventory.MovementRepository
	rawMaterialRepo  catalog.RawMaterialRepository
	producedGoodRepo catalog.ProducedGoodRepository
	saleRepo         sales.SaleRepository
	transferRepo     transfer.TransferRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	stockRepo inventory.StockRepository,
	holdingRepo inventory.HoldingRepository,
	movementRepo inventory.MovementRepository,
	rawMaterialRepo catalog.RawMaterialRepository,
	producedGoodRepo catalog.ProducedGoodRepository,
	saleRepo sales.SaleRepository,
	transferRepo transfer.TransferRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:        stockRepo,
		holdingRepo:      holdingRepo,
		movementRepo:     movementRepo,
		rawMaterialRepo:  rawMaterialRepo,
		producedGoodRepo: producedGoodRepo,
		saleRepo:         saleRepo,
		transferRepo:     transferRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock repository
func (s *NoOpTransactionScope) StockRepo() inventory.StockRepository { return s.stockRepo }

// HoldingRepo returns the department holding repository
func (s *NoOpTransactionScope) HoldingRepo() inventory.HoldingRepository { return s.holdingRepo }

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository { return s.movementRepo }

// RawMaterialRepo returns the raw material repository
func (s *NoOpTransactionScope) RawMaterialRepo() catalog.RawMaterialRepository {
	return s.rawMaterialRepo
}

// ProducedGoodRepo returns the produced good repository
func (s *NoOpTransactionScope) ProducedGoodRepo() catalog.ProducedGoodRepository {
	return s.producedGoodRepo
}

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository { return s.saleRepo }

// TransferRepo returns the transfer request repository
func (s *NoOpTransactionScope) TransferRepo() transfer.TransferRequestRepository {
	return s.transferRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
