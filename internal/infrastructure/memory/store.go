// Package memory provee adaptadores en memoria de los puertos de
// persistencia, para pruebas y desarrollo sin PostgreSQL. Las transacciones
// se simulan con un snapshot del estado: si el callback falla, se restaura.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Bodegas-api/internal/application/ledger"
	"github.com/jhoicas/Bodegas-api/internal/application/sales"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)
var _ transfer.TxRunner = (*Store)(nil)
var _ sales.TxRunner = (*Store)(nil)

// Store guarda todo el estado en mapas protegidos por un mutex.
type Store struct {
	mu sync.Mutex

	// txMu serializa las transacciones completas (Run*), igual que el
	// bloqueo de fila serializa los ApplyDelta en PostgreSQL. mu sólo
	// protege operaciones individuales de repo.
	txMu sync.Mutex

	users      map[string]*entity.User
	warehouses map[string]*entity.Warehouse
	categories map[string]*entity.Category
	items      map[string]*entity.Item

	balances  map[string]*entity.StockBalance // key: warehouseID|itemID
	movements []*entity.Movement
	transfers map[string]*entity.TransferRequest
	sales     map[string]*entity.Sale

	transferSeq  int64
	saleCounters map[string]int64 // key: AAAA-MM-DD
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*entity.User),
		warehouses:   make(map[string]*entity.Warehouse),
		categories:   make(map[string]*entity.Category),
		items:        make(map[string]*entity.Item),
		balances:     make(map[string]*entity.StockBalance),
		transfers:    make(map[string]*entity.TransferRequest),
		sales:        make(map[string]*entity.Sale),
		saleCounters: make(map[string]int64),
	}
}

// Accesores de repos. Todos comparten el mismo estado del Store.

func (s *Store) Users() repository.UserRepository            { return &userRepo{s} }
func (s *Store) Warehouses() repository.WarehouseRepository  { return &warehouseRepo{s} }
func (s *Store) Categories() repository.CategoryRepository   { return &categoryRepo{s} }
func (s *Store) Items() repository.ItemRepository            { return &itemRepo{s} }
func (s *Store) Balances() repository.StockBalanceRepository { return &balanceRepo{s} }
func (s *Store) Movements() repository.MovementRepository    { return &movementRepo{s} }
func (s *Store) Transfers() repository.TransferRepository    { return &transferRepo{s} }
func (s *Store) Sales() repository.SaleRepository            { return &saleRepo{s} }

// snapshot captura el estado mutable por transacciones del libro.
type snapshot struct {
	balances     map[string]*entity.StockBalance
	movements    []*entity.Movement
	transfers    map[string]*entity.TransferRequest
	sales        map[string]*entity.Sale
	transferSeq  int64
	saleCounters map[string]int64
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		balances:     make(map[string]*entity.StockBalance, len(s.balances)),
		movements:    make([]*entity.Movement, len(s.movements)),
		transfers:    make(map[string]*entity.TransferRequest, len(s.transfers)),
		sales:        make(map[string]*entity.Sale, len(s.sales)),
		transferSeq:  s.transferSeq,
		saleCounters: make(map[string]int64, len(s.saleCounters)),
	}
	for k, b := range s.balances {
		cp := *b
		snap.balances[k] = &cp
	}
	copy(snap.movements, s.movements)
	for k, t := range s.transfers {
		cp := cloneTransfer(t)
		snap.transfers[k] = cp
	}
	for k, v := range s.sales {
		cp := cloneSale(v)
		snap.sales[k] = cp
	}
	for k, v := range s.saleCounters {
		snap.saleCounters[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = snap.balances
	s.movements = snap.movements
	s.transfers = snap.transfers
	s.sales = snap.sales
	s.transferSeq = snap.transferSeq
	s.saleCounters = snap.saleCounters
}

// Run ejecuta fn como unidad atómica sobre el libro: si fn devuelve error, el
// estado vuelve al snapshot previo.
func (s *Store) Run(_ context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&balanceRepo{s}, &movementRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunTransfer ejecuta fn con repos del libro y de traslados, con rollback.
func (s *Store) RunTransfer(_ context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&balanceRepo{s}, &movementRepo{s}, &transferRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunSale ejecuta fn con repos del libro y de ventas, con rollback.
func (s *Store) RunSale(_ context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&balanceRepo{s}, &movementRepo{s}, &saleRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func cloneTransfer(t *entity.TransferRequest) *entity.TransferRequest {
	cp := *t
	cp.Lines = append([]entity.TransferLine(nil), t.Lines...)
	if t.ApprovedAt != nil {
		at := *t.ApprovedAt
		cp.ApprovedAt = &at
	}
	return &cp
}

func cloneSale(v *entity.Sale) *entity.Sale {
	cp := *v
	cp.Lines = append([]entity.SaleLine(nil), v.Lines...)
	return &cp
}
