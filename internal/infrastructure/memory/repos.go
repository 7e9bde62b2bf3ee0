package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

func balanceKey(warehouseID, itemID string) string {
	return warehouseID + "|" + itemID
}

func pageSlice[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// --- stock balances ---

type balanceRepo struct{ s *Store }

func (r *balanceRepo) Get(warehouseID, itemID string) (*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.balances[balanceKey(warehouseID, itemID)]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.StockBalance{WarehouseID: warehouseID, ItemID: itemID, Quantity: 0}, nil
}

func (r *balanceRepo) GetForUpdate(warehouseID, itemID string) (*entity.StockBalance, error) {
	return r.Get(warehouseID, itemID)
}

func (r *balanceRepo) Upsert(balance *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *balance
	cp.UpdatedAt = time.Now()
	r.s.balances[balanceKey(balance.WarehouseID, balance.ItemID)] = &cp
	return nil
}

func (r *balanceRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockBalance
	for _, b := range r.s.balances {
		if b.WarehouseID == warehouseID {
			cp := *b
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return pageSlice(list, limit, offset), nil
}

func (r *balanceRepo) TotalByItem(itemID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, b := range r.s.balances {
		if b.ItemID == itemID {
			total += b.Quantity
		}
	}
	return total, nil
}

// --- movimientos ---

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(movement *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	cp := *movement
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

func (r *movementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.filter(func(m *entity.Movement) bool { return m.ItemID == itemID }, from, to, limit, offset)
}

func (r *movementRepo) filter(match func(*entity.Movement) bool, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return pageSlice(list, limit, offset), nil
}

// --- traslados ---

type transferRepo struct{ s *Store }

func (r *transferRepo) Create(transfer *entity.TransferRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	for i := range transfer.Lines {
		if transfer.Lines[i].ID == "" {
			transfer.Lines[i].ID = uuid.New().String()
		}
		transfer.Lines[i].TransferID = transfer.ID
	}
	r.s.transfers[transfer.ID] = cloneTransfer(transfer)
	return nil
}

func (r *transferRepo) GetByID(id string) (*entity.TransferRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r *transferRepo) UpdateStatusFrom(id, from, to, actorID, note string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	// Sólo las decisiones del revisor (aprobar/rechazar) dejan metadatos.
	if to == entity.TransferStatusCOMPLETED || to == entity.TransferStatusREJECTED {
		t.ApprovedBy = actorID
		t.ApprovedAt = &at
		t.ReviewNote = note
	}
	t.UpdatedAt = at
	return true, nil
}

func (r *transferRepo) List(status, warehouseID string, limit, offset int) ([]*entity.TransferRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.TransferRequest
	for _, t := range r.s.transfers {
		if status != "" && t.Status != status {
			continue
		}
		if warehouseID != "" && t.SourceID != warehouseID && t.DestinationID != warehouseID {
			continue
		}
		list = append(list, cloneTransfer(t))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return pageSlice(list, limit, offset), nil
}

func (r *transferRepo) NextRequestNumber() (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transferSeq++
	return fmt.Sprintf("TR-%06d", r.s.transferSeq), nil
}

// --- ventas ---

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	for i := range sale.Lines {
		if sale.Lines[i].ID == "" {
			sale.Lines[i].ID = uuid.New().String()
		}
		sale.Lines[i].SaleID = sale.ID
	}
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(v), nil
}

func (r *saleRepo) UpdateStatusFrom(id, from, to string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.sales[id]
	if !ok || v.Status != from {
		return false, nil
	}
	v.Status = to
	v.UpdatedAt = at
	return true, nil
}

func (r *saleRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Sale
	for _, v := range r.s.sales {
		if v.WarehouseID != warehouseID {
			continue
		}
		if from != nil && v.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && v.CreatedAt.After(*to) {
			continue
		}
		list = append(list, cloneSale(v))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return pageSlice(list, limit, offset), nil
}

func (r *saleRepo) NextSaleNumber(date time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	day := date.Format("2006-01-02")
	r.s.saleCounters[day]++
	return fmt.Sprintf("POS-%s-%04d", date.Format("20060102"), r.s.saleCounters[day]), nil
}

// --- catálogo y usuarios ---

type itemRepo struct{ s *Store }

func (r *itemRepo) Create(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	for _, i := range r.s.items {
		if strings.EqualFold(i.SKU, item.SKU) {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i, ok := r.s.items[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (r *itemRepo) GetBySKU(sku string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.items {
		if strings.EqualFold(i.SKU, sku) {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *itemRepo) Update(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *itemRepo) SetActive(id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	i.Active = active
	i.UpdatedAt = time.Now()
	return nil
}

func (r *itemRepo) List(onlyActive bool, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Item
	for _, i := range r.s.items {
		if onlyActive && !i.Active {
			continue
		}
		cp := *i
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return pageSlice(list, limit, offset), nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if warehouse.ID == "" {
		warehouse.ID = uuid.New().String()
	}
	for _, w := range r.s.warehouses {
		if strings.EqualFold(w.Name, warehouse.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *warehouse
	r.s.warehouses[warehouse.ID] = &cp
	return nil
}

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *warehouseRepo) GetByName(name string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if strings.EqualFold(w.Name, name) {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *warehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[warehouse.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, w := range r.s.warehouses {
		if id != warehouse.ID && strings.EqualFold(w.Name, warehouse.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *warehouse
	r.s.warehouses[warehouse.ID] = &cp
	return nil
}

func (r *warehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Warehouse
	for _, w := range r.s.warehouses {
		cp := *w
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return pageSlice(list, limit, offset), nil
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Code, category.Code) {
			return domain.ErrDuplicate
		}
	}
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *categoryRepo) GetByCode(code string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Code, code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) Update(category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Category
	for _, c := range r.s.categories {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return pageSlice(list, limit, offset), nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) List(limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, u := range r.s.users {
		cp := *u
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return pageSlice(list, limit, offset), nil
}
