package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

// In-memory repositories shared by the service tests. Each one is
// mutex-guarded so the concurrency tests can hammer them.

type mockProductRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64
}

func newMockProductRepo(products ...domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[int64]domain.Product)}
	for _, p := range products {
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockProductRepo) ListProducts(ctx context.Context, f port.ProductFilter) ([]domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []domain.Product
	for _, p := range m.products {
		if f.AvailableOnly && !p.IsAvailable {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		switch f.Sort {
		case "price_low":
			return all[i].Price < all[j].Price
		case "price_high":
			return all[i].Price > all[j].Price
		case "name":
			return all[i].Name < all[j].Name
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (m *mockProductRepo) RelatedProducts(ctx context.Context, productID int64, category domain.Category, limit int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var related []domain.Product
	for _, p := range m.products {
		if p.ID == productID || p.Category != category || !p.IsAvailable {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (m *mockProductRepo) CountByCategory(ctx context.Context, c domain.Category) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.products {
		if p.Category == c && p.IsAvailable {
			n++
		}
	}
	return n, nil
}

func (m *mockProductRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) LowStockProducts(ctx context.Context, below, limit int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var low []domain.Product
	for _, p := range m.products {
		if p.Stock < below {
			low = append(low, p)
		}
		if len(low) == limit {
			break
		}
	}
	return low, nil
}

func (m *mockProductRepo) CountProducts(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

type mockCartRepo struct {
	mu     sync.Mutex
	lines  map[int64]domain.CartLine
	nextID int64
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{lines: make(map[int64]domain.CartLine)}
}

func (m *mockCartRepo) ListCartLines(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CartLine
	for _, l := range m.lines {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCartRepo) GetCartLine(ctx context.Context, id int64) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *mockCartRepo) UpsertCartLine(ctx context.Context, line *domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.lines {
		if existing.AccountID == line.AccountID && existing.ProductID == line.ProductID {
			existing.Quantity += line.Quantity
			m.lines[id] = existing
			line.ID = id
			return nil
		}
	}
	m.nextID++
	line.ID = m.nextID
	m.lines[line.ID] = *line
	return nil
}

func (m *mockCartRepo) UpdateCartLineQuantity(ctx context.Context, id int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lines[id]
	if !ok {
		return port.ErrNotFound
	}
	l.Quantity = quantity
	m.lines[id] = l
	return nil
}

func (m *mockCartRepo) DeleteCartLine(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, id)
	return nil
}

func (m *mockCartRepo) ClearCart(ctx context.Context, accountID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.lines {
		if l.AccountID == accountID {
			delete(m.lines, id)
		}
	}
	return nil
}

type mockGuestCartStore struct {
	mu    sync.Mutex
	carts map[string][]domain.GuestCartEntry
}

func newMockGuestCartStore() *mockGuestCartStore {
	return &mockGuestCartStore{carts: make(map[string][]domain.GuestCartEntry)}
}

func (m *mockGuestCartStore) GetGuestCart(ctx context.Context, token string) ([]domain.GuestCartEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.carts[token]
	out := make([]domain.GuestCartEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *mockGuestCartStore) SaveGuestCart(ctx context.Context, token string, entries []domain.GuestCartEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]domain.GuestCartEntry, len(entries))
	copy(saved, entries)
	m.carts[token] = saved
	return nil
}

func (m *mockGuestCartStore) ClearGuestCart(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, token)
	return nil
}

// mockOrderRepo mimics the transactional commit: conditional stock
// decrements against the product repo, cart wipe against the cart repo,
// all rolled back when any line's stock is short.
type mockOrderRepo struct {
	mu              sync.Mutex
	products        *mockProductRepo
	carts           *mockCartRepo
	orders          map[int64]domain.Order
	nextID          int64
	duplicateBudget int // first N commits fail with ErrDuplicateOrderNumber
	seenNumbers     map[string]bool
}

func newMockOrderRepo(products *mockProductRepo, carts *mockCartRepo) *mockOrderRepo {
	return &mockOrderRepo{
		products:    products,
		carts:       carts,
		orders:      make(map[int64]domain.Order),
		seenNumbers: make(map[string]bool),
	}
}

func (m *mockOrderRepo) CommitOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.duplicateBudget > 0 {
		m.duplicateBudget--
		return port.ErrDuplicateOrderNumber
	}
	if m.seenNumbers[order.OrderNumber] {
		return port.ErrDuplicateOrderNumber
	}

	m.products.mu.Lock()
	defer m.products.mu.Unlock()
	for _, line := range order.Lines {
		p, ok := m.products.products[line.ProductID]
		if !ok || p.Stock < line.Quantity {
			return port.ErrStockExhausted
		}
	}
	for _, line := range order.Lines {
		p := m.products.products[line.ProductID]
		p.Stock -= line.Quantity
		m.products.products[line.ProductID] = p
	}

	m.nextID++
	order.ID = m.nextID
	m.seenNumbers[order.OrderNumber] = true
	m.orders[order.ID] = *order

	return m.carts.ClearCart(ctx, order.AccountID)
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *mockOrderRepo) ListOrdersByAccount(ctx context.Context, accountID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.AccountID == accountID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockOrderRepo) ListOrders(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *mockOrderRepo) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return port.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *mockOrderRepo) CountOrders(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

func (m *mockOrderRepo) TotalRevenue(ctx context.Context) (domain.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum domain.Money
	for _, o := range m.orders {
		sum += o.Total
	}
	return sum, nil
}

func (m *mockOrderRepo) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	orders, _, err := m.ListOrders(ctx, "", limit, 0)
	return orders, err
}

type mockIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{keys: make(map[string]bool)}
}

func (m *mockIdempotencyStore) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *mockIdempotencyStore) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type mockAccountRepo struct {
	mu       sync.Mutex
	accounts map[int64]domain.Account
	nextID   int64

	// createErr and updateErr, when set, fail the next matching write.
	createErr error
	updateErr error
}

func newMockAccountRepo(accounts ...domain.Account) *mockAccountRepo {
	m := &mockAccountRepo{accounts: make(map[int64]domain.Account)}
	for _, a := range accounts {
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	m.nextID++
	a.ID = m.nextID
	m.accounts[a.ID] = *a
	return nil
}

func (m *mockAccountRepo) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *mockAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) UpdateAccount(ctx context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		err := m.updateErr
		m.updateErr = nil
		return err
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *mockAccountRepo) CountAccounts(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

type mockWishlistRepo struct {
	mu     sync.Mutex
	items  map[int64]domain.WishlistItem
	nextID int64
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{items: make(map[int64]domain.WishlistItem)}
}

func (m *mockWishlistRepo) ListWishlist(ctx context.Context, accountID int64) ([]domain.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WishlistItem
	for _, item := range m.items {
		if item.AccountID == accountID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockWishlistRepo) AddWishlistItem(ctx context.Context, accountID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.AccountID == accountID && item.ProductID == productID {
			return false, nil
		}
	}
	m.nextID++
	m.items[m.nextID] = domain.WishlistItem{ID: m.nextID, AccountID: accountID, ProductID: productID}
	return true, nil
}

func (m *mockWishlistRepo) GetWishlistItem(ctx context.Context, id int64) (*domain.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *mockWishlistRepo) DeleteWishlistItem(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
