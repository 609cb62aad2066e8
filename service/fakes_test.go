package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cafebackend/apperr"
	"cafebackend/models"
	"cafebackend/storage"

	"github.com/shopspring/decimal"
)

type fakeMenuStore struct {
	mu          sync.Mutex
	items       map[uint]*models.MenuItem
	nextID      uint
	searchCalls int
	failCreate  error
	referenced  map[uint]bool
}

func newFakeMenuStore() *fakeMenuStore {
	return &fakeMenuStore{items: map[uint]*models.MenuItem{}, referenced: map[uint]bool{}}
}

func (f *fakeMenuStore) List(context.Context) ([]models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.MenuItem, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMenuStore) Recent(ctx context.Context, limit int) ([]models.MenuItem, error) {
	all, _ := f.List(ctx)
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMenuStore) GetByID(_ context.Context, id uint) (*models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item %d: %w", id, apperr.ErrNotFound)
	}
	cp := *it
	return &cp, nil
}

func (f *fakeMenuStore) Create(_ context.Context, item *models.MenuItem) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	item.CreatedAt = time.Now()
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeMenuStore) Update(_ context.Context, id uint, fields map[string]any) (*models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item %d: %w", id, apperr.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "name":
			it.Name = v.(string)
		case "description":
			it.Description = v.(string)
		case "price":
			it.Price = v.(decimal.Decimal)
		case "category":
			it.Category = v.(string)
		case "image_ref":
			s := v.(string)
			it.ImageRef = &s
		}
	}
	cp := *it
	return &cp, nil
}

func (f *fakeMenuStore) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("menu item %d: %w", id, apperr.ErrNotFound)
	}
	if f.referenced[id] {
		return fmt.Errorf("%w: menu item %d is referenced by orders", apperr.ErrConflict, id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeMenuStore) Search(ctx context.Context, term string) ([]models.MenuItem, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	all, _ := f.List(ctx)
	out := []models.MenuItem{}
	t := strings.ToLower(term)
	for _, it := range all {
		if strings.Contains(strings.ToLower(it.Name), t) || strings.Contains(strings.ToLower(it.Description), t) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeMenuStore) ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	all, _ := f.List(ctx)
	out := []models.MenuItem{}
	for _, it := range all {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeMenuStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	all, _ := f.List(ctx)
	counts := map[string]int64{}
	for _, it := range all {
		counts[it.Category]++
	}
	return counts, nil
}

func (f *fakeMenuStore) SetImageRef(_ context.Context, id uint, ref *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return fmt.Errorf("menu item %d: %w", id, apperr.ErrNotFound)
	}
	it.ImageRef = ref
	return nil
}

type fakeImageStore struct {
	saved   []string
	removed []string
	err     error
}

func (f *fakeImageStore) Save(_ context.Context, u storage.Upload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := storage.ValidateUpload(u, storage.DefaultMaxUploadBytes); err != nil {
		return "", err
	}
	name := fmt.Sprintf("menu-%d%s", len(f.saved)+1, strings.ToLower(u.Filename[strings.LastIndex(u.Filename, "."):]))
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeImageStore) Remove(_ context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

// fakeOrderStore prices orders from a fakeMenuStore the way the repository
// does inside its transaction.
type fakeOrderStore struct {
	mu     sync.Mutex
	menus  *fakeMenuStore
	orders map[uint]*models.Order
	nextID uint
	byDate []string
}

func newFakeOrderStore(menus *fakeMenuStore) *fakeOrderStore {
	return &fakeOrderStore{menus: menus, orders: map[uint]*models.Order{}}
}

func (f *fakeOrderStore) Create(ctx context.Context, o *models.Order) error {
	menu, err := f.menus.GetByID(ctx, o.MenuID)
	if err != nil {
		return fmt.Errorf("%w: menu item %d does not exist", apperr.ErrValidation, o.MenuID)
	}
	total := models.LineTotal(menu.Price, o.Quantity)
	if !models.ValidAmount(total) {
		return fmt.Errorf("%w: order total %s exceeds %s", apperr.ErrValidation, total, models.MaxAmount)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	o.TotalAmount = total
	o.CreatedAt = time.Now()
	o.Menu = *menu
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderStore) List(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) ListByDate(ctx context.Context, date string) ([]models.Order, error) {
	f.byDate = append(f.byDate, date)
	all, _ := f.List(ctx)
	out := []models.Order{}
	for _, o := range all {
		if o.CreatedAt.Format(DateLayout) == date {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) UpdatePaymentStatus(_ context.Context, id uint, status models.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	if !models.CanTransition(o.PaymentStatus, status) {
		return fmt.Errorf("%w: cannot change payment status from %s to %s", apperr.ErrValidation, o.PaymentStatus, status)
	}
	o.PaymentStatus = status
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	delete(f.orders, id)
	return o, nil
}

func (f *fakeOrderStore) Stats(context.Context) (*models.OrderStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := &models.OrderStats{}
	days := map[string]bool{}
	for _, o := range f.orders {
		st.TotalOrders++
		st.TotalRevenue = st.TotalRevenue.Add(o.TotalAmount)
		if o.PaymentStatus == models.PaymentPaid {
			st.PaidRevenue = st.PaidRevenue.Add(o.TotalAmount)
		}
		days[o.CreatedAt.Format(DateLayout)] = true
		if st.LastOrderDate == nil || o.CreatedAt.After(*st.LastOrderDate) {
			t := o.CreatedAt
			st.LastOrderDate = &t
		}
	}
	st.DaysWithOrders = int64(len(days))
	return st, nil
}

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[uint]*models.User
	nextID  uint
	touched []uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*models.User{}}
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperr.ErrConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.LastLoginAt = &at
	f.touched = append(f.touched, id)
	return nil
}

func strPtr(s string) *string { return &s }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func decStr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
