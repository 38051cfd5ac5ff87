package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
)

type snapshotter interface {
	snapshot() func()
}

// fakeTr откатывает состояние зарегистрированных хранилищ, если fn вернула ошибку.
type fakeTr struct {
	stores []snapshotter
}

func (f *fakeTr) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(f.stores))
	for _, s := range f.stores {
		restores = append(restores, s.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}

	return nil
}

type memCategoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Category
	err    error
	// afterList вызывается после чтения списка, чтобы вклинить конкурентную запись.
	afterList func()
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{items: make(map[int64]domain.Category)}
}

func (m *memCategoryRepo) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[int64]domain.Category, len(m.items))
	for id, c := range m.items {
		saved[id] = c
	}
	nextID := m.nextID

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.items = saved
		m.nextID = nextID
	}
}

func (m *memCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	result, err := m.list(ctx)
	if hook := m.afterList; hook != nil && err == nil {
		m.afterList = nil
		hook()
	}

	return result, err
}

func (m *memCategoryRepo) list(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	result := make([]domain.Category, 0, len(m.items))
	for _, c := range m.items {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UsedCount != result[j].UsedCount {
			return result[i].UsedCount > result[j].UsedCount
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (m *memCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}

	return &c, nil
}

func (m *memCategoryRepo) LockByID(ctx context.Context, id int64) (*domain.Category, error) {
	return m.GetByID(ctx, id)
}

func (m *memCategoryRepo) ExistsByName(_ context.Context, name string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.items {
		if c.Name == name && id != excludeID {
			return true, nil
		}
	}

	return false, nil
}

func (m *memCategoryRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			result = append(result, id)
		}
	}

	return result, nil
}

func (m *memCategoryRepo) IsDescendant(_ context.Context, ancestorID int64, candidateID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.items[candidateID]
	for ok && current.Parent != nil {
		if *current.Parent == ancestorID {
			return true, nil
		}
		current, ok = m.items[*current.Parent]
	}

	return false, nil
}

func (m *memCategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	c := *category
	c.ID = m.nextID
	c.UsedCount = 0
	c.ParentFor = 0
	c.CreatedAt = time.Now()
	m.items[c.ID] = c

	return &c, nil
}

func (m *memCategoryRepo) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[category.ID]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	c.Name = category.Name
	c.Description = category.Description
	c.Parent = category.Parent
	c.Properties = category.Properties
	now := time.Now()
	c.UpdatedAt = &now
	m.items[c.ID] = c

	return &c, nil
}

func (m *memCategoryRepo) Delete(_ context.Context, id int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	delete(m.items, id)

	for childID, child := range m.items {
		if child.Parent != nil && *child.Parent == id {
			child.Parent = nil
			m.items[childID] = child
		}
	}

	return &c, nil
}

func (m *memCategoryRepo) AdjustUsage(_ context.Context, id int64, delta int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	c.UsedCount = max(c.UsedCount+delta, 0)
	m.items[id] = c

	return &c, nil
}

func (m *memCategoryRepo) RefreshParentFor(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok {
		return nil
	}

	var children int64
	for _, child := range m.items {
		if child.Parent != nil && *child.Parent == id {
			children++
		}
	}
	c.ParentFor = children
	m.items[id] = c

	return nil
}

type memProductRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Product
	locked []int64
	// afterGet вызывается после чтения товара из хранилища.
	afterGet func()
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[int64]domain.Product)}
}

func (m *memProductRepo) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[int64]domain.Product, len(m.items))
	for id, p := range m.items {
		saved[id] = p
	}
	nextID := m.nextID

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.items = saved
		m.nextID = nextID
	}
}

func (m *memProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	p := *product
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	m.items[p.ID] = p

	return &p, nil
}

func (m *memProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.items[product.ID]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	p := *product
	p.CreatedAt = current.CreatedAt
	p.Sold = current.Sold
	m.items[p.ID] = p

	return &p, nil
}

func (m *memProductRepo) Delete(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.items[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	delete(m.items, id)

	return &p, nil
}

func (m *memProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := m.get(ctx, id)
	if hook := m.afterGet; hook != nil && err == nil {
		m.afterGet = nil
		hook()
	}

	return p, err
}

func (m *memProductRepo) LockByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	m.locked = append(m.locked, id)
	m.mu.Unlock()

	return m.get(ctx, id)
}

func (m *memProductRepo) get(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.items[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	return &p, nil
}

func (m *memProductRepo) List(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Product, 0, len(m.items))
	for _, p := range m.items {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	return result, nil
}

func (m *memProductRepo) ListByCategory(_ context.Context, categoryID int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Product, 0)
	for _, p := range m.items {
		for _, id := range p.Categories {
			if id == categoryID {
				result = append(result, p)
				break
			}
		}
	}

	return result, nil
}

type memOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
	err    error
}

func (m *memOutboxRepo) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := append([]*OutboxEvent(nil), m.events...)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.events = saved
	}
}

func (m *memOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)

	return event, nil
}

func (m *memOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*OutboxEvent, 0, limit)
	for _, event := range m.events {
		if len(result) == limit {
			break
		}
		if event.Status == OutboxStatusPending {
			event.Status = OutboxStatusProcessing
			result = append(result, event)
		}
	}

	return result, nil
}

func (m *memOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, event := range m.events {
		if event.ID == id {
			event.Status = OutboxStatusProcessed
		}
	}

	return nil
}

func (m *memOutboxRepo) MarkAsFailed(_ context.Context, id int64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, event := range m.events {
		if event.ID == id {
			event.Status = OutboxStatusFailed
		}
	}

	return nil
}

func (m *memOutboxRepo) ReleaseStale(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func (m *memOutboxRepo) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, 0, len(m.events))
	for _, event := range m.events {
		result = append(result, event.EventType)
	}

	return result
}

type memCache struct {
	mu                sync.Mutex
	categories        []domain.Category
	categoriesVersion int64
	products          map[int64]domain.Product
	productsVersion   int64
	categoryDeletions int
	getErr            error
}

func newMemCache() *memCache {
	return &memCache{products: make(map[int64]domain.Product)}
}

func (m *memCache) GetCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.categories == nil {
		return nil, e.ErrCacheMiss
	}

	return append([]domain.Category(nil), m.categories...), nil
}

func (m *memCache) CategoriesVersion(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.categoriesVersion, m.getErr
}

func (m *memCache) SetCategories(_ context.Context, version int64, categories []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version != m.categoriesVersion {
		return nil
	}
	m.categories = append([]domain.Category{}, categories...)
	return nil
}

func (m *memCache) DeleteCategories(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = nil
	m.categoriesVersion++
	m.categoryDeletions++
	return nil
}

func (m *memCache) GetProducts(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}

	result := make(map[int64]domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			result[id] = p
		}
	}

	return result, nil
}

func (m *memCache) ProductsVersion(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productsVersion, m.getErr
}

func (m *memCache) SetProducts(_ context.Context, version int64, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version != m.productsVersion {
		return nil
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

func (m *memCache) DeleteProducts(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.products, id)
	}
	m.productsVersion++
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo(users ...domain.User) *memUserRepo {
	m := &memUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *memUserRepo) ListByRoles(_ context.Context, roles []string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.User, 0)
	for _, u := range m.users {
		for _, role := range roles {
			if u.Role == role {
				result = append(result, u)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })

	return result, nil
}

func (m *memUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })

	return result, nil
}

func (m *memUserRepo) SetRole(_ context.Context, email string, role string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[email]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	u.Role = role
	m.users[email] = u

	return &u, nil
}

func (m *memUserRepo) Upsert(_ context.Context, identity *domain.Identity) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[identity.Email]
	if !ok {
		u = domain.User{ID: int64(len(m.users) + 1), Email: identity.Email, Role: domain.RoleUser}
	}
	u.Name = identity.Name
	u.Image = identity.Picture
	m.users[identity.Email] = u

	return &u, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]domain.Session)}
}

func (m *memSessionRepo) Create(_ context.Context, session *domain.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, e.ErrUnauthenticated
	}

	return &s, nil
}

func (m *memSessionRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
