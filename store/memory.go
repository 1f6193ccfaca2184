package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fintrack/models"
)

// MemoryStore 进程内存储，用于本地体验与测试
// 重名判断不区分大小写，与 MySQL 默认排序规则保持一致
type MemoryStore struct {
	mu           sync.Mutex
	now          func() time.Time
	nextID       uint
	users        map[uint]models.User
	categories   map[uint]models.Category
	transactions map[uint]models.Transaction
	profiles     map[uint]models.Profile
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储并写入系统类别
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		now:          time.Now,
		users:        make(map[uint]models.User),
		categories:   make(map[uint]models.Category),
		transactions: make(map[uint]models.Transaction),
		profiles:     make(map[uint]models.Profile),
	}
	for _, c := range models.SystemCategories() {
		c := c
		_ = s.CreateCategory(context.Background(), &c)
	}
	return s
}

// SetClock 替换时钟，测试中用于控制录入时间
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

// ---------- 用户 ----------

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return ErrDuplicate
		}
	}
	now := s.now()
	u.ID = s.id()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) FindUserByLogin(_ context.Context, login string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == login || (u.Email != "" && u.Email == login) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdatePassword(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

// ---------- 类别 ----------

func (s *MemoryStore) ListCategories(_ context.Context, userID uint, taxonomy models.Taxonomy) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if !c.VisibleTo(userID) {
			continue
		}
		if taxonomy != "" && c.Taxonomy != taxonomy {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Taxonomy == c.Taxonomy && strings.EqualFold(existing.Name, c.Name) {
			return ErrDuplicate
		}
	}
	c.ID = s.id()
	c.CreatedAt = s.now()
	if c.OwnerID != nil {
		owner := *c.OwnerID
		c.OwnerID = &owner
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) CategoryUsage(_ context.Context, id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.transactions {
		if t.TypeID == id || t.CategoryID == id {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UsageCounts(_ context.Context, userID uint) (map[uint]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[uint]int64)
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		counts[t.TypeID]++
		counts[t.CategoryID]++
	}
	return counts, nil
}

// ---------- 交易 ----------

func (s *MemoryStore) match(t models.Transaction, f TransactionFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.From != nil && t.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && t.Date.After(*f.To) {
		return false
	}
	if f.CreatedAfter != nil && !t.CreatedAt.After(*f.CreatedAfter) {
		return false
	}
	return true
}

func (s *MemoryStore) ListTransactions(_ context.Context, f TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Transaction, 0)
	for _, t := range s.transactions {
		if !s.match(t, f) {
			continue
		}
		if c, ok := s.categories[t.TypeID]; ok {
			t.Type = &c
		}
		if c, ok := s.categories[t.CategoryID]; ok {
			t.Category = &c
		}
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if f.Limit > 0 {
		if f.Offset >= len(list) {
			return []models.Transaction{}, nil
		}
		end := f.Offset + f.Limit
		if end > len(list) {
			end = len(list)
		}
		list = list[f.Offset:end]
	}
	return list, nil
}

func (s *MemoryStore) CountTransactions(_ context.Context, f TransactionFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.transactions {
		if s.match(t, f) {
			n++
		}
	}
	return n, nil
}

// checkRefs 模拟外键约束
func (s *MemoryStore) checkRefs(t models.Transaction) error {
	if _, ok := s.categories[t.TypeID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.categories[t.CategoryID]; !ok {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) insert(t *models.Transaction) {
	t.ID = s.id()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	row := *t
	row.Type, row.Category = nil, nil
	s.transactions[t.ID] = row
}

func (s *MemoryStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRefs(*t); err != nil {
		return err
	}
	s.insert(t)
	return nil
}

func (s *MemoryStore) CreateTransactions(_ context.Context, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txs {
		if err := s.checkRefs(t); err != nil {
			return err
		}
	}
	for i := range txs {
		s.insert(&txs[i])
	}
	return nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

// ---------- 设置 ----------

func (s *MemoryStore) GetProfile(_ context.Context, userID uint) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) UpsertProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	s.profiles[p.UserID] = *p
	return nil
}
