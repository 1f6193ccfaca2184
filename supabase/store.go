package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fintrack/models"
	"fintrack/store"
)

const (
	tableUsers        = "users"
	tableCategories   = "categories"
	tableTransactions = "transactions"
	tableProfiles     = "profiles"

	transactionSelect = "*,type:categories!type_id(*),category:categories!category_id(*)"

	preferRepresentation = "return=representation"
	preferCount          = "count=exact"
	preferUpsert         = "resolution=merge-duplicates,return=representation"
)

var _ store.Store = (*Client)(nil)

// ---------- 用户 ----------

func (c *Client) CreateUser(ctx context.Context, u *models.User) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		table:   tableUsers,
		payload: userInsert{Username: u.Username, Password: u.Password, Email: u.Email},
		prefer:  preferRepresentation,
	})
	if err != nil {
		return err
	}
	rows, err := decode[userRow](resp)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: insert into %s returned no rows", tableUsers)
	}
	*u = rows[0].model()
	return nil
}

func (c *Client) GetUser(ctx context.Context, id uint) (_ *models.User, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUser")
	defer func() { finish(span, err) }()

	return c.findUser(ctx, url.Values{"id": {eq(id)}})
}

func (c *Client) FindUserByLogin(ctx context.Context, login string) (_ *models.User, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.FindUserByLogin")
	defer func() { finish(span, err) }()

	q := quote(login)
	return c.findUser(ctx, url.Values{"or": {fmt.Sprintf("(username.eq.%s,email.eq.%s)", q, q)}})
}

func (c *Client) findUser(ctx context.Context, q url.Values) (*models.User, error) {
	q.Set("select", "*")
	q.Set("limit", "1")
	resp, err := c.do(ctx, request{method: http.MethodGet, table: tableUsers, query: q})
	if err != nil {
		return nil, err
	}
	rows, err := decode[userRow](resp)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	u := rows[0].model()
	return &u, nil
}

func (c *Client) UpdatePassword(ctx context.Context, id uint, hash string) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePassword")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method:  http.MethodPatch,
		table:   tableUsers,
		query:   url.Values{"id": {eq(id)}},
		payload: map[string]any{"password": hash, "updated_at": time.Now().UTC()},
		prefer:  preferRepresentation,
	})
	if err != nil {
		return err
	}
	rows, err := decode[userRow](resp)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------- 类别 ----------

func (c *Client) ListCategories(ctx context.Context, userID uint, taxonomy models.Taxonomy) (_ []models.Category, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCategories")
	defer func() { finish(span, err) }()

	q := url.Values{
		"select": {"*"},
		"or":     {fmt.Sprintf("(owner_id.is.null,owner_id.eq.%d)", userID)},
		"order":  {"name.asc"},
	}
	if taxonomy != "" {
		q.Set("type", eq(taxonomy))
	}
	resp, err := c.do(ctx, request{method: http.MethodGet, table: tableCategories, query: q})
	if err != nil {
		return nil, err
	}
	rows, err := decode[categoryRow](resp)
	if err != nil {
		return nil, err
	}
	cats := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, r.model())
	}
	return cats, nil
}

func (c *Client) GetCategory(ctx context.Context, id uint) (_ *models.Category, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCategory")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		table:  tableCategories,
		query:  url.Values{"select": {"*"}, "id": {eq(id)}, "limit": {"1"}},
	})
	if err != nil {
		return nil, err
	}
	rows, err := decode[categoryRow](resp)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	cat := rows[0].model()
	return &cat, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat *models.Category) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCategory")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		table:  tableCategories,
		payload: categoryInsert{
			Name:    cat.Name,
			Type:    cat.Taxonomy,
			Role:    cat.Role,
			OwnerID: cat.OwnerID,
		},
		prefer: preferRepresentation,
	})
	if err != nil {
		return err
	}
	rows, err := decode[categoryRow](resp)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: insert into %s returned no rows", tableCategories)
	}
	*cat = rows[0].model()
	return nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCategory")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method: http.MethodDelete,
		table:  tableCategories,
		query:  url.Values{"id": {eq(id)}},
		prefer: preferRepresentation,
	})
	if err != nil {
		return err
	}
	rows, err := decode[categoryRow](resp)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Client) CategoryUsage(ctx context.Context, id uint) (_ int64, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.CategoryUsage")
	defer func() { finish(span, err) }()

	return c.count(ctx, tableTransactions, url.Values{
		"or": {fmt.Sprintf("(type_id.eq.%d,category_id.eq.%d)", id, id)},
	})
}

// UsageCounts PostgREST 默认不开放聚合，取两列在本地计数
func (c *Client) UsageCounts(ctx context.Context, userID uint) (_ map[uint]int64, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.UsageCounts")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		table:  tableTransactions,
		query:  url.Values{"select": {"type_id,category_id"}, "user_id": {eq(userID)}},
	})
	if err != nil {
		return nil, err
	}
	rows, err := decode[struct {
		TypeID     uint `json:"type_id"`
		CategoryID uint `json:"category_id"`
	}](resp)
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64)
	for _, r := range rows {
		counts[r.TypeID]++
		counts[r.CategoryID]++
	}
	return counts, nil
}

// ---------- 交易 ----------

func transactionQuery(f store.TransactionFilter) url.Values {
	q := url.Values{"user_id": {eq(f.UserID)}}
	if f.From != nil {
		q.Add("date", "gte."+f.From.Format(models.DateLayout))
	}
	if f.To != nil {
		q.Add("date", "lte."+f.To.Format(models.DateLayout))
	}
	if f.CreatedAfter != nil {
		q.Set("created_at", "gt."+f.CreatedAfter.UTC().Format(time.RFC3339Nano))
	}
	return q
}

func (c *Client) ListTransactions(ctx context.Context, f store.TransactionFilter) (_ []models.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer func() { finish(span, err) }()

	q := transactionQuery(f)
	q.Set("select", transactionSelect)
	q.Set("order", "date.desc,created_at.desc,id.desc")
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	resp, err := c.do(ctx, request{method: http.MethodGet, table: tableTransactions, query: q})
	if err != nil {
		return nil, err
	}
	rows, err := decode[transactionRow](resp)
	if err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.model()
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func (c *Client) CountTransactions(ctx context.Context, f store.TransactionFilter) (_ int64, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountTransactions")
	defer func() { finish(span, err) }()

	return c.count(ctx, tableTransactions, transactionQuery(f))
}

// count 借助 Prefer: count=exact 从 Content-Range 读取总数
func (c *Client) count(ctx context.Context, table string, q url.Values) (int64, error) {
	q.Set("select", "id")
	q.Set("limit", "1")
	resp, err := c.do(ctx, request{method: http.MethodGet, table: table, query: q, prefer: preferCount})
	if err != nil {
		return 0, err
	}
	return totalCount(resp.header)
}

func (c *Client) CreateTransaction(ctx context.Context, t *models.Transaction) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer func() { finish(span, err) }()

	rows, err := c.insertTransactions(ctx, []transactionInsert{newTransactionInsert(*t)})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: insert into %s returned no rows", tableTransactions)
	}
	t.ID = rows[0].ID
	t.CreatedAt = rows[0].CreatedAt
	return nil
}

// CreateTransactions 一次 POST 写入整个数组，PostgREST 在单条语句中完成
func (c *Client) CreateTransactions(ctx context.Context, txs []models.Transaction) (err error) {
	if len(txs) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransactions")
	defer func() { finish(span, err) }()

	payload := make([]transactionInsert, 0, len(txs))
	for _, t := range txs {
		payload = append(payload, newTransactionInsert(t))
	}
	rows, err := c.insertTransactions(ctx, payload)
	if err != nil {
		return err
	}
	for i := range rows {
		if i < len(txs) {
			txs[i].ID = rows[i].ID
			txs[i].CreatedAt = rows[i].CreatedAt
		}
	}
	return nil
}

func (c *Client) insertTransactions(ctx context.Context, payload []transactionInsert) ([]transactionRow, error) {
	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		table:   tableTransactions,
		payload: payload,
		prefer:  preferRepresentation,
	})
	if err != nil {
		return nil, err
	}
	return decode[transactionRow](resp)
}

func (c *Client) DeleteTransaction(ctx context.Context, userID, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method: http.MethodDelete,
		table:  tableTransactions,
		query:  url.Values{"id": {eq(id)}, "user_id": {eq(userID)}},
		prefer: preferRepresentation,
	})
	if err != nil {
		return err
	}
	rows, err := decode[transactionRow](resp)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------- 用户设置 ----------

func (c *Client) GetProfile(ctx context.Context, userID uint) (_ *models.Profile, err error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProfile")
	defer func() { finish(span, err) }()

	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		table:  tableProfiles,
		query:  url.Values{"select": {"*"}, "id": {eq(userID)}, "limit": {"1"}},
	})
	if err != nil {
		return nil, err
	}
	rows, err := decode[profileRow](resp)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	p := rows[0].model()
	return &p, nil
}

func (c *Client) UpsertProfile(ctx context.Context, p *models.Profile) (err error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertProfile")
	defer func() { finish(span, err) }()

	p.UpdatedAt = time.Now().UTC()
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		table:  tableProfiles,
		query:  url.Values{"on_conflict": {"id"}},
		payload: profileRow{
			ID:               p.UserID,
			Currency:         p.Currency,
			InitialBalance:   p.InitialBalance,
			BalanceUpdatedAt: p.BalanceUpdatedAt,
			UpdatedAt:        p.UpdatedAt,
		},
		prefer: preferUpsert,
	})
	if err != nil {
		return err
	}
	rows, err := decode[profileRow](resp)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		*p = rows[0].model()
	}
	return nil
}
