package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	c := copyUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.users[c.ID] = c
	return copyUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, email, role string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name, u.Email, u.Role = name, email, role
	return copyUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, digest string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.HasValidResetToken(digest, now) {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, digest string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = digest, exp
	return nil
}

func (r *stubUserRepo) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = "", time.Time{}
	return nil
}

func (r *stubUserRepo) ConsumeResetToken(_ context.Context, id, digest string, now time.Time, hash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || !u.HasValidResetToken(digest, now) {
		return nil, domain.ErrResetTokenInvalid
	}
	u.PasswordHash = hash
	u.ResetPasswordToken, u.ResetPasswordExpire = "", time.Time{}
	return copyUser(u), nil
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyUser(r.users[id])
}

type stubMailer struct {
	err  error
	sent []ports.EmailMessage
}

func (m *stubMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubNotifier struct {
	queued []ports.EmailMessage
}

func (n *stubNotifier) Notify(msg ports.EmailMessage) {
	n.queued = append(n.queued, msg)
}

// resetLink pulls the token out of the last reset email body.
func resetLink(m *stubMailer, base string) string {
	body := m.sent[len(m.sent)-1].Text
	i := strings.Index(body, base+"/")
	if i < 0 {
		return ""
	}
	rest := body[i+len(base)+1:]
	if j := strings.IndexAny(rest, "\n "); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

type stubProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]*domain.Product
	// conflicts forces that many SaveReviews calls to lose the version race.
	conflicts int
	saves     int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func copyProduct(p *domain.Product) *domain.Product {
	c := *p
	c.Reviews = append([]domain.Review(nil), p.Reviews...)
	c.Category = nil
	return &c
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := copyProduct(p)
	c.ID = fmt.Sprintf("p%d", r.seq)
	r.products[c.ID] = c
	return copyProduct(c), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (r *stubProductRepo) sorted() []*domain.Product {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubProductRepo) Find(_ context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	matched := make([]*domain.Product, 0)
	for _, p := range all {
		if q.Keyword == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Keyword)) {
			matched = append(matched, p)
		}
	}
	start := int(q.Offset())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(q.Limit())
	if end > len(matched) {
		end = len(matched)
	}
	return &domain.ProductPage{
		Products:      matched[start:end],
		TotalCount:    int64(len(all)),
		FilteredCount: int64(len(matched)),
		PageSize:      int(q.Limit()),
	}, nil
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	r.products[p.ID] = copyProduct(p)
	return copyProduct(p), nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) SaveReviews(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	stored, ok := r.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if r.conflicts > 0 {
		r.conflicts--
		stored.Version++
	}
	if stored.Version != p.Version {
		return domain.ErrReviewConflict
	}
	stored.Reviews = append([]domain.Review(nil), p.Reviews...)
	stored.NumOfReviews = p.NumOfReviews
	stored.Ratings = p.Ratings
	stored.Version++
	return nil
}

type stubCategoryRepo struct {
	mu      sync.Mutex
	seq     int
	cats    map[string]*domain.Category
	batches int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{cats: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cats {
		if existing.Name == c.Name {
			return nil, domain.ErrCategoryExists
		}
	}
	r.seq++
	cp := *c
	cp.ID = fmt.Sprintf("c%d", r.seq)
	r.cats[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCategoryRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
	out := make(map[string]*domain.Category)
	for _, id := range ids {
		if c, ok := r.cats[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.cats))
	for _, c := range r.cats {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var errSMTPDown = errors.New("smtp down")
