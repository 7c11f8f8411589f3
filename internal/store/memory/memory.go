// Package memory provides an in-memory store implementation. It backs the
// test suites and local runs without a database; the semantics mirror the
// arango implementation, including newest-first ordering on audit reads.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

// New returns a store backed by process memory.
func New() store.Store {
	s := &state{
		users:    make(map[string]*model.User),
		clients:  make(map[string]*model.Client),
		programs: make(map[string]*model.Program),
	}
	return store.Store{
		Users:       &users{state: s},
		Clients:     &clients{state: s},
		Programs:    &programs{state: s},
		ResetTokens: &resets{state: s},
		Audit:       &audit{state: s},
	}
}

type state struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*model.User
	clients  map[string]*model.Client
	programs map[string]*model.Program
	resets   []*model.PasswordResetToken
	admins   []model.AdminCreationLog
	accesses []model.ClientAccessLog
}

func (s *state) nextKey() string {
	s.seq++
	return strconv.Itoa(s.seq)
}

type users struct{ state *state }

func (u *users) Create(_ context.Context, usr *model.User) (*model.User, error) {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	for _, existing := range u.state.users {
		if strings.EqualFold(existing.Email, usr.Email) {
			return nil, store.ErrDuplicateEmail
		}
	}
	usr.Key = u.state.nextKey()
	cp := *usr
	u.state.users[usr.Key] = &cp
	return usr, nil
}

func (u *users) GetByKey(_ context.Context, key string) (*model.User, error) {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	usr, ok := u.state.users[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *usr
	return &cp, nil
}

func (u *users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	for _, usr := range u.state.users {
		if strings.EqualFold(usr.Email, email) {
			cp := *usr
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (u *users) Update(_ context.Context, usr *model.User) error {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	if _, ok := u.state.users[usr.Key]; !ok {
		return store.ErrNotFound
	}
	cp := *usr
	u.state.users[usr.Key] = &cp
	return nil
}

func (u *users) CountByRole(_ context.Context, role model.Role) (int, error) {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	count := 0
	for _, usr := range u.state.users {
		if usr.Role == role {
			count++
		}
	}
	return count, nil
}

type clients struct{ state *state }

func (c *clients) Create(_ context.Context, cl *model.Client) (*model.Client, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	for _, existing := range c.state.clients {
		if strings.EqualFold(existing.Email, cl.Email) {
			return nil, store.ErrDuplicateEmail
		}
	}
	cl.Key = c.state.nextKey()
	cp := *cl
	c.state.clients[cl.Key] = &cp
	return cl, nil
}

func (c *clients) GetByKey(_ context.Context, key string) (*model.Client, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	cl, ok := c.state.clients[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *cl
	return &cp, nil
}

func (c *clients) List(_ context.Context) ([]model.Client, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	out := make([]model.Client, 0, len(c.state.clients))
	for _, cl := range c.state.clients {
		out = append(out, *cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (c *clients) Update(_ context.Context, cl *model.Client) error {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	if _, ok := c.state.clients[cl.Key]; !ok {
		return store.ErrNotFound
	}
	cp := *cl
	c.state.clients[cl.Key] = &cp
	return nil
}

func (c *clients) Delete(_ context.Context, key string) error {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	if _, ok := c.state.clients[key]; !ok {
		return store.ErrNotFound
	}
	delete(c.state.clients, key)
	return nil
}

func (c *clients) Count(_ context.Context) (int, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return len(c.state.clients), nil
}

func (c *clients) CountByProgram(_ context.Context) (map[string]int, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	counts := make(map[string]int)
	for _, cl := range c.state.clients {
		if cl.ProgramKey != "" {
			counts[cl.ProgramKey]++
		}
	}
	return counts, nil
}

type programs struct{ state *state }

func (p *programs) Create(_ context.Context, pr *model.Program) (*model.Program, error) {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	pr.Key = p.state.nextKey()
	cp := *pr
	p.state.programs[pr.Key] = &cp
	return pr, nil
}

func (p *programs) GetByKey(_ context.Context, key string) (*model.Program, error) {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	pr, ok := p.state.programs[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (p *programs) List(_ context.Context) ([]model.Program, error) {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	out := make([]model.Program, 0, len(p.state.programs))
	for _, pr := range p.state.programs {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *programs) Update(_ context.Context, pr *model.Program) error {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	if _, ok := p.state.programs[pr.Key]; !ok {
		return store.ErrNotFound
	}
	cp := *pr
	p.state.programs[pr.Key] = &cp
	return nil
}

func (p *programs) Delete(_ context.Context, key string) error {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	if _, ok := p.state.programs[key]; !ok {
		return store.ErrNotFound
	}
	delete(p.state.programs, key)
	return nil
}

func (p *programs) Count(_ context.Context, status string) (int, error) {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	if status == "" {
		return len(p.state.programs), nil
	}
	count := 0
	for _, pr := range p.state.programs {
		if pr.Status == status {
			count++
		}
	}
	return count, nil
}

type resets struct{ state *state }

func (r *resets) Create(_ context.Context, t *model.PasswordResetToken) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	t.Key = r.state.nextKey()
	cp := *t
	r.state.resets = append(r.state.resets, &cp)
	return nil
}

func (r *resets) LatestUnusedByCode(_ context.Context, email, code string) (*model.PasswordResetToken, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var latest *model.PasswordResetToken
	for _, t := range r.state.resets {
		if !strings.EqualFold(t.Email, email) || t.Code != code || t.Used {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *resets) GetUnusedByToken(_ context.Context, token string) (*model.PasswordResetToken, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, t := range r.state.resets {
		if t.Token == token && !t.Used {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *resets) MarkAllUsedForUser(_ context.Context, userKey string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, t := range r.state.resets {
		if t.UserKey == userKey {
			t.Used = true
		}
	}
	return nil
}

func (r *resets) MarkUsed(_ context.Context, key string) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, t := range r.state.resets {
		if t.Key == key {
			t.Used = true
			return nil
		}
	}
	return store.ErrNotFound
}

type audit struct{ state *state }

func (a *audit) AppendAdminCreation(_ context.Context, l *model.AdminCreationLog) error {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	l.Key = a.state.nextKey()
	a.state.admins = append(a.state.admins, *l)
	return nil
}

func (a *audit) ListAdminCreations(_ context.Context) ([]model.AdminCreationLog, error) {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	out := make([]model.AdminCreationLog, len(a.state.admins))
	copy(out, a.state.admins)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (a *audit) AppendClientAccess(_ context.Context, l *model.ClientAccessLog) error {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	l.Key = a.state.nextKey()
	a.state.accesses = append(a.state.accesses, *l)
	return nil
}

func (a *audit) ListClientAccess(_ context.Context, limit int) ([]model.ClientAccessLog, error) {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	out := make([]model.ClientAccessLog, len(a.state.accesses))
	copy(out, a.state.accesses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AccessedAt.After(out[j].AccessedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *audit) CountClientAccess(_ context.Context) (int, error) {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	return len(a.state.accesses), nil
}
