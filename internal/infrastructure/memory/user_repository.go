// Package memory is a process-local UserRepository used for local runs without
// Postgres and as the store behind service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/secure-users-api/internal/domain/entity"
	"github.com/oksasatya/secure-users-api/internal/domain/repository"
)

type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]entity.User
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]entity.User), now: monotonicNow()}
}

// monotonicNow never returns the same instant twice, so updated_at always moves forward.
func monotonicNow() func() time.Time {
	var mu sync.Mutex
	var last time.Time
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := time.Now().UTC()
		if !t.After(last) {
			t = last.Add(time.Microsecond)
		}
		last = t
		return t
	}
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail(email); ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail(u.Email); taken {
		return repository.ErrDuplicateEmail
	}
	r.nextID++
	now := r.now()
	u.ID, u.CreatedAt, u.UpdatedAt = r.nextID, now, now
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if other, taken := r.byEmail(u.Email); taken && other.ID != u.ID {
		return repository.ErrDuplicateEmail
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.now()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Patch(_ context.Context, id int64, changes repository.Changes) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	touched := false
	for _, f := range repository.UpdatableFields {
		v, ok := changes[f]
		if !ok {
			continue
		}
		touched = true
		switch f {
		case repository.FieldName:
			u.Name = v
		case repository.FieldEmail:
			if other, taken := r.byEmail(v); taken && other.ID != id {
				return nil, repository.ErrDuplicateEmail
			}
			u.Email = v
		case repository.FieldPhone:
			u.Phone = v
		case repository.FieldAddress:
			u.Address = v
		case repository.FieldCity:
			u.City = v
		case repository.FieldCountry:
			u.Country = v
		}
	}
	if !touched {
		return nil, repository.ErrNoChanges
	}
	u.UpdatedAt = r.now()
	r.users[id] = u
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) byEmail(email string) (entity.User, bool) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return entity.User{}, false
}

var _ repository.UserRepository = (*UserRepository)(nil)
