package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type userRepo struct{ s *Store }

func (r *userRepo) checkUniqueLocked(user *entity.User) error {
	for _, other := range r.s.users {
		if other.ID == user.ID {
			continue
		}
		if other.Username == user.Username {
			return conflict("users_username_key")
		}
		if other.Email == user.Email {
			return conflict("users_email_key")
		}
	}
	return nil
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepo) findBy(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := lo.Find(lo.Values(r.s.users), match)
	if !ok {
		return nil
	}
	return &user
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *userRepo) matching(search string) []entity.User {
	needle := strings.ToLower(search)
	users := lo.Filter(lo.Values(r.s.users), func(u entity.User, _ int) bool {
		return needle == "" || strings.Contains(strings.ToLower(u.Username), needle)
	})
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r *userRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := paginate(r.matching(search), limit, offset)
	return lo.Map(users, func(u entity.User, _ int) *entity.User { return &u }), nil
}

func (r *userRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.matching(search))), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return utils.NotFound("user")
	}
	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}

	// superuser flag and last login are not written by Update
	updated := *user
	updated.IsSuperuser = current.IsSuperuser
	updated.LastLogin = current.LastLogin
	updated.CreatedAt = current.CreatedAt
	r.s.users[user.ID] = updated
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return utils.NotFound("user")
	}
	r.s.deleteUserLocked(id)
	return nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return utils.NotFound("user")
	}
	user.LastLogin = &at
	r.s.users[id] = user
	return nil
}
