package memory

import (
	"context"
	"time"

	"catalog-api/internal/data/entity"

	"github.com/google/uuid"
)

type codeRepo struct{ s *Store }

func (r *codeRepo) Create(_ context.Context, code *entity.ConfirmationCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[code.UserID]; !ok {
		return missingReference("confirmation_codes_user_id_fkey")
	}
	r.s.codes[code.ID] = *code
	return nil
}

func (r *codeRepo) FindLatestValid(_ context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := time.Now()
	var latest *entity.ConfirmationCode
	for _, code := range r.s.codes {
		if code.UserID != userID || code.IsUsed || !code.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || code.CreatedAt.After(latest.CreatedAt) {
			c := code
			latest = &c
		}
	}
	return latest, nil
}

func (r *codeRepo) MarkAsUsed(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	code, ok := r.s.codes[id]
	if !ok || code.IsUsed {
		return false, nil
	}
	code.IsUsed = true
	r.s.codes[id] = code
	return true, nil
}

func (r *codeRepo) InvalidateForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, code := range r.s.codes {
		if code.UserID == userID && !code.IsUsed {
			code.IsUsed = true
			r.s.codes[id] = code
		}
	}
	return nil
}
