package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/pkg/redis"
)

// OTPRepository implements passcode storage on the encrypted Redis store
type OTPRepository struct {
	store  *redis.OTPStore
	window time.Duration
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(store *redis.OTPStore, window time.Duration) *OTPRepository {
	return &OTPRepository{store: store, window: window}
}

// Put stores an entry, overwriting any previous one for the phone
func (r *OTPRepository) Put(ctx context.Context, entry *entities.OTPEntry) error {
	return r.store.Put(ctx, entry.Phone, &redis.OTPRecord{
		CodeHash:  entry.CodeHash,
		Verified:  entry.Verified,
		ExpiresAt: entry.ExpiresAt,
	}, r.window)
}

// Get retrieves the entry for a phone
func (r *OTPRepository) Get(ctx context.Context, phone string) (*entities.OTPEntry, error) {
	record, err := r.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, redis.ErrNoRecord) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.OTPEntry{
		Phone:     phone,
		CodeHash:  record.CodeHash,
		Verified:  record.Verified,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// MarkVerified flags the entry so registration can consume it
func (r *OTPRepository) MarkVerified(ctx context.Context, phone string) error {
	entry, err := r.Get(ctx, phone)
	if err != nil {
		return err
	}
	entry.Verified = true
	return r.Put(ctx, entry)
}

// Delete removes the entry for a phone
func (r *OTPRepository) Delete(ctx context.Context, phone string) error {
	return r.store.Delete(ctx, phone)
}
