package repositories

import (
	"context"

	"github.com/charry07/lavaca-app/internal/domain/entities"
)

// OTPRepository defines one-time passcode storage, keyed by phone.
// Put overwrites any previous entry for the phone.
type OTPRepository interface {
	Put(ctx context.Context, entry *entities.OTPEntry) error
	Get(ctx context.Context, phone string) (*entities.OTPEntry, error)
	MarkVerified(ctx context.Context, phone string) error
	Delete(ctx context.Context, phone string) error
}
