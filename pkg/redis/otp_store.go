package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// ErrNoRecord is returned when no OTP record exists for a phone.
var ErrNoRecord = errors.New("otp record not found")

// OTPRecord holds the passcode state stored per phone. The code itself
// is a bcrypt hash, and the whole record is encrypted before it reaches
// Redis.
type OTPRecord struct {
	CodeHash  string    `json:"codeHash"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OTPStore keeps encrypted OTP records in Redis, keyed by phone.
// The Redis TTL is set to twice the logical window so a verify attempt
// shortly after expiry can still report Expired instead of NotFound.
type OTPStore struct {
	encryptionKey []byte
}

var (
	setValue = Set
	getValue = Get
	delValue = Del
)

// NewOTPStore creates a new OTP store
func NewOTPStore(encryptionKeyHex string) (*OTPStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &OTPStore{encryptionKey: key}, nil
}

// Put stores an encrypted record, overwriting any previous one for the
// phone.
func (s *OTPStore) Put(ctx context.Context, phone string, record *OTPRecord, window time.Duration) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return err
	}

	encrypted, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}

	return setValue(ctx, "otp:"+phone, encrypted, 2*window)
}

// Get retrieves and decrypts the record for a phone.
func (s *OTPStore) Get(ctx context.Context, phone string) (*OTPRecord, error) {
	encrypted, err := getValue(ctx, "otp:"+phone)
	if err != nil {
		if IsNil(err) {
			return nil, ErrNoRecord
		}
		return nil, err
	}

	decrypted, err := s.decrypt(encrypted)
	if err != nil {
		return nil, err
	}

	var record OTPRecord
	if err := json.Unmarshal(decrypted, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes the record for a phone.
func (s *OTPStore) Delete(ctx context.Context, phone string) error {
	return delValue(ctx, "otp:"+phone)
}

func (s *OTPStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *OTPStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
