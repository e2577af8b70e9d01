package usecases

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/domain/repositories"
	"github.com/charry07/lavaca-app/pkg/crypto"
	"github.com/charry07/lavaca-app/pkg/jwt"
	"github.com/charry07/lavaca-app/pkg/logger"
)

// devBypassCode is accepted as a valid passcode when dev mode is on.
const devBypassCode = "123456"

var (
	phoneStripPattern = regexp.MustCompile(`[^0-9+]`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	usernamePattern   = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)
)

// AuthUsecase handles phone verification and registration
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	otpRepo    repositories.OTPRepository
	jwtService *jwt.JWTService
	otpExpiry  time.Duration
	devMode    bool

	// phoneMu serializes verify and register per phone so a passcode
	// cannot be consumed twice.
	phoneMu *keyedMutex
	now     func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	otpRepo repositories.OTPRepository,
	jwtService *jwt.JWTService,
	otpExpiry time.Duration,
	devMode bool,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		jwtService: jwtService,
		otpExpiry:  otpExpiry,
		devMode:    devMode,
		phoneMu:    newKeyedMutex(),
		now:        time.Now,
	}
}

// SendCode generates a passcode for the phone and stores it, replacing
// any previous one. Delivery is out of band; in dev mode the code is
// echoed back in the response.
func (u *AuthUsecase) SendCode(ctx context.Context, input *entities.SendCodeInput) (*entities.SendCodeResponse, error) {
	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	code, err := crypto.GenerateCode()
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	codeHash, err := crypto.HashCode(code)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	entry := &entities.OTPEntry{
		Phone:     phone,
		CodeHash:  codeHash,
		ExpiresAt: u.now().Add(u.otpExpiry),
	}
	if err := u.otpRepo.Put(ctx, entry); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("verification code issued", zap.String("phone", phone))

	resp := &entities.SendCodeResponse{Success: true}
	if u.devMode {
		resp.DevCode = code
	}
	return resp, nil
}

// VerifyCode checks the passcode for a phone. On success the entry is
// marked verified and, if a user already exists for the phone, tokens
// are issued (login path).
func (u *AuthUsecase) VerifyCode(ctx context.Context, input *entities.VerifyCodeInput) (*entities.VerifyCodeResponse, error) {
	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	u.phoneMu.Lock(phone)
	defer u.phoneMu.Unlock(phone)

	entry, err := u.otpRepo.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("no verification code for this phone")
		}
		return nil, err
	}

	if entry.Expired(u.now()) {
		// A dead code is useless: drop it so a later attempt reads
		// "no code" rather than "expired".
		if err := u.otpRepo.Delete(ctx, phone); err != nil {
			logger.WithContext(ctx).Warn("failed to delete expired verification code", zap.String("phone", phone), zap.Error(err))
		}
		return nil, domainerrors.Expired("verification code expired")
	}

	if !u.codeMatches(input.Code, entry.CodeHash) {
		return nil, domainerrors.InvalidCode("invalid verification code")
	}

	if err := u.otpRepo.MarkVerified(ctx, phone); err != nil {
		return nil, err
	}

	resp := &entities.VerifyCodeResponse{Verified: true}

	user, err := u.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return resp, nil
		}
		return nil, err
	}

	tokens, err := u.tokenPair(user)
	if err != nil {
		return nil, err
	}

	resp.IsRegistered = true
	resp.User = user
	resp.Tokens = tokens
	return resp, nil
}

// Register completes registration for a phone that passed verification
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if !usernamePattern.MatchString(username) {
		return nil, domainerrors.BadRequest("username must be 3-30 characters of a-z, 0-9, dots or underscores")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, domainerrors.BadRequest("displayName is required")
	}

	u.phoneMu.Lock(phone)
	defer u.phoneMu.Unlock(phone)

	entry, err := u.otpRepo.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Forbidden("phone not verified")
		}
		return nil, err
	}
	if !entry.Verified {
		return nil, domainerrors.Forbidden("phone not verified")
	}

	if _, err := u.userRepo.GetByPhone(ctx, phone); err == nil {
		return nil, domainerrors.Conflict("phone already registered")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	if _, err := u.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domainerrors.Conflict("username already taken")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	documentID := strings.TrimSpace(input.DocumentID)
	if documentID != "" {
		if _, err := u.userRepo.GetByDocumentID(ctx, documentID); err == nil {
			return nil, domainerrors.Conflict("document already registered")
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
	}

	now := u.now()
	user := &entities.User{
		ID:          uuid.New(),
		Phone:       phone,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Username:    username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if documentID != "" {
		user.DocumentID = null.StringFrom(documentID)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// The passcode is single-use: consume it.
	if err := u.otpRepo.Delete(ctx, phone); err != nil {
		logger.WithContext(ctx).Warn("failed to consume verification code", zap.String("phone", phone), zap.Error(err))
	}

	tokens, err := u.tokenPair(user)
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{User: user, Tokens: tokens}, nil
}

// GetUser fetches a user profile by ID
func (u *AuthUsecase) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// UpdateProfile edits the mutable profile fields
func (u *AuthUsecase) UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if displayName := strings.TrimSpace(input.DisplayName); displayName != "" {
		user.DisplayName = displayName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = null.StringFrom(*input.AvatarURL)
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *AuthUsecase) codeMatches(code, hash string) bool {
	if u.devMode && code == devBypassCode {
		return true
	}
	return crypto.CheckCode(code, hash)
}

func (u *AuthUsecase) tokenPair(user *entities.User) (*entities.TokenPair, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Phone, user.Username)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &entities.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// normalizePhone strips formatting characters and validates the result
func normalizePhone(raw string) (string, error) {
	phone := phoneStripPattern.ReplaceAllString(raw, "")
	if idx := strings.LastIndex(phone, "+"); idx > 0 {
		return "", domainerrors.BadRequest("invalid phone number")
	}
	if !phonePattern.MatchString(phone) {
		return "", domainerrors.BadRequest("invalid phone number")
	}
	return phone, nil
}
