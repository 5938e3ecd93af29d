package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamium/internal/apperrors"
	"github.com/nkiryanov/streamium/internal/models"
	"github.com/nkiryanov/streamium/internal/repository"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Object storage collaborator
// An error is the only failure signal: there is no "no file" result
type Uploader interface {
	Upload(ctx context.Context, localPath string) (url string, err error)
}

type Config struct {
	// Hasher to use during registration, login and password change
	// BcryptHasher is used if not set
	Hasher PasswordHasher

	// Cookie names for the token pair
	// If not set then defaults are used
	AccessCookieName  string
	RefreshCookieName string
}

// Session manager: owns the credential lifecycle of every account
type AuthService struct {
	tokens TokenManager
	hasher PasswordHasher
	users  repository.UserRepo
	media  Uploader

	accessCookieName  string
	refreshCookieName string
}

// Issues and verifies the paired tokens, implemented by tokenmanager
type TokenManager interface {
	GeneratePair(userID uuid.UUID) (models.TokenPair, error)
	ParseAccess(access string) (uuid.UUID, error)
	ParseRefresh(refresh string) (uuid.UUID, error)
}

func NewService(cfg Config, tokens TokenManager, users repository.UserRepo, media Uploader) (*AuthService, error) {
	if tokens == nil || users == nil || media == nil {
		return nil, errors.New("token manager, user repo and media uploader must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if cfg.AccessCookieName == "" {
		cfg.AccessCookieName = defaultAccessCookieName
	}
	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = defaultRefreshCookieName
	}

	return &AuthService{
		tokens:            tokens,
		hasher:            hasher,
		users:             users,
		media:             media,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
	}, nil
}

type RegisterParams struct {
	Username   string
	FullName   string
	Email      string
	Password   string
	AvatarPath string
	CoverPath  string // optional
}

// Register creates the account: password hashed, avatar (and optional cover)
// pushed to the media store first. No session is started and no tokens are
// minted, the user logs in separately.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	avatarURL, err := s.media.Upload(ctx, p.AvatarPath)
	if err != nil {
		return user, fmt.Errorf("%w: avatar: %w", apperrors.ErrUploadFailed, err)
	}

	var coverURL string
	if p.CoverPath != "" {
		coverURL, err = s.media.Upload(ctx, p.CoverPath)
		if err != nil {
			return user, fmt.Errorf("%w: cover: %w", apperrors.ErrUploadFailed, err)
		}
	}

	user, err = s.users.CreateUser(ctx, repository.CreateUserParams{
		Username:     normalize(p.Username),
		Email:        normalize(p.Email),
		FullName:     strings.TrimSpace(p.FullName),
		PasswordHash: hash,
		AvatarURL:    avatarURL,
		CoverURL:     coverURL,
	})
	if err != nil {
		return user, err
	}

	return user, nil
}

// Login verifies the password and starts a session: a fresh token pair is
// minted and the refresh value is stored on the account, overwriting any
// prior one. Concurrent logins race and the later write owns the session.
func (s *AuthService) Login(ctx context.Context, login string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.users.GetUserByLogin(ctx, normalize(login))
	if err != nil {
		return user, pair, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return user, pair, apperrors.ErrInvalidCredentials
	}

	pair, err = s.tokens.GeneratePair(user.ID)
	if err != nil {
		return user, pair, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	// Minted but not persisted is not a session: surface the store error
	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.Refresh.Value); err != nil {
		return user, pair, fmt.Errorf("can't store refresh credential. Err: %w", err)
	}

	user.RefreshToken = &pair.Refresh.Value
	return user, pair, nil
}

// RefreshPair rotates the tokens: the presented refresh value must verify
// AND literally equal the stored credential. The equality check is the sole
// revocation mechanism, a rotated-away or cleared credential fails here even
// while the token itself is unexpired.
func (s *AuthService) RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	if refresh == "" {
		return pair, apperrors.ErrRefreshTokenMissing
	}

	userID, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		return pair, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return pair, fmt.Errorf("%w: subject not found", apperrors.ErrTokenInvalid)
		}
		return pair, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refresh {
		return pair, apperrors.ErrRefreshTokenMismatch
	}

	pair, err = s.tokens.GeneratePair(user.ID)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.Refresh.Value); err != nil {
		return pair, fmt.Errorf("can't store refresh credential. Err: %w", err)
	}

	return pair, nil
}

// Logout clears the stored refresh credential unconditionally
// Idempotent: logging out twice is not an error
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

// ChangePassword swaps the password hash after verifying the old secret.
// The live refresh credential is left untouched: password change is
// independent of session lifetime here.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperrors.ErrPasswordConfirmMismatch
	}
	if newPassword == oldPassword {
		return apperrors.ErrPasswordNotChanged
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, oldPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, Err: %w", err)
	}

	return s.users.SetPasswordHash(ctx, userID, hash)
}

// Handles and contact addresses compare case-insensitively
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
