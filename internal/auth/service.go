package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/UBelaid/SAgency4U/internal/auth/entity"
	userrepo "github.com/UBelaid/SAgency4U/internal/auth/repo"
)

// sentinel errors mapped to HTTP status codes in the handler
var (
	ErrValidation         = errors.New("invalid input")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// UserRepository is the slice of repo.UserRepo the service depends on.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

// Service orchestrates registration and password authentication.
type Service struct {
	repo   UserRepository
	hasher PasswordHasher
	codec  *TokenCodec
}

func NewService(repo UserRepository, hasher PasswordHasher, codec *TokenCodec) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{repo: repo, hasher: hasher, codec: codec}
}

// Register creates a new account. Username, email and password must all be
// non-empty; a taken username or email yields ErrUserExists.
func (s *Service) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return 0, ErrValidation
	}

	taken, err := s.repo.Exists(ctx, username, email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, username, email, hash)
	if err != nil {
		// Exists and Create race under concurrent registration; the unique
		// index is the source of truth.
		if errors.Is(err, userrepo.ErrDuplicate) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	return id, nil
}

// Login authenticates by email and password and mints a bearer token. An
// unknown email and a wrong password both come back as ErrInvalidCredentials
// so callers cannot probe which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, *entity.PublicView, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrValidation
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.codec.Sign(u.ID)
	if err != nil {
		return "", nil, err
	}

	view := u.Public()
	return token, &view, nil
}
