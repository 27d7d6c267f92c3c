package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nickgiresse/patis-t/internal/kv"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidInput       = errors.New("invalid input")
)

const (
	userKeyPrefix   = "user:"
	minPasswordLen  = 6
	DefaultTokenTTL = 24 * time.Hour
)

// User is the stored admin account. The hash never leaves this package; the
// HTTP layer exposes PublicUser.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PublicUser struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Store is the subset of the KV store accounts use.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dest any) error
}

type session struct {
	email   string
	expires time.Time
}

// Service issues opaque bearer tokens for admin accounts. Tokens live in
// memory only; a restart signs everyone out.
type Service struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	tokens map[string]session
}

func NewService(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]session),
	}
}

func (s *Service) Signup(ctx context.Context, email, password, name string) (PublicUser, error) {
	if email == "" || name == "" {
		return PublicUser{}, fmt.Errorf("%w: email and name are required", ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return PublicUser{}, ErrWeakPassword
	}

	var existing User
	err := s.store.Get(ctx, userKeyPrefix+email, &existing)
	if err == nil {
		return PublicUser{}, ErrUserExists
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return PublicUser{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         "admin",
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Set(ctx, userKeyPrefix+email, u); err != nil {
		return PublicUser{}, fmt.Errorf("store user: %w", err)
	}
	return u.Public(), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, PublicUser, error) {
	var u User
	if err := s.store.Get(ctx, userKeyPrefix+email, &u); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", PublicUser{}, ErrInvalidCredentials
		}
		return "", PublicUser{}, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", PublicUser{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = session{email: u.Email, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return token, u.Public(), nil
}

// Verify reports whether the bearer token belongs to a live session.
func (s *Service) Verify(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(sess.expires) {
		delete(s.tokens, token)
		return false
	}
	return true
}
