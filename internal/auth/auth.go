// Package auth handles account credentials and bearer-token verification.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
	"github.com/SambhavSurthi/StockInsight/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords so
// responses don't reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// Service issues and verifies tokens against the account store.
type Service struct {
	secret []byte
	store  *store.Store
	now    func() time.Time
}

// NewService creates an auth service signing tokens with the given secret.
func NewService(secret string, st *store.Store) *Service {
	return &Service{secret: []byte(secret), store: st, now: time.Now}
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *Service) Signup(email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(email, string(hash))
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(email, password string) (string, error) {
	u, err := s.store.UserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(u.ID, 10),
		"iat": s.now().Unix(),
		"exp": s.now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning the user id.
func (s *Service) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return id, nil
}
