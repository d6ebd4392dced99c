package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"nook-pos/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type account struct {
	password string
	user     model.User
}

// accounts are the fixed staff logins of the store.
var accounts = map[string]account{
	"admin":   {password: "admin", user: model.User{ID: "u1", Username: "admin", Role: model.RoleAdmin}},
	"cashier": {password: "1234", user: model.User{ID: "u2", Username: "cashier", Role: model.RoleCashier}},
}

type Claims struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(username, password string) (string, *model.User, error)
	Verify(token string) (*model.User, error)
}

type authServiceImpl struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(secret string, ttl time.Duration) AuthService {
	return &authServiceImpl{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *authServiceImpl) Login(username, password string) (string, *model.User, error) {
	acc, ok := accounts[username]
	if !ok || subtle.ConstantTimeCompare([]byte(acc.password), []byte(password)) != 1 {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		Username: acc.user.Username,
		Role:     acc.user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	user := acc.user
	return signed, &user, nil
}

func (s *authServiceImpl) Verify(token string) (*model.User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &model.User{ID: claims.Subject, Username: claims.Username, Role: claims.Role}, nil
}
