package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"userhub/database/model"
	"userhub/util/crypto"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Token lifetimes mirror the issued claims; the revocation sweep relies on
// expired tokens failing validation.
const tokenTTL = time.Hour

// Claims are the HS256 claims carried by both token kinds. Refresh tokens
// omit email and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// AuthService implements registration, login and logout on top of the user
// and revocation stores.
type AuthService struct {
	users   *UserService
	revoked *RevocationService
	secret  []byte
}

func NewAuthService(users *UserService, revoked *RevocationService, secret string) *AuthService {
	return &AuthService{
		users:   users,
		revoked: revoked,
		secret:  []byte(secret),
	}
}

// Register creates a regular user account.
func (s *AuthService) Register(name, email, city string, active bool, password string) (model.PublicUser, error) {
	return s.users.Create(name, email, city, active, password)
}

// Login verifies the credentials and issues an access/refresh token pair.
// A missing account and a wrong password are indistinguishable to the
// caller, so responses cannot enumerate accounts.
func (s *AuthService) Login(email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.users.FindByEmail(email)
	if err != nil || !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err = s.signToken(Claims{
		UserID: user.Id,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.signToken(Claims{UserID: user.Id})
	if err != nil {
		return "", "", err
	}

	s.users.SetRefreshToken(user.Email, refreshToken)
	return accessToken, refreshToken, nil
}

// Logout revokes the presented access token and clears the stored refresh
// token of the authenticated user. Returns ErrUserNotFound when the
// identity no longer resolves to a stored user.
func (s *AuthService) Logout(token string, claims *Claims) error {
	expiresAt := time.Now().Add(tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.revoked.Revoke(token, expiresAt)

	if !s.users.RevokeRefreshToken(claims.Email) {
		return ErrUserNotFound
	}
	return nil
}

// ParseToken validates the signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) signToken(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
