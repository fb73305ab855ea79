package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService emite y valida tokens de acceso
type TokenService interface {
	GenerateAccessToken(actor *kernel.AuthContext) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTokenTTL() time.Duration
}

// TokenClaims is what a valid token tells about its holder. Role and
// assignments are informative only: the middleware reloads the profile.
type TokenClaims struct {
	UserID    kernel.UserID
	Email     string
	Name      string
	Role      kernel.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTService implementación del TokenService usando JWT
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	audience       []string
	clock          kernel.Clock
}

// NewJWTServiceFromConfig crea una nueva instancia del servicio JWT
func NewJWTServiceFromConfig(cfg config.JWTConfig, clock kernel.Clock) *JWTService {
	return &JWTService{
		secretKey:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		issuer:         cfg.Issuer,
		audience:       cfg.Audience,
		clock:          clock,
	}
}

var _ TokenService = (*JWTService)(nil)

// JWTClaims personalizados
type JWTClaims struct {
	UserID  kernel.UserID `json:"user_id"`
	Email   string        `json:"email"`
	Name    string        `json:"name"`
	Role    kernel.Role   `json:"role"`
	IsAdmin bool          `json:"is_admin"`
	States  []string      `json:"assigned_states,omitempty"`
	Cities  []string      `json:"assigned_cities,omitempty"`
	jwt.RegisteredClaims
}

func (j *JWTService) AccessTokenTTL() time.Duration {
	return j.accessTokenTTL
}

// GenerateAccessToken genera un token de acceso JWT
func (j *JWTService) GenerateAccessToken(actor *kernel.AuthContext) (string, error) {
	now := j.clock.Now()

	claims := JWTClaims{
		UserID:  *actor.UserID,
		Email:   actor.Email,
		Name:    actor.Name,
		Role:    actor.Role,
		IsAdmin: actor.IsAdmin,
		States:  actor.AssignedStates,
		Cities:  actor.AssignedCities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   actor.UserID.String(),
			Audience:  j.audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithDetail("error", err.Error())
	}
	return signed, nil
}

// ValidateAccessToken valida y decodifica un token de acceso
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		// Verificar el método de firma
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.clock.Now),
	)
	if err != nil {
		return nil, ErrTokenValidationFailed().WithDetail("error", err.Error())
	}
	if !token.Valid {
		return nil, ErrTokenValidationFailed().WithDetail("error", "token is invalid")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.UserID.IsEmpty() {
		return nil, ErrTokenValidationFailed().WithDetail("error", "invalid claims")
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
