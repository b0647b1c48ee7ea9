package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/server/middleware"
)

// CaseClaims represents case-link token claims.
type CaseClaims struct {
	CaseNumber  string `json:"case_number"`
	ClientName  string `json:"client_name,omitempty"`
	EntityType  string `json:"entity_type,omitempty"`
	AccountType string `json:"account_type,omitempty"`
	jwt.RegisteredClaims
}

// GetCase returns the case the claims were issued for.
// This implements the middleware.CaseGetter interface.
func (c *CaseClaims) GetCase() middleware.Case {
	return middleware.Case{
		Number:      c.CaseNumber,
		ClientName:  c.ClientName,
		EntityType:  c.EntityType,
		AccountType: c.AccountType,
	}
}

// AsTokenValidator returns a TokenValidator adapter for this CaseTokenService.
// This allows the service to be used with middleware without creating import cycles.
func (s *CaseTokenService) AsTokenValidator() middleware.TokenValidator {
	return &caseTokenValidator{service: s}
}

// caseTokenValidator adapts CaseTokenService to middleware.TokenValidator interface.
type caseTokenValidator struct {
	service *CaseTokenService
}

func (v *caseTokenValidator) ValidateToken(tokenString string) (middleware.CaseGetter, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// CaseTokenService issues and validates case-link tokens.
type CaseTokenService struct {
	config *config.CaseTokenConfig
	now    func() time.Time
}

// NewCaseTokenService creates a new case token service with the given configuration.
func NewCaseTokenService(cfg *config.CaseTokenConfig) *CaseTokenService {
	return &CaseTokenService{
		config: cfg,
		now:    time.Now,
	}
}

// GenerateToken generates a token binding the bearer to c.
func (s *CaseTokenService) GenerateToken(c middleware.Case) (string, error) {
	if c.Number == "" {
		return "", fmt.Errorf("case number is required")
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.ExpirationHours) * time.Hour)

	claims := &CaseClaims{
		CaseNumber:  c.Number,
		ClientName:  c.ClientName,
		EntityType:  c.EntityType,
		AccountType: c.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Number,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a token and returns its claims.
func (s *CaseTokenService) ValidateToken(tokenString string) (*CaseClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &CaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.CaseNumber == "" {
		return nil, fmt.Errorf("token has no case number")
	}

	return claims, nil
}
