package config

import "fmt"

// CaseTokenConfig holds configuration for case-link token signing and validation.
type CaseTokenConfig struct {
	Secret          string
	ExpirationHours int
}

// NewCaseTokenConfig creates a case token configuration and validates it.
func NewCaseTokenConfig(secret string, expirationHours int) (*CaseTokenConfig, error) {
	cfg := &CaseTokenConfig{Secret: secret, ExpirationHours: expirationHours}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *CaseTokenConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("CASE_TOKEN_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("CASE_TOKEN_TTL_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
