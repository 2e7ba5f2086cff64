package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceRole is the Supabase role that bypasses row level security
const ServiceRole = "service_role"

// ErrOpaqueKey is returned for API keys that are not JWTs (e.g. "sb_secret_..." keys)
var ErrOpaqueKey = errors.New("service key is not a JWT")

// ServiceKeyInfo holds the claims of a Supabase API key relevant at startup
type ServiceKeyInfo struct {
	Role      string
	Issuer    string
	ExpiresAt *time.Time
}

// IsServiceRole reports whether the key can write through row level security
func (i *ServiceKeyInfo) IsServiceRole() bool {
	return i.Role == ServiceRole
}

// IsExpired reports whether the key has expired at the given time
func (i *ServiceKeyInfo) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// InspectServiceKey decodes the claims of a Supabase API key without verifying
// its signature. The key is only ever verified by Supabase itself.
func InspectServiceKey(key string) (*ServiceKeyInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrOpaqueKey
		}
		return nil, fmt.Errorf("failed to decode service key: %w", err)
	}

	info := &ServiceKeyInfo{}
	info.Role, _ = claims["role"].(string)
	info.Issuer, _ = claims.GetIssuer()

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, nil
}
