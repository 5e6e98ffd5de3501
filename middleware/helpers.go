package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Имена JWT claims
const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
	jwtClaimExp    = "exp"
	jwtClaimIat    = "iat"
)

// TokenTTL — срок жизни выдаваемого токена.
const TokenTTL = 24 * time.Hour

var ErrNoUserInContext = errors.New("user claims not found in context")

// IssueToken подписывает HS256 токен с user_id и role.
func IssueToken(jwtSecret string, profileID uuid.UUID, role models.UserRole, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		jwtClaimUserID: profileID.String(),
		jwtClaimRole:   string(role),
		jwtClaimExp:    now.Add(TokenTTL).Unix(),
		jwtClaimIat:    now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func GetProfileIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrNoUserInContext
	}

	raw, ok := claims[jwtClaimUserID]
	if !ok {
		return uuid.Nil, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimUserID, raw)
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid '%s' claim: %w", jwtClaimUserID, err)
	}
	return id, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoUserInContext
	}

	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}

	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}

	role := models.UserRole(roleStr)

	switch role {
	case models.RoleAdmin, models.RoleFaculty, models.RoleStudent:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}

// WithClaims кладет claims в контекст напрямую (используется в тестах обработчиков).
func WithClaims(ctx context.Context, profileID uuid.UUID, role models.UserRole) context.Context {
	return context.WithValue(ctx, userContextKey, jwt.MapClaims{
		jwtClaimUserID: profileID.String(),
		jwtClaimRole:   string(role),
	})
}
