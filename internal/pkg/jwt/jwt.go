package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingClaim = errors.New("token claim is missing or invalid")
	ErrTokenType    = errors.New("token is not an access token")
)

type Service interface {
	GenerateAccessToken(employeeID int64, email string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken issues a token in the shape the auth middleware
// accepts. Tokens are normally minted by the identity provider; this is used
// by tooling and tests.
func (j *JWTService) GenerateAccessToken(employeeID int64, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"employee_id": employeeID,
		"email":       email,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ActorFromClaims converts verified claims into the calling actor.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return user.Actor{}, ErrTokenType
	}

	employeeID, err := int64Claim(claims["employee_id"])
	if err != nil {
		return user.Actor{}, fmt.Errorf("employee_id: %w", err)
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !user.Role(roleStr).Valid() {
		return user.Actor{}, fmt.Errorf("role: %w", ErrMissingClaim)
	}

	return user.Actor{EmployeeID: employeeID, Role: user.Role(roleStr)}, nil
}

// ActorFromContext reads the actor from the jwtauth token stored on ctx.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	return ActorFromClaims(claims)
}

func int64Claim(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, ErrMissingClaim
		}
		return id, nil
	default:
		return 0, ErrMissingClaim
	}
}
