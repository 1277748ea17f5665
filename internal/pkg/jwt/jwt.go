package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

// UserClaims 会话Claims
// AdminID 对 role=user 延迟解析，解析后随刷新写回Token
type UserClaims struct {
	UserID  int64  `json:"id"`
	Role    string `json:"role"`
	AdminID *int64 `json:"admin_id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Type    string `json:"type"` // access or refresh
	jwt.RegisteredClaims
}

// Principal 转换为请求主体
func (c *UserClaims) Principal() *auth.Principal {
	return &auth.Principal{
		UserID:  c.UserID,
		Role:    auth.Role(c.Role),
		AdminID: c.AdminID,
		Email:   c.Email,
		Name:    c.Name,
	}
}

// GenerateAccessToken 生成访问Token
func GenerateAccessToken(p *auth.Principal) (string, error) {
	cfg := config.GlobalConfig.Auth.JWT
	return generate(p, constants.JWTTypeAccess, time.Duration(cfg.AccessTokenExpire)*time.Second)
}

// GenerateRefreshToken 生成刷新Token
func GenerateRefreshToken(p *auth.Principal) (string, error) {
	cfg := config.GlobalConfig.Auth.JWT
	return generate(p, constants.JWTTypeRefresh, time.Duration(cfg.RefreshTokenExpire)*time.Second)
}

func generate(p *auth.Principal, tokenType string, ttl time.Duration) (string, error) {
	cfg := config.GlobalConfig.Auth.JWT
	now := time.Now()

	claims := UserClaims{
		UserID:  p.UserID,
		Role:    string(p.Role),
		AdminID: p.AdminID,
		Email:   p.Email,
		Name:    p.Name,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken 解析Token
func ParseToken(tokenString string) (*UserClaims, error) {
	cfg := config.GlobalConfig.Auth.JWT

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgErrors.ErrTokenExpired
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "Invalid token", err)
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, pkgErrors.ErrInvalidToken
}

// ValidateToken 验证Token有效性及类型
func ValidateToken(tokenString, tokenType string) (*UserClaims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != tokenType {
		return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, "Invalid token type")
	}

	return claims, nil
}
