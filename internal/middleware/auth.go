package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/muaazl/cine-match/internal/utils"
)

// RoleAdmin 管理员角色
const RoleAdmin = "admin"

// ErrAdminDisabled 未配置 ADMIN_SECRET
var ErrAdminDisabled = errors.New("admin secret not configured")

// Claims JWT 声明
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAdmin 管理接口鉴权，只接受 Authorization: Bearer <token>
// 未配置密钥时所有管理接口都拒绝访问
func RequireAdmin(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			utils.Error(c, 403, "admin API disabled")
			c.Abort()
			return
		}

		claims, err := extractClaims(c, jwtSecret)
		if err != nil {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}
		if claims.Role != RoleAdmin {
			utils.Error(c, 403, "admin role required")
			c.Abort()
			return
		}

		c.Set("role", claims.Role)
		c.Set("subject", claims.Subject)
		c.Next()
	}
}

// extractClaims 从 Authorization Header 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, jwt.ErrTokenMalformed
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GenerateToken 生成 JWT Token
func GenerateToken(subject, role, jwtSecret string, expiry time.Duration) (string, error) {
	if jwtSecret == "" {
		return "", ErrAdminDisabled
	}
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
