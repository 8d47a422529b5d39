package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bajeti/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret []byte
	jwtIssuer string
)

// Claims 令牌中的用户标识放在 sub
type Claims struct {
	jwt.RegisteredClaims
}

// InitJWT 从配置读取签名密钥和签发者
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.Auth.JWTSecret)
	jwtIssuer = cfg.Auth.JWTIssuer
}

// GenerateToken 签发 HS256 令牌，本地开发和测试使用
func GenerateToken(userID string, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not initialized")
	}
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken 校验签名、过期时间和签发者
func ParseToken(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret not initialized")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if jwtIssuer != "" {
		opts = append(opts, jwt.WithIssuer(jwtIssuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTVerifier 使用共享密钥校验令牌
type JWTVerifier struct{}

func (JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	claims, err := ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// JWTAuth 使用 JWTVerifier 的认证中间件
func JWTAuth() gin.HandlerFunc {
	return Auth(JWTVerifier{})
}
