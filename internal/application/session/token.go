package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prompt-refinery-api/pkg/errors"
)

// TokenCodec 会话 cookie 的签名编解码
// cookie 里放的不是裸会话 id，而是 HS256 签名的 token，
// 伪造或篡改的 cookie 在进入存储层之前就会被拒绝。
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec 创建编解码器
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Sign 把会话 id 签成 cookie token
func (c *TokenCodec) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternalError, "会话 token 签名失败")
	}
	return signed, nil
}

// Parse 校验 token 并取出会话 id，无效返回空串
func (c *TokenCodec) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", nil
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", nil
	}
	return claims.Subject, nil
}
