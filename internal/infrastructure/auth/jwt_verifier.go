package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/golang-jwt/jwt"
)

// IdentityClaims — поля ID-токена, выпущенного провайдером идентификации.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.StandardClaims
}

// JWTVerifier проверяет ID-токены, подписанные HS256 общим секретом.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify проверяет подпись и срок действия токена и возвращает личность пользователя.
// Токен без exp отклоняется: StandardClaims.Valid проверяет exp, только если он задан.
func (v *JWTVerifier) Verify(tokenString string) (*domain.Identity, error) {
	const op = "JWTVerifier.Verify"

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrInvalidToken, err))
	}

	if !token.Valid || claims.ExpiresAt == 0 || !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	return &domain.Identity{
		Email:   email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// Sign выпускает токен с указанными полями. Используется в тестах и локальной разработке.
func (v *JWTVerifier) Sign(claims IdentityClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
