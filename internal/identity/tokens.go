package identity

import (
	"errors"
	"fmt"
	"time"

	"todoCalendar/internal/models/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errTokenExpired = errors.New("token expired")

// tokenIssuer подписывает HS256 токены, subject которых равен id сессии.
type tokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokenIssuer) issue(session user.AuthSession) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    t.issuer,
		Subject:   session.ID,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("подпись токена: %w", err)
	}
	return signed, nil
}

func (t *tokenIssuer) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return t.secret, nil
}

func (t *tokenIssuer) parse(raw string, extra ...jwt.ParserOption) (string, error) {
	opts := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}, extra...)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, t.keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errTokenExpired
		}
		return "", fmt.Errorf("разбор токена: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("токен без subject")
	}
	return claims.Subject, nil
}

// subject проверяет подпись, но не срок действия.
func (t *tokenIssuer) subject(raw string) (string, error) {
	return t.parse(raw, jwt.WithoutClaimsValidation())
}
