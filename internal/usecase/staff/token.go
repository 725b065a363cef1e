package staff

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue assina um HS256 com sub e role; o middleware transforma isso no Actor.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(t.ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
