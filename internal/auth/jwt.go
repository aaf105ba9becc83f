package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredentials - неверный пароль администратора
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	// ErrInvalidToken - токен не прошёл проверку
	ErrInvalidToken = errors.New("недействительный токен")
	// ErrAdminDisabled - хеш пароля администратора не задан
	ErrAdminDisabled = errors.New("вход администратора отключён")
)

const issuer = "mine-game"

// Claims представляет JWT claims
type Claims struct {
	Player  string `json:"player"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Issuer выпускает и проверяет токены HS256
type Issuer struct {
	secret    []byte
	ttl       time.Duration
	adminHash string
	now       func() time.Time
}

// NewIssuer создаёт выпускающего токены.
// Пустой secret заменяется случайным: токены не переживут перезапуск.
// Пустой adminHash отключает вход администратора.
func NewIssuer(secret string, adminHash string, ttl time.Duration) (*Issuer, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("не удалось сгенерировать JWT секрет: %w", err)
		}
	} else if len(key) < 16 {
		return nil, errors.New("секрет JWT должен быть не короче 16 байт")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: key, ttl: ttl, adminHash: adminHash, now: time.Now}, nil
}

// Issue создаёт подписанный токен
func (i *Issuer) Issue(player string, admin bool) (string, error) {
	now := i.now()
	claims := &Claims{
		Player:  player,
		IsAdmin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   player,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// LoginAdmin проверяет пароль по bcrypt-хешу и выдаёт токен администратора
func (i *Issuer) LoginAdmin(password string) (string, error) {
	if i.adminHash == "" {
		return "", ErrAdminDisabled
	}
	if !CheckPassword(i.adminHash, password) {
		return "", ErrInvalidCredentials
	}
	return i.Issue("admin", true)
}

// Validate проверяет подпись, срок и издателя токена
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// GenerateSecureSecret генерирует случайный секрет в base64
func GenerateSecureSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
