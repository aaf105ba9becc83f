package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen - минимальная длина пароля администратора в символах
const MinPasswordLen = 8

var ErrWeakPassword = fmt.Errorf("пароль короче %d символов", MinPasswordLen)

// HashPassword строит bcrypt-хеш для GAME_ADMIN_PASSWORD_HASH.
// bcrypt учитывает только первые 72 байта, более длинный пароль отклоняется.
func HashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хешем. Битый хеш считается несовпадением.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
