package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, password string) *Issuer {
	t.Helper()
	hash := ""
	if password != "" {
		var err error
		hash, err = HashPassword(password)
		if err != nil {
			t.Fatalf("Ошибка хеширования пароля: %v", err)
		}
	}
	iss, err := NewIssuer("test-secret-0123456789", hash, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания выпускающего: %v", err)
	}
	return iss
}

// TestIssueAndValidate тестирует создание и проверку токена
func TestIssueAndValidate(t *testing.T) {
	iss := newTestIssuer(t, "")

	token, err := iss.Issue("miner", false)
	if err != nil {
		t.Fatalf("Ошибка генерации JWT: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Неверный формат JWT токена: %s", token)
	}

	claims, err := iss.Validate(token)
	if err != nil {
		t.Fatalf("Валидный токен определен как недействительный: %v", err)
	}
	if claims.Player != "miner" || claims.IsAdmin {
		t.Errorf("Неверные claims: %+v", claims)
	}
}

// TestValidateRejects тестирует отклонение чужих, испорченных и просроченных токенов
func TestValidateRejects(t *testing.T) {
	iss := newTestIssuer(t, "")
	other, err := NewIssuer("another-secret-9876543210", "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	foreign, _ := other.Issue("miner", true)
	if _, err := iss.Validate(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Токен с чужой подписью принят: %v", err)
	}

	if _, err := iss.Validate("invalid.token.here"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Испорченный токен принят: %v", err)
	}

	token, _ := iss.Issue("miner", false)
	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := iss.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Просроченный токен принят: %v", err)
	}
}

// TestLoginAdmin тестирует вход администратора по bcrypt-хешу
func TestLoginAdmin(t *testing.T) {
	iss := newTestIssuer(t, "s3cret-pass")

	if _, err := iss.LoginAdmin("wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Ожидалась ErrInvalidCredentials, получено %v", err)
	}

	token, err := iss.LoginAdmin("s3cret-pass")
	if err != nil {
		t.Fatalf("Ошибка входа: %v", err)
	}
	claims, err := iss.Validate(token)
	if err != nil || !claims.IsAdmin {
		t.Errorf("Ожидался токен администратора: %+v, %v", claims, err)
	}

	disabled := newTestIssuer(t, "")
	if _, err := disabled.LoginAdmin("s3cret-pass"); !errors.Is(err, ErrAdminDisabled) {
		t.Errorf("Ожидалась ErrAdminDisabled, получено %v", err)
	}
}

func TestNewIssuerSecrets(t *testing.T) {
	if _, err := NewIssuer("short", "", 0); err == nil {
		t.Error("Короткий секрет должен отклоняться")
	}
	iss, err := NewIssuer("", "", 0)
	if err != nil {
		t.Fatalf("Случайный секрет: %v", err)
	}
	if iss.ttl != time.Hour {
		t.Errorf("TTL по умолчанию %v, ожидался час", iss.ttl)
	}
	if GenerateSecureSecret() == GenerateSecureSecret() {
		t.Error("Секреты совпали")
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Ожидалась ErrWeakPassword, получено %v", err)
	}

	hash, err := HashPassword("достаточно-длинный")
	if err != nil {
		t.Fatalf("Ошибка хеширования: %v", err)
	}
	if !CheckPassword(hash, "достаточно-длинный") {
		t.Error("Пароль не совпал со своим хешем")
	}
	if CheckPassword("не-хеш", "достаточно-длинный") {
		t.Error("Битый хеш не должен совпадать")
	}
}
