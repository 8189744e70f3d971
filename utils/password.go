package utils

import (
	"crypto/rand"
	"regexp"
	"strings"
)

// Набор символов без неоднозначных (O, 0, I, l, 1 и т. п.) — пароль проще вводить вручную
const passwordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789!@#$%&*"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

// ValidateEmail — базовая проверка формата email
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidatePassword проверяет пароль по политике: минимум 8 символов, строчная буква и цифра.
// Возвращает текст ошибки для пользователя или пустую строку.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "Пароль должен содержать минимум 8 символов"
	}
	if !lowerRe.MatchString(password) {
		return "Пароль должен содержать хотя бы одну строчную букву"
	}
	if !digitRe.MatchString(password) {
		return "Пароль должен содержать хотя бы одну цифру"
	}
	return ""
}

// ValidateName — имя от 2 до 100 символов
func ValidateName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= 2 && len(trimmed) <= 100
}

// SanitizeInput убирает потенциально опасные символы из пользовательского ввода
func SanitizeInput(input string) string {
	replacer := strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")
	return strings.TrimSpace(replacer.Replace(input))
}

// GenerateSecurePassword генерирует пароль из 12 символов дружелюбного набора.
// Гарантирует наличие заглавной, строчной буквы и цифры.
func GenerateSecurePassword() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand на практике не возвращает ошибок; паника уместнее тихого слабого пароля
		panic(err)
	}

	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(passwordCharset[int(b)%len(passwordCharset)])
	}
	password := sb.String()

	if !upperRe.MatchString(password) {
		password += "V"
	}
	if !lowerRe.MatchString(password) {
		password += "e"
	}
	if !digitRe.MatchString(password) {
		password += "4"
	}
	return password
}
