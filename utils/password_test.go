package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecurePassword(t *testing.T) {
	password := GenerateSecurePassword()

	assert.GreaterOrEqual(t, len(password), 12)
	// сгенерированный пароль обязан проходить собственную политику
	assert.Empty(t, ValidatePassword(password))

	// неоднозначных символов в наборе нет
	for _, forbidden := range []string{"O", "0", "I", "l", "1"} {
		assert.NotContains(t, passwordCharset, forbidden)
	}
}

func TestGenerateSecurePasswordIsRandom(t *testing.T) {
	assert.NotEqual(t, GenerateSecurePassword(), GenerateSecurePassword())
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"валидный", "senha123", true},
		{"короткий", "ab1", false},
		{"без строчных", "SENHA123", false},
		{"без цифр", "senhasenha", false},
		{"ровно 8 символов", "abcdefg1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidatePassword(tt.password)
			if tt.ok {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("pai@familia.com.br"))
	assert.True(t, ValidateEmail("user+tag@example.org"))
	assert.False(t, ValidateEmail("sem-arroba"))
	assert.False(t, ValidateEmail("a@b"))
	assert.False(t, ValidateEmail("com espaço@example.org"))
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Ana"))
	assert.True(t, ValidateName("  Jo  ")) // пробелы по краям не считаются
	assert.False(t, ValidateName("A"))
	assert.False(t, ValidateName(strings.Repeat("x", 101)))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "scriptalert(x)/script", SanitizeInput(`<script>alert('x')</script>`))
	assert.Equal(t, "Família Venga", SanitizeInput("  Família Venga  "))
}
