package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashed, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)

	again, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, hashed, again, "hashes must be salted")
}

func TestCheckPassword(t *testing.T) {
	hashed, _ := HashPassword("password123")

	assert.True(t, CheckPassword("password123", hashed))
	assert.False(t, CheckPassword("wrongpassword", hashed))
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("password123", "invalidhash"))
}

func TestHashPassword_LongPassword(t *testing.T) {
	long := strings.Repeat("p", 100)
	hashed, err := HashPassword(long)
	assert.NoError(t, err)

	assert.True(t, CheckPassword(long, hashed))
	// bcrypt alone would ignore everything past byte 72
	assert.False(t, CheckPassword(long[:72], hashed))
	assert.False(t, CheckPassword(long+"x", hashed))
}

func TestHashPassword_Unicode(t *testing.T) {
	pw := "pässwörd 密码 🔑"
	hashed, err := HashPassword(pw)
	assert.NoError(t, err)
	assert.True(t, CheckPassword(pw, hashed))
}
