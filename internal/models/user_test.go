// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPasswordHashing(t *testing.T) {
	user := &User{}
	err := user.SetPassword("correct horse battery")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("correct horse battery"))
	assert.Error(t, user.CheckPassword("wrong password"))
}

func TestUserEmailCanonicalizedOnSave(t *testing.T) {
	user := &User{Email: "  Fatima.Hassan@Example.COM "}
	err := user.BeforeSave(nil)
	assert.NoError(t, err)
	assert.Equal(t, "fatima.hassan@example.com", user.Email)
}

func TestUserFullName(t *testing.T) {
	user := &User{FirstName: "Omar", LastName: "Khalil"}
	assert.Equal(t, "Omar Khalil", user.FullName())

	assert.Equal(t, "Omar", (&User{FirstName: "Omar"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: UserRoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: UserRoleCompany}).IsAdmin())
}
