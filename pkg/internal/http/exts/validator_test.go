package exts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	assert.NoError(t, ValidateStruct(form{Email: "alice@example.com", Password: "correct-horse"}))
	assert.Error(t, ValidateStruct(form{Email: "alice", Password: "correct-horse"}))
	assert.Error(t, ValidateStruct(form{Email: "alice@example.com", Password: "short"}))
	assert.Error(t, ValidateStruct(form{}))
}
