package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `form:"fullname" binding:"required,min=2"`
	Age   int    `json:"age" binding:"gte=0"`
}

func TestToDetails_UsesTagNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signup{Email: "nope", Name: "J", Age: -1})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 2 characters long", details["fullname"])
	assert.Equal(t, "must be greater than or equal to 0", details["age"])
}

func TestToDetails_Fallbacks(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x")))
}
