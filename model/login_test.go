package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoginRequest_DropsRemember(t *testing.T) {
	req := NewLoginRequest(Credentials{Email: "a@b.com", Password: "secret", Remember: true})

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com","password":"secret"}`, string(body))
}

func TestLoginResponse_DetailMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail":"Invalid credentials"}`, "Invalid credentials"},
		{"missing", `{}`, ""},
		{"null", `{"detail":null}`, ""},
		{"validation list", `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error"},{"loc":["body","password"],"msg":"field required","type":"missing"}]}`, "value is not a valid email address; field required"},
		{"object", `{"detail":{"code":1}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res LoginResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &res))
			assert.Equal(t, tt.want, res.DetailMessage())
		})
	}
}

func TestSessionTokens_Valid(t *testing.T) {
	assert.True(t, SessionTokens{AccessToken: "T1", RefreshToken: "T2"}.Valid())
	assert.False(t, SessionTokens{AccessToken: "T1"}.Valid())
	assert.False(t, SessionTokens{RefreshToken: "T2"}.Valid())
	assert.False(t, SessionTokens{}.Valid())
}
