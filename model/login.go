package model

import (
	"encoding/json"
	"strings"
)

type Credentials struct {
	Email    string
	Password string
	// read from the form but not sent, the login endpoint only knows email and password
	Remember bool
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewLoginRequest(c Credentials) LoginRequest {
	return LoginRequest{
		Email:    c.Email,
		Password: c.Password,
	}
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	Detail       json.RawMessage `json:"detail"`
}

func (r LoginResponse) Tokens() SessionTokens {
	return SessionTokens{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
}

// DetailMessage returns the human readable error sent by the service.
// detail is either a plain string or a list of validation errors.
func (r LoginResponse) DetailMessage() string {
	if len(r.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(r.Detail, &text); err == nil {
		return text
	}

	var items []ValidationError
	if err := json.Unmarshal(r.Detail, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg != "" {
			msgs = append(msgs, item.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}

type ValidationError struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}
