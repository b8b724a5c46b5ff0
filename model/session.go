package model

type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// Valid reports whether both tokens are set, they are only ever stored as a pair.
func (t SessionTokens) Valid() bool {
	return t.AccessToken != "" && t.RefreshToken != ""
}
