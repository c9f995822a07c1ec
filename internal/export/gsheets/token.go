package gsheets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/oauth2"
)

// ParseToken decodes a token file written by oauth-init.
func ParseToken(b []byte) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("oauth token has neither access nor refresh token")
	}
	return &tok, nil
}

// WriteToken encodes tok in the format ParseToken reads.
func WriteToken(w io.Writer, tok *oauth2.Token) error {
	if err := json.NewEncoder(w).Encode(tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
