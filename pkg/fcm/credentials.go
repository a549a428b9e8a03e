package fcm

import (
	"encoding/json"
	"errors"
	"fmt"
)

const defaultTokenURI = "https://oauth2.googleapis.com/token"

// ErrCredentialParse indicates a malformed or incomplete service-account blob.
var ErrCredentialParse = errors.New("invalid service account credential")

// ServiceAccount is the push provider's service-account credential.
// Treat it as a capability: never log it, never share it across dispatches.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	ProjectID   string `json:"project_id"`
	TokenURI    string `json:"token_uri"`
}

// ParseServiceAccount parses the service-account JSON blob. client_email,
// private_key and project_id are required; token_uri falls back to the
// Google OAuth2 token endpoint.
func ParseServiceAccount(blob []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(blob, &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialParse, err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" || sa.ProjectID == "" {
		return nil, fmt.Errorf("%w: client_email, private_key and project_id are required", ErrCredentialParse)
	}
	if sa.TokenURI == "" {
		sa.TokenURI = defaultTokenURI
	}
	return &sa, nil
}
