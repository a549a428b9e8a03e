package fcm

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	messagingScope    = "https://www.googleapis.com/auth/firebase.messaging"
	assertionLifetime = time.Hour
)

// ErrSigning indicates the private key could not be imported or the sign
// operation failed. Signing is deterministic, so this is a configuration
// defect rather than a transient condition.
var ErrSigning = errors.New("assertion signing failed")

// SignAssertion builds the RS256-signed JWT presented to the token endpoint
// in exchange for a bearer token. The claim window is exactly one hour
// starting at now.
func SignAssertion(sa *ServiceAccount, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("%w: parse private key: %v", ErrSigning, err)
	}

	claims := jwt.MapClaims{
		"iss":   sa.ClientEmail,
		"scope": messagingScope,
		"aud":   sa.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}
