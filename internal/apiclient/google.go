package apiclient

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RoyDesCraft/chiche-client/internal/model"
)

// GoogleProfile is the identity slice read from a Google ID token.
type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}

// GoogleClaims decodes the payload of a Google ID token without verifying
// the signature. Verification belongs to the backend; the client only needs
// the display identity to build its local profile.
func GoogleClaims(idToken string) (GoogleProfile, error) {
	var out GoogleProfile
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return out, err
	}
	out.Email, _ = claims["email"].(string)
	out.Name, _ = claims["name"].(string)
	out.Picture, _ = claims["picture"].(string)
	if out.Email == "" {
		return out, errors.New("google id token missing email claim")
	}
	if out.Name == "" {
		out.Name = strings.SplitN(out.Email, "@", 2)[0]
	}
	return out, nil
}

// GoogleUser builds the local user profile for a Google sign-in, the same
// shape the signup flow produces: handle from the email local part.
func GoogleUser(p GoogleProfile) model.User {
	local := strings.SplitN(p.Email, "@", 2)[0]
	return model.User{
		Username: model.CanonicalHandle(local),
		Name:     p.Name,
		Email:    p.Email,
		Bio:      "Signed up with Google",
		Picture:  p.Picture,
	}
}
