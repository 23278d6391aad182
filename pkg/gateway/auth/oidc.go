package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// OIDCAuthenticator verifies bearer tokens against an external identity
// provider's userinfo endpoint. It is an optional alternative to the static
// operator account; the gateway runs without it unless an issuer is
// configured.
type OIDCAuthenticator struct {
	config *oauth2.Config
	issuer string
}

func NewOIDCAuthenticator(issuer, clientID, clientSecret string) (*OIDCAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("OIDC configuration incomplete")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/authorize", issuer),
			TokenURL: fmt.Sprintf("%s/token", issuer),
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &OIDCAuthenticator{
		config: config,
		issuer: issuer,
	}, nil
}

type userInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// VerifyToken exchanges the bearer token for the issuer's userinfo claims
// and returns the subject.
func (a *OIDCAuthenticator) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = 5 * time.Second

	resp, err := client.Get(fmt.Sprintf("%s/userinfo", a.issuer))
	if err != nil {
		return "", ErrInvalidToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrInvalidToken
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", ErrInvalidToken
	}
	if info.Email != "" {
		return info.Email, nil
	}
	if info.Subject == "" {
		return "", ErrInvalidToken
	}
	return info.Subject, nil
}
