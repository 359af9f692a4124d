package devcenter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// ErrAuthentication is returned by Authenticate for any
// failure that is not an *APIError. Its message is
// empty: the underlying detail is only logged.
var ErrAuthentication = errors.New("")

// Credential is the bearer token obtained from
// Authenticate. It lives for one run and is applied
// explicitly to each authenticated request.
type Credential struct {
	token string
}

// NewCredential wraps an access token.
func NewCredential(token string) Credential {
	return Credential{token: token}
}

// Header returns a copy of base with the authorization
// and content-type headers merged in. Other entries of
// base are preserved; base itself is not modified.
func (c Credential) Header(base http.Header) http.Header {
	h := base.Clone()
	if h == nil {
		h = make(http.Header)
	}

	h.Set("Authorization", "Bearer "+c.token)
	h.Set("Content-Type", "application/json")

	return h
}

// Authenticate exchanges apiKey for a Credential.
//
// An *APIError from the response check is returned
// unchanged. Every other failure is logged and reported
// as ErrAuthentication.
func Authenticate(
	ctx context.Context,
	c *Client,
	apiKey string,
) (Credential, error) {
	slog.Info("authenticating", "url", c.baseURL)

	headers := make(http.Header)
	headers.Set("API-KEY", apiKey)
	headers.Set("Content-Type", "application/json")

	res, err := PostJSON[authResponse](
		ctx, c, AuthEndpoint, headers, struct{}{},
	)
	if err == nil {
		body, parseErr := ParseResult("authenticate", res)
		if parseErr == nil {
			slog.Info("authenticated")

			return NewCredential(body.Access), nil
		}

		err = parseErr
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Credential{}, err
	}

	slog.Error(
		"unexpected authentication failure",
		"error", err,
	)

	return Credential{}, ErrAuthentication
}
