package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

const pathLogin = "/auth/login"

// Login exchanges credentials for an access token using the OAuth2 password
// grant, form encoded. Every failure is an *APIError whose message is the
// best reason available.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", email)
	form.Set("password", password)

	header := http.Header{}
	header.Set(headerContentType, mimeForm)
	header.Set(headerAccept, mimeJSON)

	resp, data, err := c.do(ctx, http.MethodPost, pathLogin, strings.NewReader(form.Encode()), header)
	if err != nil {
		if resp != nil {
			return nil, err
		}
		return nil, transportError(err, FallbackLoginMessage)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp, data, FallbackLoginMessage)
	}

	var result domain.LoginResult
	if err := json.Unmarshal(data, &result); err != nil || result.AccessToken == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: FallbackLoginMessage, Err: err}
	}
	return &result, nil
}
