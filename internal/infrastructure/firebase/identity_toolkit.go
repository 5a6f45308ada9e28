package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"medconnect/internal/domain/entity"
	"medconnect/pkg/errors"
)

type signInResponse struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (r signInResponse) session() *entity.Session {
	expires, _ := strconv.ParseInt(r.ExpiresIn, 10, 64)
	return &entity.Session{
		UID:          r.LocalID,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    expires,
	}
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

func (r refreshResponse) session() *entity.Session {
	expires, _ := strconv.ParseInt(r.ExpiresIn, 10, 64)
	return &entity.Session{
		UID:          r.UserID,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    expires,
	}
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *AuthClient) postJSON(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Auth(errors.CodeUnknown, "Failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.withKey(endpoint), bytes.NewReader(payload))
	if err != nil {
		return errors.Auth(errors.CodeUnknown, "Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return f.do(req, out)
}

func (f *AuthClient) postForm(ctx context.Context, endpoint string, fields map[string]string, out interface{}) error {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.withKey(endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Auth(errors.CodeUnknown, "Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return f.do(req, out)
}

func (f *AuthClient) do(req *http.Request, out interface{}) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Auth(errors.CodeNetwork, "Identity provider is unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Auth(errors.CodeNetwork, "Failed to read identity response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var restErr restError
		if err := json.Unmarshal(data, &restErr); err != nil || restErr.Error.Message == "" {
			return errors.Auth(errors.CodeUnknown, "Authentication request failed",
				fmt.Errorf("identity provider returned status %d", resp.StatusCode))
		}
		return mapRestError(restErr.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Auth(errors.CodeUnknown, "Failed to decode identity response", err)
	}
	return nil
}

func (f *AuthClient) withKey(endpoint string) string {
	return endpoint + "?key=" + url.QueryEscape(f.apiKey)
}

// mapRestError maps the provider's message codes. Some carry a suffix, e.g.
// "WEAK_PASSWORD : Password should be at least 6 characters".
func mapRestError(message string) error {
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	cause := fmt.Errorf("identity provider: %s", message)

	switch code {
	case "INVALID_EMAIL":
		return errors.Auth(errors.CodeInvalidEmail, "Invalid email address", cause)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return errors.Auth(errors.CodeWrongPassword, "Wrong email or password", cause)
	case "EMAIL_EXISTS":
		return errors.Auth(errors.CodeEmailInUse, "Email already in use", cause)
	case "WEAK_PASSWORD":
		return errors.Auth(errors.CodeWeakPassword, "Password is too weak", cause)
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND", "USER_DISABLED":
		return errors.Auth(errors.CodeUserNotFound, "User not found", cause)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return errors.Auth(errors.CodeTooManyAttempts, "Too many attempts, try again later", cause)
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "INVALID_ID_TOKEN":
		return errors.Unauthorized("Session expired", cause)
	}
	return errors.Auth(errors.CodeUnknown, "Authentication request failed", cause)
}
