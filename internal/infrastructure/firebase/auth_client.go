package firebase

import (
	"context"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"medconnect/internal/domain/entity"
	"medconnect/pkg/errors"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// AuthClient is the identity gateway. Account management goes through the
// admin SDK, password sign-in and token refresh through the REST API.
type AuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client

	identityURL string
	tokenURL    string
}

func NewAuthClient(client *auth.Client, apiKey string) *AuthClient {
	return &AuthClient{
		client:      client,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		identityURL: identityToolkitURL,
		tokenURL:    secureTokenURL,
	}
}

func (f *AuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", mapAdminError(err)
	}

	return user.UID, nil
}

func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}

	return result.UID, nil
}

func (f *AuthClient) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	params := (&auth.UserToUpdate{}).
		Password(newPassword)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return mapAdminError(err)
	}
	return nil
}

func (f *AuthClient) UpdateEmail(ctx context.Context, uid, email string) error {
	params := (&auth.UserToUpdate{}).
		Email(email).
		EmailVerified(false)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return mapAdminError(err)
	}
	return nil
}

// Providers lists the sign-in providers linked to the account, e.g.
// "password" or "google.com".
func (f *AuthClient) Providers(ctx context.Context, uid string) ([]string, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return nil, mapAdminError(err)
	}

	providers := make([]string, 0, len(user.ProviderUserInfo))
	for _, info := range user.ProviderUserInfo {
		providers = append(providers, info.ProviderID)
	}
	return providers, nil
}

func (f *AuthClient) Disable(ctx context.Context, uid string) error {
	params := (&auth.UserToUpdate{}).
		Disabled(true)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return mapAdminError(err)
	}
	return nil
}

func (f *AuthClient) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	body := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var out signInResponse
	if err := f.postJSON(ctx, f.identityURL+"/accounts:signInWithPassword", body, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (f *AuthClient) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	var out refreshResponse
	if err := f.postForm(ctx, f.tokenURL+"/token", map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (f *AuthClient) SendPasswordReset(ctx context.Context, email string) error {
	body := map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}
	return f.postJSON(ctx, f.identityURL+"/accounts:sendOobCode", body, nil)
}

func mapAdminError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return errors.Auth(errors.CodeEmailInUse, "Email already in use", err)
	case auth.IsUserNotFound(err):
		return errors.Auth(errors.CodeUserNotFound, "User not found", err)
	}
	return errors.Auth(errors.CodeUnknown, "Authentication request failed", err)
}
