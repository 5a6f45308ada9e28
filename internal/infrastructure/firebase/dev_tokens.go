package firebase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/pkg/errors"
)

// DevSession mints a custom token for uid and exchanges it for an ID token.
// Only routed in development.
func (f *AuthClient) DevSession(ctx context.Context, uid string) (*entity.Session, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return nil, errors.Auth(errors.CodeUnknown, "Failed to mint custom token", err)
	}

	body := map[string]interface{}{
		"token":             customToken,
		"returnSecureToken": true,
	}

	var out signInResponse
	if err := f.postJSON(ctx, f.identityURL+"/accounts:signInWithCustomToken", body, &out); err != nil {
		return nil, err
	}
	session := out.session()
	if session.UID == "" {
		session.UID = uid
	}
	return session, nil
}
