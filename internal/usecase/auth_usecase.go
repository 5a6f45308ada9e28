package usecase

import (
	"context"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
	"medconnect/pkg/logger"
)

type AuthUseCase struct {
	userRepo  repository.UserRepository
	auth      AuthProvider
	network   Reachability
	telemetry *telemetry.Recorder
}

func NewAuthUseCase(userRepo repository.UserRepository, auth AuthProvider, network Reachability, recorder *telemetry.Recorder) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		auth:      auth,
		network:   network,
		telemetry: recorder,
	}
}

type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Kind       entity.UserKind
	Profession string
}

type AuthResult struct {
	User    *entity.User    `json:"user"`
	Session *entity.Session `json:"session"`
}

// Register creates the identity and the user record, which starts in the
// onboarding phase.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user := &entity.User{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      email,
		Kind:       input.Kind,
		Profession: input.Profession,
		Phase:      entity.UserPhaseOnboarding,
		CreatedAt:  time.Now(),
	}
	if user.Kind == "" {
		user.Kind = entity.UserKindProfessional
	}

	uid, err := uc.auth.CreateUser(ctx, email, input.Password, user.Name())
	if err != nil {
		return nil, err
	}
	user.ID = uid

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// an identity without a record cannot sign in usefully
		if derr := uc.auth.Disable(ctx, uid); derr != nil {
			logger.RecordError(derr, "register rollback")
		}
		return nil, err
	}

	session, err := uc.auth.SignIn(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	uc.telemetry.Event(ctx, telemetry.EventSignUp)
	return &AuthResult{User: user, Session: session}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}

	session, err := uc.auth.SignIn(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, session.UID)
	if err != nil {
		return nil, err
	}
	if user.Phase == entity.UserPhaseDeactivated {
		return nil, errors.Auth(errors.CodeUserNotFound, "This account has been deleted", nil)
	}

	uc.telemetry.Event(ctx, telemetry.EventLogin)
	return &AuthResult{User: user, Session: session}, nil
}

func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	if refreshToken == "" {
		return nil, errors.BadRequest("Refresh token is required", nil)
	}
	return uc.auth.Refresh(ctx, refreshToken)
}

func (uc *AuthUseCase) VerifyToken(ctx context.Context, token string) (string, error) {
	return uc.auth.VerifyToken(ctx, token)
}

// reauthenticate proves the caller knows the current password.
func (uc *AuthUseCase) reauthenticate(ctx context.Context, uid, password string) (*entity.User, error) {
	if err := uc.network.Require(); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	session, err := uc.auth.SignIn(ctx, user.Email, password)
	if err != nil {
		return nil, err
	}
	if session.UID != uid {
		return nil, errors.Auth(errors.CodeWrongPassword, "Credentials belong to another account", nil)
	}
	return user, nil
}

func (uc *AuthUseCase) UpdatePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	if _, err := uc.reauthenticate(ctx, uid, currentPassword); err != nil {
		return err
	}
	return uc.auth.UpdatePassword(ctx, uid, newPassword)
}

func (uc *AuthUseCase) UpdateEmail(ctx context.Context, uid, password, email string) error {
	if _, err := uc.reauthenticate(ctx, uid, password); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := uc.auth.UpdateEmail(ctx, uid, email); err != nil {
		return err
	}
	return uc.userRepo.Update(ctx, uid, map[string]interface{}{"email": email})
}

func (uc *AuthUseCase) SendPasswordReset(ctx context.Context, email string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	return uc.auth.SendPasswordReset(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (uc *AuthUseCase) Providers(ctx context.Context, uid string) ([]string, error) {
	return uc.auth.Providers(ctx, uid)
}

// DeleteAccount deactivates the record and disables the identity.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, uid, password string) error {
	user, err := uc.reauthenticate(ctx, uid, password)
	if err != nil {
		return err
	}
	if !user.Phase.CanAdvanceTo(entity.UserPhaseDeactivated) {
		return errors.BadRequest("Account is already deactivated", nil)
	}

	if err := uc.userRepo.Update(ctx, uid, map[string]interface{}{"phase": string(entity.UserPhaseDeactivated)}); err != nil {
		return err
	}
	return uc.auth.Disable(ctx, uid)
}
