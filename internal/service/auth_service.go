package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskify-api/internal/config"
	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/platform/logger"
	"github.com/phrazzld/taskify-api/internal/redact"
	"github.com/phrazzld/taskify-api/internal/service/auth"
	"github.com/phrazzld/taskify-api/internal/store"
)

// Client-facing auth messages.
const (
	msgUsernameRequired     = "Username is required"
	msgUsernameTaken        = "User is already registered"
	msgEmailRequired        = "Email is required"
	msgEmailInvalid         = "Invalid email format"
	msgEmailTaken           = "User is Registered"
	msgRegisterFields       = "Username, email, password, fName, and lName are required for user creation"
	msgPasswordTooLong      = "Password must be at most 72 bytes"
	msgCreateUserFailed     = "Could not create user"
	msgLoginFields          = "Username/email and password are required for user login"
	msgUserNotRegistered    = "User is not registered yet"
	msgCredentialsMismatch  = "Provided credentials did not match"
	msgAuthenticationFailed = "Could not authenticate user"
	msgCheckUsernameFailed  = "Could not check username"
	msgCheckEmailFailed     = "Could not check email"
)

// SuggestedUsernamesKey is the response body key carrying alternatives
// when a username is taken.
const SuggestedUsernamesKey = "suggestedUsernames"

// UsernameSuggester produces available alternatives to a taken username.
type UsernameSuggester interface {
	Suggest(ctx context.Context, taken string, n int) ([]string, error)
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput carries login credentials. Username takes precedence over Email
// as the identifier.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthService provides account availability checks, registration and login
type AuthService interface {
	// CheckUsername returns nil when username is free. When it is taken the
	// Conflict error carries suggested alternatives in its body.
	CheckUsername(ctx context.Context, username string) error

	// CheckEmail returns nil when email is well-formed and free.
	CheckEmail(ctx context.Context, email string) error

	// Register creates a new account with a hashed password.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	users       store.UserStore
	hasher      auth.PasswordHasher
	tokens      auth.TokenService
	suggester   UsernameSuggester
	suggestions int
	logger      *slog.Logger
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService creates a new AuthService
func NewAuthService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	suggester UsernameSuggester,
	cfg config.AuthConfig,
	log *slog.Logger,
) *AuthServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &AuthServiceImpl{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		suggester:   suggester,
		suggestions: cfg.UsernameSuggestions,
		logger:      log.With("component", "auth_service"),
	}
}

func (s *AuthServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// CheckUsername implements AuthService.
func (s *AuthServiceImpl) CheckUsername(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.BadRequest(msgUsernameRequired)
	}

	registered, err := s.exists(ctx, store.UserFilter{Username: username})
	if err != nil {
		s.log(ctx).Error("failed to look up username",
			"error", redact.Error(err),
			"username", username)
		return domain.Internal(msgCheckUsernameFailed, NewServiceError("auth", "check_username", err))
	}
	if !registered {
		return nil
	}

	suggestions, err := s.suggester.Suggest(ctx, username, s.suggestions)
	if err != nil {
		s.log(ctx).Error("failed to generate username suggestions",
			"error", redact.Error(err),
			"username", username,
			"wanted", s.suggestions)
		return domain.Internal(msgCheckUsernameFailed, NewServiceError("auth", "check_username", err))
	}

	s.log(ctx).Debug("username taken",
		"username", username,
		"suggestions", len(suggestions))
	return domain.Conflict(msgUsernameTaken).WithBody(SuggestedUsernamesKey, suggestions)
}

// CheckEmail implements AuthService.
func (s *AuthServiceImpl) CheckEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.BadRequest(msgEmailRequired)
	}
	if !domain.ValidEmail(email) {
		return domain.BadRequest(msgEmailInvalid)
	}

	registered, err := s.exists(ctx, store.UserFilter{Email: email})
	if err != nil {
		s.log(ctx).Error("failed to look up email",
			"error", redact.Error(err))
		return domain.Internal(msgCheckEmailFailed, NewServiceError("auth", "check_email", err))
	}
	if registered {
		return domain.Conflict(msgEmailTaken)
	}
	return nil
}

// Register implements AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user := &domain.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if user.Username == "" || user.Email == "" || in.Password == "" ||
		user.FirstName == "" || user.LastName == "" {
		return nil, domain.BadRequest(msgRegisterFields)
	}
	if !domain.ValidEmail(user.Email) {
		return nil, domain.BadRequest(msgEmailInvalid)
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, domain.BadRequest(msgPasswordTooLong)
	}

	registered, err := s.exists(ctx, store.UserFilter{
		Username: user.Username,
		Email:    user.Email,
		MatchAny: true,
	})
	if err != nil {
		s.log(ctx).Error("failed to check existing account",
			"error", redact.Error(err),
			"username", user.Username)
		return nil, domain.Internal(msgCreateUserFailed, NewServiceError("auth", "register", err))
	}
	if registered {
		s.log(ctx).Debug("registration rejected: account exists",
			"username", user.Username)
		return nil, domain.Conflict(msgUsernameTaken)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log(ctx).Error("failed to hash password",
			"error", redact.Error(err),
			"username", user.Username)
		return nil, domain.Internal(msgCreateUserFailed, NewServiceError("auth", "register", err))
	}
	user.HashedPassword = hashed

	// A concurrent registration can still win the unique constraint here.
	if err := s.users.Create(ctx, user); err != nil {
		s.log(ctx).Error("failed to save user to database",
			"error", redact.Error(err),
			"username", user.Username,
			"duplicate", store.IsDuplicateError(err))
		return nil, domain.Internal(msgCreateUserFailed, NewServiceError("auth", "register", err))
	}

	s.log(ctx).Info("user created successfully",
		"user_id", user.ID,
		"username", user.Username)
	return user, nil
}

// Login implements AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(in.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(in.Email)
	}
	if identifier == "" || in.Password == "" {
		return nil, domain.BadRequest(msgLoginFields)
	}

	user, err := s.users.FindOne(ctx, store.UserFilter{
		Username: identifier,
		Email:    identifier,
		MatchAny: true,
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.log(ctx).Debug("login for unknown account")
			return nil, domain.NotFound(msgUserNotRegistered)
		}
		s.log(ctx).Error("failed to load account for login",
			"error", redact.Error(err))
		return nil, domain.Internal(msgAuthenticationFailed, NewServiceError("auth", "login", err))
	}

	if !s.hasher.Verify(in.Password, user.HashedPassword) {
		s.log(ctx).Debug("login rejected: credentials mismatch",
			"user_id", user.ID)
		return nil, domain.Unauthorized(msgCredentialsMismatch)
	}

	token, err := s.tokens.Issue(ctx, user.Identity())
	if err != nil {
		s.log(ctx).Error("failed to issue token",
			"error", redact.Error(err),
			"user_id", user.ID)
		return nil, domain.Internal(msgAuthenticationFailed, NewServiceError("auth", "login", err))
	}

	s.log(ctx).Info("user logged in",
		"user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// exists reports whether an active user matches filter.
func (s *AuthServiceImpl) exists(ctx context.Context, filter store.UserFilter) (bool, error) {
	_, err := s.users.FindOne(ctx, filter)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}
