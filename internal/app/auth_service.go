package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/jwt"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/password"
)

// AuthService handles registration and login. Issued tokens identify
// the principal only; tenant scope and permissions are resolved per
// request.
type AuthService struct {
	userRepo user.Repository
	hasher   *password.Hasher
	tokens   *jwt.Manager
	logger   *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo user.Repository, hasher *password.Hasher, tokens *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   log.With("service", "auth"),
	}
}

// RegisterInput represents the input for registering a user.
type RegisterInput struct {
	CompanyID string `validate:"required,uuid"`
	Email     string `validate:"required,email"`
	Name      string `validate:"required,min=1,max=255"`
	Password  string `validate:"required,min=8,max=72"`
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	companyID, err := shared.IDFromString(input.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid company id", shared.ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s", shared.ErrAlreadyExists, email)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	u, err := user.New(companyID, email, input.Name, hash)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", u.ID(), "email", email)
	return u, nil
}

// LoginResult carries the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *user.User
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid credentials", shared.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Verify(plain, u.PasswordHash()); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", shared.ErrUnauthorized)
	}

	token, err := s.tokens.Generate(u.ID().String(), u.CompanyID().String(), u.Email(), u.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID())
	return &LoginResult{Token: token, User: u}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id shared.ID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
