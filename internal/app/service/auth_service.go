package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"codetrek/internal/common"
	"codetrek/internal/common/security"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository"
	"codetrek/internal/platform/cache"
	"codetrek/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	msgRequired      = "This field is required."
	msgUsernameTaken = "A user with that username already exists."
	msgBadUsername   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgBadEmail      = "Enter a valid email address."
	msgPasswordMatch = "Passwords don't match."
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type AuthService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   repository.TokenRepository
	tx       repository.TxManager
	tokenMgr *security.TokenManager
	cache    cache.TokenCache
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	tokens repository.TokenRepository,
	tx repository.TxManager,
	tokenMgr *security.TokenManager,
	tokenCache cache.TokenCache,
	log *logger.Logger,
) *AuthService {
	if tokenCache == nil {
		tokenCache = cache.NopTokenCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		tx:       tx,
		tokenMgr: tokenMgr,
		cache:    tokenCache,
		log:      log.With("service", "AuthService"),
		now:      time.Now,
	}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Validate checks each field on its own; the password confirmation is
// compared separately once the fields are valid.
func (r RegisterRequest) Validate() error {
	v := &common.ValidationError{}
	switch {
	case r.Username == "":
		v.Add("username", msgRequired)
	case utf8.RuneCountInString(r.Username) > 150:
		v.Add("username", "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(r.Username):
		v.Add("username", msgBadUsername)
	}
	if r.Email != "" {
		addr, err := mail.ParseAddress(r.Email)
		if err != nil || addr.Address != r.Email || len(r.Email) > 254 {
			v.Add("email", msgBadEmail)
		}
	}
	switch {
	case r.Password == "":
		v.Add("password", msgRequired)
	case len(r.Password) > 128:
		v.Add("password", "Ensure this field has no more than 128 characters.")
	}
	if r.Password2 == "" {
		v.Add("password2", msgRequired)
	}
	return v.OrNil()
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.NewValidationError("username", msgUsernameTaken)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if req.Password != req.Password2 {
		return nil, common.NewValidationError("password", msgPasswordMatch)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		DateJoined:     s.now().UTC(),
	}
	profile := &model.UserProfile{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		PreferredLanguage: model.DefaultLanguage,
	}
	issued, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := s.profiles.Create(ctx, tx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return s.tokens.Save(ctx, tx, s.tokenRecord(user.ID, issued))
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			// lost a race with a concurrent registration of the same name
			return nil, common.NewValidationError("username", msgUsernameTaken)
		}
		return nil, err
	}

	s.remember(ctx, issued.ID, user.ID, issued.ExpiresAt)
	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return &AuthResponse{User: user, Token: issued.Token}, nil
}

// Login hands back the user's live token when there is one, otherwise a new one.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	v := &common.ValidationError{}
	if req.Username == "" {
		v.Add("username", msgRequired)
	}
	if req.Password == "" {
		v.Add("password", msgRequired)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	invalid := common.NewError(common.ErrUnauthorized, "Invalid credentials")
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, invalid
	}

	existing, err := s.tokens.FindByUserID(ctx, user.ID)
	switch {
	case err == nil && !existing.Expired(s.now()):
		s.remember(ctx, existing.Key, user.ID, existing.ExpiresAt)
		return &AuthResponse{User: user, Token: existing.Token}, nil
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	issued, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.tokens.Save(ctx, nil, s.tokenRecord(user.ID, issued)); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	if existing != nil {
		s.forget(ctx, existing.Key)
	}
	s.remember(ctx, issued.ID, user.ID, issued.ExpiresAt)
	return &AuthResponse{User: user, Token: issued.Token}, nil
}

// Logout revokes the token identified by tokenID.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if err := s.tokens.DeleteByKey(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	s.forget(ctx, tokenID)
	return nil
}

// Authenticate confirms that a signature-verified token has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, tokenID, userID string) error {
	if cached, ok, err := s.cache.Get(ctx, tokenID); err != nil {
		s.log.Warn("Token cache read failed", "error", err)
	} else if ok {
		if cached != userID {
			return common.ErrUnauthorized
		}
		return nil
	}

	t, err := s.tokens.FindByKey(ctx, tokenID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if t.UserID != userID || t.Expired(s.now()) {
		return common.ErrUnauthorized
	}
	s.remember(ctx, t.Key, t.UserID, t.ExpiresAt)
	return nil
}

func (s *AuthService) tokenRecord(userID string, issued *security.IssuedToken) *model.AuthToken {
	return &model.AuthToken{
		Key:       issued.ID,
		UserID:    userID,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		CreatedAt: s.now().UTC(),
	}
}

func (s *AuthService) remember(ctx context.Context, tokenID, userID string, expiresAt time.Time) {
	if err := s.cache.Set(ctx, tokenID, userID, expiresAt.Sub(s.now())); err != nil {
		s.log.Warn("Token cache write failed", "error", err)
	}
}

func (s *AuthService) forget(ctx context.Context, tokenID string) {
	if err := s.cache.Delete(ctx, tokenID); err != nil {
		s.log.Warn("Token cache delete failed", "error", err)
	}
}
