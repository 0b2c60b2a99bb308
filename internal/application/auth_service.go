package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/virenradadiya3/todo/config"
	"github.com/virenradadiya3/todo/internal/domain/entity"
	repo "github.com/virenradadiya3/todo/internal/domain/repository"
	"github.com/virenradadiya3/todo/pkg/helpers"
	"github.com/virenradadiya3/todo/pkg/mailer"
	tpl "github.com/virenradadiya3/todo/pkg/mailer/templates"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid or has expired")
)

const resetTokenTTL = time.Hour

// AuthService owns registration, login, logout (token revocation) and the
// password-reset flow.
type AuthService struct {
	Users     repo.UserRepository
	Blacklist repo.TokenBlacklist
	JWT       *helpers.JWTManager
	Pub       *helpers.RabbitPublisher
	Logger    *logrus.Logger
	Cfg       *config.Config
}

func NewAuthService(users repo.UserRepository, blacklist repo.TokenBlacklist, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Blacklist: blacklist, JWT: jwt, Pub: pub, Logger: logger, Cfg: cfg}
}

// Register creates a user and returns it with a fresh auth token. The
// password is hashed exactly once, here, before it reaches the repository.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		// Lost the race against a concurrent registration with the same email.
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login validates email/password and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout writes the token into the revocation ledger with the token's own
// expiry. The ledger write is idempotent, so logging out twice with the same
// token succeeds both times.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		// The guard already verified this token; a parse failure here is an
		// internal fault, not a client error.
		return err
	}
	return s.Blacklist.Revoke(ctx, token, claims.ExpiresAt.Time)
}

// ForgotPassword stores a fresh reset token on the user record and queues the
// reset email. Unknown email surfaces as ErrUserNotFound.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := genResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTokenTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, token, expires); err != nil {
		return err
	}

	resetURL := s.Cfg.ResetPasswordURL + "/" + token
	if s.Pub != nil && s.Cfg.MailSendEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: tpl.TemplateResetPassword,
			Data: map[string]any{
				"Name":      u.Name,
				"ResetURL":  resetURL,
				"ExpiresIn": resetTokenTTL.String(),
			},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to enqueue reset email")
		}
	}
	return nil
}

// ResetPassword completes the flow: valid unexpired token, hash the new
// secret exactly once, clear both reset fields.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.Users.GetByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.CompleteReset(ctx, u.ID, hash)
}

// genResetToken returns 20 crypto-random bytes hex encoded.
func genResetToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
