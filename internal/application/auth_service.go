package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	repo "github.com/Vadim-3/b2-hm14/internal/domain/repository"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
	"github.com/Vadim-3/b2-hm14/pkg/mailer"
	tpl "github.com/Vadim-3/b2-hm14/pkg/mailer/templates"
)

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthOptions configures confirmation emails.
type AuthOptions struct {
	AppName     string
	ConfirmURL  string
	SupportURL  string
	ConfirmTTL  time.Duration
	MailEnabled bool
}

// AuthService issues credentials and handles email confirmation.
type AuthService struct {
	Repo   repo.AccountRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Mail   EmailPublisher
	Logger *logrus.Logger
	Opts   AuthOptions
}

type confirmToken struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

func NewAuthService(r repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, mail EmailPublisher, logger *logrus.Logger, opts AuthOptions) *AuthService {
	if opts.ConfirmTTL <= 0 {
		opts.ConfirmTTL = 24 * time.Hour
	}
	return &AuthService{Repo: r, JWT: jwt, Redis: rdb, Mail: mail, Logger: logger, Opts: opts}
}

// Signup registers a new, unconfirmed account and sends the confirmation email.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.Account, error) {
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	avatar := helpers.GravatarURL(in.Email)
	a := &entity.Account{Username: in.Username, Email: in.Email, Password: hash, Avatar: &avatar}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.sendConfirmation(ctx, a)
	return a, nil
}

// Login checks credentials and stores the new refresh token on the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.Account, TokenPair, error) {
	a, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("lookup account: %w", err)
	}
	if a == nil || !helpers.CompareHashAndPassword(a.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !a.Confirmed {
		return nil, TokenPair{}, ErrEmailNotConfirmed
	}
	pair, err := s.issue(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return a, pair, nil
}

// Refresh rotates the token pair. A refresh token that does not match the
// stored one revokes the stored token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	a, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("load account: %w", err)
	}
	if a == nil {
		return TokenPair{}, ErrInvalidToken
	}
	if a.RefreshToken == nil || *a.RefreshToken != refreshToken {
		if err := s.Repo.UpdateRefreshToken(ctx, a.ID, nil); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Warn("revoke refresh token failed")
		}
		return TokenPair{}, ErrInvalidToken
	}
	return s.issue(ctx, a)
}

func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if err := s.Repo.UpdateRefreshToken(ctx, accountID, nil); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// ConfirmEmail consumes a confirmation token.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	if s.Redis == nil {
		return ErrInvalidToken
	}
	var ct confirmToken
	found, err := helpers.RedisGetJSON(ctx, s.Redis, helpers.KeyConfirmEmail(token), &ct)
	if err != nil {
		return fmt.Errorf("read confirm token: %w", err)
	}
	if !found {
		return ErrInvalidToken
	}
	if err := s.Repo.SetConfirmed(ctx, ct.Email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("confirm account: %w", err)
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.KeyConfirmEmail(token)); err != nil {
		helpers.LogWarn(s.Logger, "confirm token delete failed", err, logrus.Fields{"email": ct.Email})
	}
	return nil
}

// RequestEmail re-sends the confirmation email. Unknown addresses are
// accepted silently.
func (s *AuthService) RequestEmail(ctx context.Context, email string) (alreadyConfirmed bool, err error) {
	a, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("lookup account: %w", err)
	}
	if a == nil {
		return false, nil
	}
	if a.Confirmed {
		return true, nil
	}
	s.sendConfirmation(ctx, a)
	return false, nil
}

func (s *AuthService) issue(ctx context.Context, a *entity.Account) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	if err := s.Repo.UpdateRefreshToken(ctx, a.ID, &refresh); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	a.RefreshToken = &refresh
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// sendConfirmation stores a confirmation token and enqueues the email.
// Failures are logged; signup does not depend on mail delivery.
func (s *AuthService) sendConfirmation(ctx context.Context, a *entity.Account) {
	if s.Redis == nil {
		return
	}
	tok, err := helpers.GenToken(32)
	if err != nil {
		helpers.LogWarn(s.Logger, "confirm token generation failed", err, logrus.Fields{"account_id": a.ID})
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, helpers.KeyConfirmEmail(tok), confirmToken{AccountID: a.ID, Email: a.Email}, s.Opts.ConfirmTTL); err != nil {
		helpers.LogWarn(s.Logger, "confirm token store failed", err, logrus.Fields{"account_id": a.ID})
		return
	}
	if s.Mail == nil || !s.Opts.MailEnabled {
		return
	}
	data := tpl.NewConfirmEmailData(
		s.Opts.AppName,
		a.Username,
		a.Email,
		s.Opts.ConfirmURL+"/"+tok,
		tpl.WithExpiresIn(s.Opts.ConfirmTTL),
		tpl.WithSupportURL(s.Opts.SupportURL),
	)
	job := mailer.EmailJob{To: a.Email, Template: tpl.ConfirmEmail, Data: data}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "publish confirm email failed", err, logrus.Fields{"account_id": a.ID})
	}
}
