package application

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	repo "github.com/Vadim-3/b2-hm14/internal/domain/repository"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

// AccountService resolves callers and manages the caller's own account.
type AccountService struct {
	Repo   repo.AccountRepository
	JWT    *helpers.JWTManager
	Images ImageHost
	Logger *logrus.Logger
}

func NewAccountService(r repo.AccountRepository, jwt *helpers.JWTManager, images ImageHost, logger *logrus.Logger) *AccountService {
	return &AccountService{Repo: r, JWT: jwt, Images: images, Logger: logger}
}

// Resolve maps an access token to its account.
func (s *AccountService) Resolve(ctx context.Context, accessToken string) (*entity.Account, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	a, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	return a, nil
}

func (s *AccountService) Profile(ctx context.Context, id string) (*entity.Account, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// UpdateAvatar uploads the image and stores its URL on the caller's account.
// On upload failure the account is left untouched.
func (s *AccountService) UpdateAvatar(ctx context.Context, caller *entity.Account, r io.Reader, contentType string) (*entity.Account, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if s.Images == nil {
		return nil, fmt.Errorf("%w: image host not configured", ErrImageUpload)
	}
	url, err := s.Images.Upload(ctx, AvatarPublicID(caller), contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", caller.ID).Error("avatar upload failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	a, err := s.Repo.UpdateAvatar(ctx, caller.ID, url)
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// AvatarPublicID names the hosted image of an account.
func AvatarPublicID(a *entity.Account) string {
	return "avatars/" + a.ID
}
