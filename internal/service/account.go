package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/templui/bikeshare/internal/model"
	"github.com/templui/bikeshare/internal/repository"
	"github.com/templui/bikeshare/internal/storage"
)

var (
	ErrDuplicateAccount     = errors.New("account already exists")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrStorage              = errors.New("storage unavailable")
	ErrProfileNotFound      = errors.New("profile not found")
)

type AccountService struct {
	userRepository repository.UserRepository
	storage        storage.Storage
	digester       Digester
}

func NewAccountService(
	userRepository repository.UserRepository,
	storage storage.Storage,
	digester Digester,
) *AccountService {
	return &AccountService{
		userRepository: userRepository,
		storage:        storage,
		digester:       digester,
	}
}

func (s *AccountService) RegisterUser(ctx context.Context, email, password, name, gender, phone string) (*model.User, error) {
	user := &model.User{
		Email:    strings.TrimSpace(email),
		Password: s.digester.Digest(password),
		Name:     name,
		Gender:   gender,
		Phone:    phone,
	}

	err := s.userRepository.Register(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, fmt.Errorf("%w: %w", ErrDuplicateAccount, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to register user: %w", ErrStorage, err)
	}

	return user, nil
}

// Authenticate returns ErrAuthenticationFailed for an unknown email and for
// a wrong password alike.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepository.ByCredentials(ctx, strings.TrimSpace(email), s.digester.Digest(password))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrAuthenticationFailed
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up credentials: %w", ErrStorage, err)
	}

	return user, nil
}

func (s *AccountService) LoadProfile(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load profile: %w", ErrStorage, err)
	}

	user.ProfileImageURL = s.ImageURL(user.ProfileImage)
	return user, nil
}

func (s *AccountService) SaveProfile(ctx context.Context, email, name, gender, phone, imagePath string) error {
	err := s.userRepository.UpdateProfile(ctx, email, name, gender, phone, imagePath)
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, email)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to save profile: %w", ErrStorage, err)
	}

	return nil
}

// ReplaceProfileImage writes image to the key derived from email and
// returns the key to store as the profile image path. Image validation
// (type, size) is done by the caller.
func (s *AccountService) ReplaceProfileImage(ctx context.Context, email string, image io.Reader) (string, error) {
	key := storage.ProfileImageKey(email)

	err := s.storage.Save(ctx, key, image)
	if err != nil {
		return "", fmt.Errorf("%w: failed to save profile image: %w", ErrStorage, err)
	}

	return key, nil
}

// ImageURL returns the URL a browser can load the image from, or "" when
// the user has no image.
func (s *AccountService) ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return s.storage.URL(imagePath)
}
