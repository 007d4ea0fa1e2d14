package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/bikeshare/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = `email, password, name, gender, phone, profile_image`

type UserRepository interface {
	Register(ctx context.Context, user *model.User) error
	ByCredentials(ctx context.Context, email, passwordDigest string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, email, name, gender, phone, profileImage string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Register inserts a new user. The profile image always starts empty.
func (r *userRepository) Register(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, user.Email, user.Password, user.Name, user.Gender, user.Phone, "")
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.ProfileImage = ""
	return nil
}

func (r *userRepository) ByCredentials(ctx context.Context, email, passwordDigest string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND password = $2`

	err := r.db.GetContext(ctx, user, query, email, passwordDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile overwrites every mutable column. Email is the key and never changes.
func (r *userRepository) UpdateProfile(ctx context.Context, email, name, gender, phone, profileImage string) error {
	query := `UPDATE users SET name = $1, gender = $2, phone = $3, profile_image = $4 WHERE email = $5`

	result, err := r.db.ExecContext(ctx, query, name, gender, phone, profileImage, email)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// isUniqueViolation works for both SQLite and PostgreSQL
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}
