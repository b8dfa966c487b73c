package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "projecthub/internal/errors"
	"projecthub/internal/fallback"
	"projecthub/internal/model"
)

var profileColumns = []string{
	"first_name", "last_name", "phone", "date_of_birth", "designation", "department",
	"experience", "skills", "address", "city", "state", "country", "postal_code",
	"bio", "linkedin_profile", "github_profile",
}

var credentialColumns = []string{"username", "email", "password"}

// UserCreateTiers are tried in order when inserting a user.
var UserCreateTiers = []fallback.FieldSet{
	{
		Name:      "full",
		Columns:   concat(credentialColumns, profileColumns),
		Returning: []string{"id", "username", "email", "first_name", "last_name", "designation", "created_at"},
	},
	{
		Name:      "basic",
		Columns:   credentialColumns,
		Returning: []string{"id", "username", "email"},
	},
}

// UserReadTiers are tried in order when loading a user by id.
var UserReadTiers = []fallback.FieldSet{
	{Name: "full", Columns: concat([]string{"id", "username", "email"}, profileColumns, []string{"created_at"})},
	{Name: "basic", Columns: []string{"id", "username", "email"}},
}

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log.Named("users")}
}

// Create inserts user with its profile, falling back to credentials only
// when the store has no profile columns.
func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	values := user.ColumnValues()
	created, err := fallback.Run(ctx, r.log, "create user", UserCreateTiers, func(ctx context.Context, fs fallback.FieldSet) (*model.User, error) {
		var out model.User
		if err := insertReturning(ctx, r.db, "users", fs, values, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// FindByID loads the public profile of a user. The password is never read.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := fallback.Run(ctx, r.log, "find user", UserReadTiers, func(ctx context.Context, fs fallback.FieldSet) (*model.User, error) {
		var out model.User
		query := fmt.Sprintf("SELECT %s FROM users WHERE id = ? LIMIT 1", quoteColumns("", fs.Columns))
		res := r.db.WithContext(ctx).Raw(query, id).Scan(&out)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, apperrors.ErrUserNotFound
		}
		return &out, nil
	})
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return user, nil
}

// FindByEmail loads a user including the password hash, for login.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	res := r.db.WithContext(ctx).Raw("SELECT * FROM users WHERE email = ? LIMIT 1", email).Scan(&user)
	if res.Error != nil {
		return nil, fmt.Errorf("find user by email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}
