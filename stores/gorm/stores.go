package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
)

// AutoMigrate runs database migrations for all skroll tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{})
}

// UserStore implements skroll.UserStore using GORM. Open the DB with
// TranslateError enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*skroll.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*skroll.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *UserStore) GetUserByGoogleID(ctx context.Context, googleID string) (*skroll.User, error) {
	return s.getUser(ctx, "google_id = ?", googleID)
}

func (s *UserStore) getUser(ctx context.Context, query string, arg any) (*skroll.User, error) {
	var model UserModel
	err := s.db.WithContext(ctx).First(&model, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, skroll.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToUser(), nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *skroll.User) (*skroll.User, error) {
	model := UserToModel(user)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Create(model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, skroll.ErrEmailExists
	}
	if err != nil {
		return nil, err
	}
	return model.ToUser(), nil
}

func (s *UserStore) LinkGoogleID(ctx context.Context, userID, googleID string) (*skroll.User, error) {
	res := s.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", userID).
		Update("google_id", googleID)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, skroll.ErrEmailExists
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, skroll.ErrUserNotFound
	}
	return s.GetUserByID(ctx, userID)
}
