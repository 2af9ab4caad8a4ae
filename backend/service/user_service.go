package service

import (
	"context"
	"errors"
	"fmt"

	"linkboard/backend/common"
	lberrors "linkboard/backend/common/errors"
	"linkboard/backend/common/i18n"
	"linkboard/backend/model"
)

// UserStore is the part of model.UserRepository the user service needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
}

type NewUser struct {
	Name     string `validate:"required,max=64"`
	Email    string `validate:"required,email,max=128"`
	Password string `validate:"required,min=8,max=72"`
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// CreateUser registers a common user with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, input NewUser, role int) (*model.User, error) {
	lang := common.LangFromContext(ctx)
	if err := common.Validate.Struct(input); err != nil {
		return nil, i18n.Wrap(err, lberrors.ErrInvalidParam, lang, err.Error())
	}

	taken, err := s.users.IsEmailTaken(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, i18n.New(lberrors.ErrEmailTaken, lang)
	}

	hash, err := common.Password2Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     role,
		Status:   common.UserStatusEnabled,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken checks the credentials and returns a fresh access token.
func (s *UserService) IssueToken(ctx context.Context, email string, password string) (string, *model.User, error) {
	lang := common.LangFromContext(ctx)
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return "", nil, i18n.New(lberrors.ErrInvalidCredentials, lang)
		}
		return "", nil, err
	}
	if !common.ValidatePasswordAndHash(password, user.Password) {
		return "", nil, i18n.New(lberrors.ErrInvalidCredentials, lang)
	}
	if user.Status == common.UserStatusDisabled {
		return "", nil, i18n.New(lberrors.ErrUserDisabled, lang)
	}

	token, err := GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}
