package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prochatbot/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already exists")
)

type UserService struct {
	db     *gorm.DB
	stats  *StatsService
	logger *logrus.Logger
}

func NewUserService(db *gorm.DB, stats *StatsService, logger *logrus.Logger) *UserService {
	return &UserService{db: db, stats: stats, logger: logger}
}

type NewUser struct {
	Firstname  string
	Middlename string
	Lastname   string
	Email      string
	Password   string
	Role       model.Role
	SchoolID   *uint
}

func (s *UserService) Register(ctx context.Context, input NewUser) (*model.User, error) {
	db := s.db.WithContext(ctx)

	// 唯一性检查
	if model.UserExists(db, input.Email) {
		return nil, ErrEmailTaken
	}

	// 密码加密
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = model.RoleStudent
	}
	user := &model.User{
		Firstname:  input.Firstname,
		Middlename: input.Middlename,
		Lastname:   input.Lastname,
		Email:      input.Email,
		Password:   string(hashedPassword),
		Role:       role,
		SchoolID:   input.SchoolID,
	}
	if err := model.CreateUser(db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials, returns the user plus an access token, and
// records the login in the school statistics. The statistics write is best
// effort and never fails the login.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	db := s.db.WithContext(ctx)

	user, err := model.GetUserByEmail(db, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	ts := &TokenService{}
	token, err := ts.CreateToken(user.ID, user.Firstname)
	if err != nil {
		s.logger.Warnf("generate token for user %d failed: %v", user.ID, err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if user.SchoolID != nil {
		if result := s.stats.RecordLogin(ctx, user.ID, *user.SchoolID); result == RecordFailed {
			s.logger.Warnf("login statistics not recorded for user %d", user.ID)
		}
	} else {
		s.logger.Warnf("user %d has no school, login not counted", user.ID)
	}

	return user, token.AccessToken, nil
}

func (s *UserService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	db := s.db.WithContext(ctx)

	user, err := model.GetUserByEmail(db, email)
	if err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return model.UpdateUserPassword(db, user.ID, string(hashed))
}

func (s *UserService) ChangeName(ctx context.Context, email, firstname, lastname string) error {
	db := s.db.WithContext(ctx)

	user, err := model.GetUserByEmail(db, email)
	if err != nil {
		return ErrUserNotFound
	}
	return model.UpdateUserName(db, user.ID, firstname, lastname)
}

type UserUpdate struct {
	Firstname   string
	Middlename  string
	Lastname    string
	Email       string
	OldPassword string
	NewPassword string
}

// UpdateProfile updates the profile fields; a password change additionally
// requires the old password to verify.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UserUpdate) error {
	db := s.db.WithContext(ctx)

	user, err := model.GetUser(db, userID)
	if err != nil {
		return ErrUserNotFound
	}

	password := user.Password
	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
			return ErrInvalidCredentials
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		password = string(hashed)
	}

	user.Firstname = input.Firstname
	user.Middlename = input.Middlename
	user.Lastname = input.Lastname
	user.Email = input.Email
	user.Password = password
	return model.UpdateUser(db, user)
}

func (s *UserService) ListStudents(ctx context.Context) ([]model.User, error) {
	return model.GetUsersByRoles(s.db.WithContext(ctx), model.RoleStudent)
}

func (s *UserService) ListTeachersAndAdmins(ctx context.Context) ([]model.User, error) {
	return model.GetUsersByRoles(s.db.WithContext(ctx), model.RoleTeacher, model.RoleAdmin)
}

func (s *UserService) School(ctx context.Context, userID uint) (*model.School, error) {
	return model.GetUserSchool(s.db.WithContext(ctx), userID)
}

func (s *UserService) Delete(ctx context.Context, userID uint) (*model.User, error) {
	db := s.db.WithContext(ctx)

	user, err := model.GetUser(db, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if err := model.DeleteUser(db, userID); err != nil {
		return nil, err
	}
	return user, nil
}
