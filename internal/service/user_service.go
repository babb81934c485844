package service

import (
	"context"
	"errors"
	"mime/multipart"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Media    *MediaService
}

func NewUserService(userRepo *repository.UserRepository, media *MediaService) *UserService {
	return &UserService{UserRepo: userRepo, Media: media}
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("user")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(page, limit int, keyword string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, keyword)
}

func (s *UserService) UpdateProfile(id uint, name string) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	url, err := s.Media.UploadImage(ctx, file, "avatars")
	if err != nil {
		return nil, err
	}

	// 旧头像尽力清理
	if user.Avatar != "" {
		s.Media.DeleteRemote(ctx, model.MediaImage, user.Avatar)
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(id uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return util.ValidationError("password must be at least 6 characters")
	}
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ValidationError("incorrect old password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdateFields(id, map[string]interface{}{"password": string(hashed)})
}

// SetRole 管理员调整用户角色
func (s *UserService) SetRole(id uint, role model.UserRole) (*model.User, error) {
	switch role {
	case model.Student, model.Lecturer, model.Admin:
	default:
		return nil, util.ValidationError("unknown role")
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetDisabled 管理员启用/禁用账号
func (s *UserService) SetDisabled(id uint, disabled bool) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(id, disabled)
}

func (s *UserService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}
