package service

import (
	"errors"

	"course_edu_backend/internal/config"
	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	if user.Email == "" || user.Password == "" || user.Name == "" {
		return util.ValidationError("name, email and password are required")
	}

	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ValidationError("该邮箱已被注册")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	// 注册入口只产生学生账号，讲师与管理员由管理员指派
	user.Role = model.Student
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.UnauthorizedError("invalid credentials")
	}
	if user.Disabled {
		return "", nil, util.ForbiddenError("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.UnauthorizedError("invalid credentials")
	}

	s.UserRepo.UpdateLastLogin(user.ID)

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
