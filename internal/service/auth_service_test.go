package service

import (
	"testing"

	"course_edu_backend/internal/config"
	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
)

func TestRegisterForcesStudentRole(t *testing.T) {
	s := NewAuthService(repository.NewUserRepository(newTestDB(t)), &config.Config{})

	// 请求体里塞进来的角色不能生效
	user := &model.User{Name: "新用户", Email: "new@test.dev", Password: "secret123", Role: model.Lecturer}
	if err := s.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Student {
		t.Fatalf("expected student role, got %q", user.Role)
	}

	stored, err := s.UserRepo.FindByEmail("new@test.dev")
	if err != nil {
		t.Fatalf("find registered user: %v", err)
	}
	if stored.Role != model.Student {
		t.Fatalf("stored role should be student, got %q", stored.Role)
	}
}
