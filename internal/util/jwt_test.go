package util

import (
	"testing"
	"time"

	"course_edu_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Role: model.Lecturer, Email: "lect@test.dev"}
	user.ID = 7

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.Lecturer || claims.Email != "lect@test.dev" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Fatal("expired token must not parse")
	}
}
