package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"course_edu_backend/internal/config"
	"course_edu_backend/internal/repository"
	"course_edu_backend/pkg/database"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeStorageProvider 记录删除调用，可配置为返回错误
type fakeStorageProvider struct {
	mu          sync.Mutex
	deleted     []string
	deletedDirs []string
	failDeletes bool
}

func (f *fakeStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	return key, nil
}

func (f *fakeStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	return key, nil
}

func (f *fakeStorageProvider) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeStorageProvider) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes {
		return context.DeadlineExceeded
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorageProvider) DeleteDirectory(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes {
		return context.DeadlineExceeded
	}
	f.deletedDirs = append(f.deletedDirs, prefix)
	return nil
}

func (f *fakeStorageProvider) PresignUpload(ctx context.Context, key string, expire time.Duration) (string, error) {
	return "http://example.test/presigned/" + key, nil
}

func (f *fakeStorageProvider) GetURL(key string) string {
	return "/" + key
}

type testStack struct {
	db         *gorm.DB
	storage    *fakeStorageProvider
	media      *MediaService
	course     *CourseService
	lesson     *LessonService
	assignment *AssignmentService
	exam       *ExamService
	question   *QuestionService
	picker     *QuestionPicker
	result     *ResultService

	repos struct {
		user       *repository.UserRepository
		course     *repository.CourseRepository
		lesson     *repository.LessonRepository
		assignment *repository.AssignmentRepository
		exam       *repository.ExamRepository
		question   *repository.QuestionRepository
		result     *repository.ResultRepository
		progress   *repository.ProgressRepository
	}
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Transcode.TimeoutMinutes = 10
	nop := zap.NewNop()

	s := &testStack{db: db, storage: &fakeStorageProvider{}}
	s.repos.user = repository.NewUserRepository(db)
	s.repos.course = repository.NewCourseRepository(db)
	s.repos.lesson = repository.NewLessonRepository(db)
	s.repos.assignment = repository.NewAssignmentRepository(db)
	s.repos.exam = repository.NewExamRepository(db)
	s.repos.question = repository.NewQuestionRepository(db)
	s.repos.result = repository.NewResultRepository(db)
	s.repos.progress = repository.NewProgressRepository(db)

	storageService := &StorageService{Provider: s.storage, cfg: cfg}
	cdn := NewCDNService(cfg)
	mail := NewMailService(cfg, nop)
	s.media = NewMediaService(storageService, cdn, mail, nil, cfg, nop)

	s.assignment = NewAssignmentService(s.repos.assignment, s.repos.lesson, nop)
	s.exam = NewExamService(s.repos.exam, s.repos.course, nop)
	s.lesson = NewLessonService(s.repos.lesson, s.repos.course, s.repos.assignment, s.assignment, s.media, nop)
	s.course = NewCourseService(s.repos.course, s.repos.lesson, s.repos.exam, s.repos.progress, s.lesson, s.exam, s.media, nop)
	s.question = NewQuestionService(s.repos.question, s.repos.assignment, s.repos.exam)
	s.picker = NewQuestionPicker(s.repos.question, s.repos.assignment, s.repos.exam)
	s.result = NewResultService(db, s.repos.result, s.repos.progress, s.repos.lesson, s.repos.assignment, s.repos.exam)

	return s
}
