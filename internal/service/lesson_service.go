package service

import (
	"context"
	"errors"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo        *repository.LessonRepository
	CourseRepo        *repository.CourseRepository
	AssignmentRepo    *repository.AssignmentRepository
	AssignmentService *AssignmentService
	Media             *MediaService
	logger            *zap.Logger
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, assignmentRepo *repository.AssignmentRepository, assignmentService *AssignmentService, media *MediaService, logger *zap.Logger) *LessonService {
	return &LessonService{
		LessonRepo:        lessonRepo,
		CourseRepo:        courseRepo,
		AssignmentRepo:    assignmentRepo,
		AssignmentService: assignmentService,
		Media:             media,
		logger:            logger,
	}
}

func (s *LessonService) checkOwnership(lessonID, actorID uint, actorRole model.UserRole) error {
	lecturerID, err := s.LessonRepo.LecturerID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("lesson")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("lesson belongs to another lecturer")
	}
	return nil
}

func (s *LessonService) Create(lesson *model.Lesson, actorID uint, actorRole model.UserRole) error {
	lecturerID, err := s.CourseRepo.LecturerID(lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("course")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("course belongs to another lecturer")
	}
	return s.LessonRepo.Create(lesson)
}

func (s *LessonService) Get(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("lesson")
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(courseID uint) ([]model.Lesson, error) {
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) Update(id uint, actorID uint, actorRole model.UserRole, title string) (*model.Lesson, error) {
	if err := s.checkOwnership(id, actorID, actorRole); err != nil {
		return nil, err
	}
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	lesson.Title = title
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Delete 级联删除课时：内容（含远端媒体）→ 完成记录 → 作业 → 课时本身。
// 任一内容或作业删除失败立即中止，错误里带上失败子资源的 id。
func (s *LessonService) Delete(ctx context.Context, id uint, actorID uint, actorRole model.UserRole) error {
	if err := s.checkOwnership(id, actorID, actorRole); err != nil {
		return err
	}

	contents, err := s.LessonRepo.ListContentsByLesson(id)
	if err != nil {
		return err
	}
	for _, content := range contents {
		if err := s.DeleteContent(ctx, content.ID, actorID, actorRole); err != nil {
			return &util.CascadeError{Resource: "lesson content", ID: content.ID, Err: err}
		}
	}

	if err := s.LessonRepo.DeleteCompletedByLesson(id); err != nil {
		return &util.CascadeError{Resource: "completed lessons", ID: id, Err: err}
	}

	assignments, err := s.AssignmentRepo.ListByLesson(id)
	if err != nil {
		return err
	}
	for _, assignment := range assignments {
		if err := s.AssignmentService.Delete(assignment.ID, actorID, actorRole); err != nil {
			return &util.CascadeError{Resource: "assignment", ID: assignment.ID, Err: err}
		}
	}

	if err := s.LessonRepo.Delete(id); err != nil {
		return &util.CascadeError{Resource: "lesson", ID: id, Err: err}
	}

	s.logger.Info("课时已级联删除", zap.Uint("lesson_id", id))
	return nil
}

func (s *LessonService) CreateContent(content *model.LessonContent, actorID uint, actorRole model.UserRole) error {
	if err := s.checkOwnership(content.LessonID, actorID, actorRole); err != nil {
		return err
	}
	return s.LessonRepo.CreateContent(content)
}

func (s *LessonService) GetContent(id uint) (*model.LessonContent, error) {
	content, err := s.LessonRepo.FindContentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("lesson content")
		}
		return nil, err
	}
	return content, nil
}

func (s *LessonService) ListContents(lessonID uint) ([]model.LessonContent, error) {
	return s.LessonRepo.ListContentsByLesson(lessonID)
}

func (s *LessonService) UpdateContent(id uint, actorID uint, actorRole model.UserRole, text string) (*model.LessonContent, error) {
	content, err := s.GetContent(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(content.LessonID, actorID, actorRole); err != nil {
		return nil, err
	}
	content.Text = text
	if err := s.LessonRepo.UpdateContent(content); err != nil {
		return nil, err
	}
	return content, nil
}

// DeleteContent 删除课时内容，远端媒体清理尽力而为，不阻塞行删除
func (s *LessonService) DeleteContent(ctx context.Context, id uint, actorID uint, actorRole model.UserRole) error {
	content, err := s.GetContent(id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(content.LessonID, actorID, actorRole); err != nil {
		return err
	}

	if content.MediaRef != "" {
		s.Media.DeleteRemote(ctx, content.MediaType, content.MediaRef)
	}

	return s.LessonRepo.DeleteContent(id)
}
