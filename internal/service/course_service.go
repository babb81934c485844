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

type CourseService struct {
	CourseRepo    *repository.CourseRepository
	LessonRepo    *repository.LessonRepository
	ExamRepo      *repository.ExamRepository
	ProgressRepo  *repository.ProgressRepository
	LessonService *LessonService
	ExamService   *ExamService
	Media         *MediaService
	logger        *zap.Logger
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository, examRepo *repository.ExamRepository, progressRepo *repository.ProgressRepository, lessonService *LessonService, examService *ExamService, media *MediaService, logger *zap.Logger) *CourseService {
	return &CourseService{
		CourseRepo:    courseRepo,
		LessonRepo:    lessonRepo,
		ExamRepo:      examRepo,
		ProgressRepo:  progressRepo,
		LessonService: lessonService,
		ExamService:   examService,
		Media:         media,
		logger:        logger,
	}
}

func (s *CourseService) Create(course *model.Course) error {
	if course.Title == "" {
		return util.ValidationError("course title is required")
	}
	return s.CourseRepo.Create(course)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("course")
		}
		return nil, err
	}
	return course, nil
}

// CourseDetail 课程详情，含课时列表与考试、进度概览
type CourseDetail struct {
	Course   *model.Course   `json:"course"`
	Lessons  []model.Lesson  `json:"lessons"`
	HasExam  bool            `json:"has_exam"`
	Progress *model.Progress `json:"progress,omitempty"`
}

// GetDetail callerID 为 0 时按游客处理，不附带学习进度
func (s *CourseService) GetDetail(id, callerID uint) (*CourseDetail, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	lessons, err := s.LessonRepo.ListByCourse(id)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{Course: course, Lessons: lessons}
	if _, err := s.ExamRepo.FindByCourse(id); err == nil {
		detail.HasExam = true
	}
	if callerID != 0 {
		if progress, err := s.ProgressRepo.FindByStudentAndCourse(callerID, id); err == nil {
			detail.Progress = progress
		}
	}
	return detail, nil
}

func (s *CourseService) List(page, limit int, keyword, difficulty string) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, keyword, model.CourseDifficulty(difficulty))
}

func (s *CourseService) ListByLecturer(lecturerID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByLecturer(lecturerID)
}

func (s *CourseService) Update(id uint, actorID uint, actorRole model.UserRole, updated *model.Course) (*model.Course, error) {
	course, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actorRole != model.Admin && course.LecturerID != actorID {
		return nil, util.ForbiddenError("course belongs to another lecturer")
	}

	course.Title = updated.Title
	course.Description = updated.Description
	course.Price = updated.Price
	course.Difficulty = updated.Difficulty
	course.Keywords = updated.Keywords
	if updated.Avatar != "" {
		course.Avatar = updated.Avatar
	}
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete 级联删除课程：进度 → 考试 → 课时 → 封面远端对象 → 课程本身。
// 子级联失败立即中止并报告失败资源，已完成的阶段不回滚。
func (s *CourseService) Delete(ctx context.Context, id uint, actorID uint, actorRole model.UserRole) error {
	course, err := s.Get(id)
	if err != nil {
		return err
	}
	if actorRole != model.Admin && course.LecturerID != actorID {
		return util.ForbiddenError("course belongs to another lecturer")
	}

	if err := s.ProgressRepo.DeleteByCourse(id); err != nil {
		return &util.CascadeError{Resource: "progress", ID: id, Err: err}
	}

	exams, err := s.ExamRepo.ListByCourse(id)
	if err != nil {
		return err
	}
	for _, exam := range exams {
		if err := s.ExamService.Delete(exam.ID, actorID, actorRole); err != nil {
			return &util.CascadeError{Resource: "exam", ID: exam.ID, Err: err}
		}
	}

	lessons, err := s.LessonRepo.ListByCourse(id)
	if err != nil {
		return err
	}
	for _, lesson := range lessons {
		if err := s.LessonService.Delete(ctx, lesson.ID, actorID, actorRole); err != nil {
			return &util.CascadeError{Resource: "lesson", ID: lesson.ID, Err: err}
		}
	}

	// 封面清理尽力而为
	if course.Avatar != "" {
		s.Media.DeleteRemote(ctx, model.MediaImage, course.Avatar)
	}

	if err := s.CourseRepo.Delete(id); err != nil {
		return &util.CascadeError{Resource: "course", ID: id, Err: err}
	}

	s.logger.Info("课程已级联删除", zap.Uint("course_id", id), zap.Uint("lecturer_id", actorID))
	return nil
}
