package service

import (
	"errors"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExamService struct {
	ExamRepo   *repository.ExamRepository
	CourseRepo *repository.CourseRepository
	logger     *zap.Logger
}

func NewExamService(examRepo *repository.ExamRepository, courseRepo *repository.CourseRepository, logger *zap.Logger) *ExamService {
	return &ExamService{
		ExamRepo:   examRepo,
		CourseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *ExamService) checkOwnership(examID, actorID uint, actorRole model.UserRole) error {
	lecturerID, err := s.ExamRepo.LecturerID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("exam")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("exam belongs to another lecturer")
	}
	return nil
}

// Create 每门课程最多创建一份考试
func (s *ExamService) Create(exam *model.Exam, actorID uint, actorRole model.UserRole) error {
	lecturerID, err := s.CourseRepo.LecturerID(exam.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("course")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("course belongs to another lecturer")
	}

	if _, err := s.ExamRepo.FindByCourse(exam.CourseID); err == nil {
		return util.ValidationError("course already has an exam")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.ExamRepo.Create(exam)
}

func (s *ExamService) Get(id uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("exam")
		}
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) GetByCourse(courseID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("exam")
		}
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Update(id uint, actorID uint, actorRole model.UserRole, title, description string, randomCount int) (*model.Exam, error) {
	if err := s.checkOwnership(id, actorID, actorRole); err != nil {
		return nil, err
	}
	exam, err := s.ExamRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	exam.Title = title
	exam.Description = description
	exam.RandomQuestionCount = randomCount
	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Delete 级联删除考试：先删题目，再删成绩，最后删考试本身
func (s *ExamService) Delete(id uint, actorID uint, actorRole model.UserRole) error {
	if err := s.checkOwnership(id, actorID, actorRole); err != nil {
		return err
	}

	if err := s.ExamRepo.DeleteQuestions(id); err != nil {
		return &util.CascadeError{Resource: "exam questions", ID: id, Err: err}
	}
	if err := s.ExamRepo.DeleteResults(id); err != nil {
		return &util.CascadeError{Resource: "exam results", ID: id, Err: err}
	}
	if err := s.ExamRepo.Delete(id); err != nil {
		return &util.CascadeError{Resource: "exam", ID: id, Err: err}
	}

	s.logger.Info("考试已级联删除", zap.Uint("exam_id", id))
	return nil
}
