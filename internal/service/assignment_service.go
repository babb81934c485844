package service

import (
	"errors"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	LessonRepo     *repository.LessonRepository
	logger         *zap.Logger
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, lessonRepo *repository.LessonRepository, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		LessonRepo:     lessonRepo,
		logger:         logger,
	}
}

// checkOwnership 校验作业归属讲师，管理员放行
func (s *AssignmentService) checkOwnership(assignmentID, actorID uint, actorRole model.UserRole) error {
	lecturerID, err := s.AssignmentRepo.LecturerID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("assignment")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("assignment belongs to another lecturer")
	}
	return nil
}

func (s *AssignmentService) Create(assignment *model.Assignment, actorID uint, actorRole model.UserRole) error {
	if assignment.LessonID == nil {
		return util.ValidationError("lesson id is required")
	}
	lecturerID, err := s.LessonRepo.LecturerID(*assignment.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundError("lesson")
		}
		return err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return util.ForbiddenError("lesson belongs to another lecturer")
	}
	return s.AssignmentRepo.Create(assignment)
}

func (s *AssignmentService) Get(id uint) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("assignment")
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListByLesson(lessonID uint) ([]model.Assignment, error) {
	return s.AssignmentRepo.ListByLesson(lessonID)
}

func (s *AssignmentService) Update(id uint, actorID uint, actorRole model.UserRole, title, description string, randomCount int) (*model.Assignment, error) {
	if err := s.checkOwnership(id, actorID, actorRole); err != nil {
		return nil, err
	}
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	assignment.Title = title
	assignment.Description = description
	assignment.RandomQuestionCount = randomCount
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Delete 级联删除作业：先删题目，再删成绩，最后删作业本身
func (s *AssignmentService) Delete(id uint, actorID uint, actorRole model.UserRole) error {
	if err := s.checkOwnership(id, actorID, actorRole); err != nil {
		return err
	}

	if err := s.AssignmentRepo.DeleteQuestions(id); err != nil {
		return &util.CascadeError{Resource: "assignment questions", ID: id, Err: err}
	}
	if err := s.AssignmentRepo.DeleteResults(id); err != nil {
		return &util.CascadeError{Resource: "assignment results", ID: id, Err: err}
	}
	if err := s.AssignmentRepo.Delete(id); err != nil {
		return &util.CascadeError{Resource: "assignment", ID: id, Err: err}
	}

	s.logger.Info("作业已级联删除", zap.Uint("assignment_id", id))
	return nil
}
