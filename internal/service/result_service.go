package service

import (
	"errors"
	"time"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"gorm.io/gorm"
)

// ResultService 维护最优成绩与课程完成进度
type ResultService struct {
	DB             *gorm.DB
	ResultRepo     *repository.ResultRepository
	ProgressRepo   *repository.ProgressRepository
	LessonRepo     *repository.LessonRepository
	AssignmentRepo *repository.AssignmentRepository
	ExamRepo       *repository.ExamRepository
}

func NewResultService(db *gorm.DB, resultRepo *repository.ResultRepository, progressRepo *repository.ProgressRepository, lessonRepo *repository.LessonRepository, assignmentRepo *repository.AssignmentRepository, examRepo *repository.ExamRepository) *ResultService {
	return &ResultService{
		DB:             db,
		ResultRepo:     resultRepo,
		ProgressRepo:   progressRepo,
		LessonRepo:     lessonRepo,
		AssignmentRepo: assignmentRepo,
		ExamRepo:       examRepo,
	}
}

// SubmitAssignmentScore 记录作业成绩，仅在新成绩严格更高时覆盖
func (s *ResultService) SubmitAssignmentScore(studentID, assignmentID uint, score int) (*model.AssignmentResult, error) {
	if score < 0 || score > 100 {
		return nil, util.ValidationError("score must be between 0 and 100")
	}
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("assignment")
		}
		return nil, err
	}

	var result model.AssignmentResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
			First(&result).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = model.AssignmentResult{
				StudentID:    studentID,
				AssignmentID: assignmentID,
				Score:        score,
				SubmittedAt:  time.Now(),
			}
			return tx.Create(&result).Error
		}
		if err != nil {
			return err
		}
		if score > result.Score {
			result.Score = score
			result.SubmittedAt = time.Now()
			return tx.Save(&result).Error
		}
		// 成绩未提升，保留历史最优
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitExamScore 记录考试成绩，语义与作业成绩一致
func (s *ResultService) SubmitExamScore(studentID, examID uint, score int) (*model.ExamResult, error) {
	if score < 0 || score > 100 {
		return nil, util.ValidationError("score must be between 0 and 100")
	}
	if _, err := s.ExamRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("exam")
		}
		return nil, err
	}

	var result model.ExamResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND exam_id = ?", studentID, examID).
			First(&result).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = model.ExamResult{
				StudentID:   studentID,
				ExamID:      examID,
				Score:       score,
				SubmittedAt: time.Now(),
			}
			return tx.Create(&result).Error
		}
		if err != nil {
			return err
		}
		if score > result.Score {
			result.Score = score
			result.SubmittedAt = time.Now()
			return tx.Save(&result).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProgress 学生报名课程时创建进度记录，已存在则报错
func (s *ResultService) CreateProgress(studentID, courseID uint) (*model.Progress, error) {
	if _, err := s.ProgressRepo.FindByStudentAndCourse(studentID, courseID); err == nil {
		return nil, util.ValidationError("progress already exists for this course")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress := &model.Progress{
		StudentID: studentID,
		CourseID:  courseID,
	}
	if err := s.ProgressRepo.Create(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// MarkLessonComplete 标记课时完成并重算课程完成率。重复调用是幂等的。
func (s *ResultService) MarkLessonComplete(studentID, courseID, lessonID uint) (*model.Progress, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("lesson")
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ValidationError("lesson does not belong to this course")
	}

	totalLessons, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if totalLessons == 0 {
		return nil, util.ValidationError("course has no lessons")
	}

	var progress model.Progress
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.CompletedLesson{}).
			Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			record := model.CompletedLesson{
				StudentID:   studentID,
				LessonID:    lessonID,
				CompletedAt: time.Now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		var completed int64
		if err := tx.Model(&model.CompletedLesson{}).
			Joins("JOIN lessons ON lessons.id = completed_lessons.lesson_id AND lessons.deleted_at IS NULL").
			Where("completed_lessons.student_id = ? AND lessons.course_id = ?", studentID, courseID).
			Count(&completed).Error; err != nil {
			return err
		}

		err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = model.Progress{StudentID: studentID, CourseID: courseID}
		} else if err != nil {
			return err
		}

		progress.CompletionRate = float64(completed) / float64(totalLessons) * 100
		progress.Completed = completed == totalLessons
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *ResultService) GetAssignmentResult(studentID, assignmentID uint) (*model.AssignmentResult, error) {
	result, err := s.ResultRepo.FindAssignmentResult(studentID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("result")
		}
		return nil, err
	}
	return result, nil
}

func (s *ResultService) GetExamResult(studentID, examID uint) (*model.ExamResult, error) {
	result, err := s.ResultRepo.FindExamResult(studentID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("result")
		}
		return nil, err
	}
	return result, nil
}

func (s *ResultService) GetProgress(studentID, courseID uint) (*model.Progress, error) {
	progress, err := s.ProgressRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("progress")
		}
		return nil, err
	}
	return progress, nil
}

func (s *ResultService) ListProgress(studentID uint) ([]model.Progress, error) {
	return s.ProgressRepo.ListByStudent(studentID)
}

// StudentResults 学生个人成绩总览
type StudentResults struct {
	Assignments []model.AssignmentResult `json:"assignments"`
	Exams       []model.ExamResult       `json:"exams"`
}

func (s *ResultService) ListStudentResults(studentID uint) (*StudentResults, error) {
	assignments, err := s.ResultRepo.ListAssignmentResultsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	exams, err := s.ResultRepo.ListExamResultsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	return &StudentResults{Assignments: assignments, Exams: exams}, nil
}

// ListAssignmentResults 讲师查看作业全部成绩，仅限作业归属讲师，管理员放行
func (s *ResultService) ListAssignmentResults(assignmentID uint, actorID uint, actorRole model.UserRole) ([]repository.ResultEntry, error) {
	lecturerID, err := s.AssignmentRepo.LecturerID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("assignment")
		}
		return nil, err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return nil, util.ForbiddenError("assignment belongs to another lecturer")
	}
	return s.ResultRepo.ListAssignmentResults(assignmentID)
}

// ListExamResults 讲师查看考试全部成绩，归属校验同上
func (s *ResultService) ListExamResults(examID uint, actorID uint, actorRole model.UserRole) ([]repository.ResultEntry, error) {
	lecturerID, err := s.ExamRepo.LecturerID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("exam")
		}
		return nil, err
	}
	if actorRole != model.Admin && lecturerID != actorID {
		return nil, util.ForbiddenError("exam belongs to another lecturer")
	}
	return s.ResultRepo.ListExamResults(examID)
}
