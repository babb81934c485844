package repository

import (
	"time"

	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

// ResultEntry 讲师侧成绩列表条目，附带学生信息
type ResultEntry struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) FindAssignmentResult(studentID, assignmentID uint) (*model.AssignmentResult, error) {
	var result model.AssignmentResult
	err := r.DB.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) FindExamResult(studentID, examID uint) (*model.ExamResult, error) {
	var result model.ExamResult
	err := r.DB.Where("student_id = ? AND exam_id = ?", studentID, examID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) ListAssignmentResults(assignmentID uint) ([]ResultEntry, error) {
	var entries []ResultEntry
	err := r.DB.Model(&model.AssignmentResult{}).
		Select("assignment_results.id, assignment_results.student_id, users.name AS student_name, assignment_results.score, assignment_results.submitted_at").
		Joins("JOIN users ON users.id = assignment_results.student_id").
		Where("assignment_results.assignment_id = ?", assignmentID).
		Order("assignment_results.score DESC").
		Scan(&entries).Error
	return entries, err
}

func (r *ResultRepository) ListExamResults(examID uint) ([]ResultEntry, error) {
	var entries []ResultEntry
	err := r.DB.Model(&model.ExamResult{}).
		Select("exam_results.id, exam_results.student_id, users.name AS student_name, exam_results.score, exam_results.submitted_at").
		Joins("JOIN users ON users.id = exam_results.student_id").
		Where("exam_results.exam_id = ?", examID).
		Order("exam_results.score DESC").
		Scan(&entries).Error
	return entries, err
}

func (r *ResultRepository) ListAssignmentResultsByStudent(studentID uint) ([]model.AssignmentResult, error) {
	var results []model.AssignmentResult
	err := r.DB.Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListExamResultsByStudent(studentID uint) ([]model.ExamResult, error) {
	var results []model.ExamResult
	err := r.DB.Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error
	return results, err
}
