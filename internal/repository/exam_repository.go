package repository

import (
	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindByCourse(courseID uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Where("course_id = ?", courseID).First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) ListByCourse(courseID uint) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Where("course_id = ?", courseID).Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Exam{}, id).Error
}

func (r *ExamRepository) DeleteQuestions(examID uint) error {
	return r.DB.Where("exam_id = ?", examID).Delete(&model.Question{}).Error
}

func (r *ExamRepository) DeleteResults(examID uint) error {
	return r.DB.Where("exam_id = ?", examID).Delete(&model.ExamResult{}).Error
}

// LecturerID 通过 Exam→Course 链查询所属讲师
func (r *ExamRepository) LecturerID(examID uint) (uint, error) {
	var lecturerID uint
	err := r.DB.Model(&model.Exam{}).
		Select("courses.lecturer_id").
		Joins("JOIN courses ON courses.id = exams.course_id AND courses.deleted_at IS NULL").
		Where("exams.id = ?", examID).
		Scan(&lecturerID).Error
	if err != nil {
		return 0, err
	}
	if lecturerID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return lecturerID, nil
}
