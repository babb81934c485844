package repository

import (
	"course_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

// List 按关键词和难度过滤的分页课程列表
func (r *CourseRepository) List(page, limit int, keyword string, difficulty model.CourseDifficulty) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})
	if keyword != "" {
		query = query.Where("title LIKE ? OR keywords LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByLecturer(lecturerID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("lecturer_id = ?", lecturerID).Order("created_at desc").Find(&courses).Error
	return courses, err
}

// LecturerID 查询课程的所属讲师，课程不存在时返回 gorm.ErrRecordNotFound
func (r *CourseRepository) LecturerID(courseID uint) (uint, error) {
	var course model.Course
	err := r.DB.Select("lecturer_id").First(&course, courseID).Error
	if err != nil {
		return 0, err
	}
	return course.LecturerID, nil
}
