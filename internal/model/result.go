package model

import "time"

// AssignmentResult 学生在某个作业上的最好成绩，每个(学生,作业)最多一行
type AssignmentResult struct {
	BaseModel
	StudentID    uint      `gorm:"uniqueIndex:uniq_assignment_student;not null" json:"studentId"`
	AssignmentID uint      `gorm:"uniqueIndex:uniq_assignment_student;not null" json:"assignmentId"`
	Score        int       `gorm:"not null" json:"score"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func (AssignmentResult) TableName() string {
	return "assignment_results"
}

// ExamResult 学生在某个考试上的最好成绩，每个(学生,考试)最多一行
type ExamResult struct {
	BaseModel
	StudentID   uint      `gorm:"uniqueIndex:uniq_exam_student;not null" json:"studentId"`
	ExamID      uint      `gorm:"uniqueIndex:uniq_exam_student;not null" json:"examId"`
	Score       int       `gorm:"not null" json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}
