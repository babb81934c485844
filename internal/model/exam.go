package model

// swagger:model Exam
type Exam struct {
	BaseModel
	CourseID    uint   `gorm:"uniqueIndex;not null" json:"courseId"` // 每门课程最多一份考试
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// 每次作答随机抽取的选择题数量
	RandomQuestionCount int `gorm:"default:0" json:"randomQuestionCount"`
}

func (Exam) TableName() string {
	return "exams"
}
