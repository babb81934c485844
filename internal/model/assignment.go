package model

// swagger:model Assignment
type Assignment struct {
	BaseModel
	LessonID    *uint  `gorm:"index" json:"lessonId"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// 每次作答随机抽取的选择题数量
	RandomQuestionCount int `gorm:"default:0" json:"randomQuestionCount"`
}

func (Assignment) TableName() string {
	return "assignments"
}
