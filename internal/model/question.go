package model

import "encoding/json"

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	FillInBlank    QuestionType = "fill_in_blank"
)

// Question 题目，选择题和填空题共用一张表，Type 字段区分
// 选择题使用 Choices/CorrectChoice，填空题使用 CorrectText，另一类的字段保持零值
type Question struct {
	BaseModel
	Content      string       `gorm:"type:text;not null" json:"content"`
	Type         QuestionType `gorm:"size:30;index;not null" json:"type"`
	AssignmentID *uint        `gorm:"index" json:"assignmentId"`
	ExamID       *uint        `gorm:"index" json:"examId"`
	// 同一 AnswerGroup 的选择题互为变体，随机抽题时按组分层抽样
	AnswerGroup   *int            `json:"answerGroup"`
	Choices       json.RawMessage `gorm:"type:json" json:"choices"`
	CorrectChoice int             `gorm:"default:0" json:"correctChoice"`
	CorrectText   string          `gorm:"size:500" json:"correctText"`
}

func (Question) TableName() string {
	return "questions"
}
