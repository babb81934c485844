package service

import (
	"errors"
	"math/rand"
	"sort"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/repository"
	"course_edu_backend/internal/util"

	"gorm.io/gorm"
)

// QuestionPicker 为学生的一次作答生成题目序列：
// 选择题按答案组分层随机抽取，填空题全部下发，最终按创建时间排序。
type QuestionPicker struct {
	QuestionRepo   *repository.QuestionRepository
	AssignmentRepo *repository.AssignmentRepository
	ExamRepo       *repository.ExamRepository
}

func NewQuestionPicker(questionRepo *repository.QuestionRepository, assignmentRepo *repository.AssignmentRepository, examRepo *repository.ExamRepository) *QuestionPicker {
	return &QuestionPicker{
		QuestionRepo:   questionRepo,
		AssignmentRepo: assignmentRepo,
		ExamRepo:       examRepo,
	}
}

func (p *QuestionPicker) PickForAssignment(assignmentID uint) ([]model.Question, error) {
	assignment, err := p.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("assignment")
		}
		return nil, err
	}

	questions, err := p.QuestionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	picked := DrawQuestions(questions, assignment.RandomQuestionCount)
	if len(picked) == 0 {
		return nil, util.NotFoundError("questions")
	}
	return picked, nil
}

func (p *QuestionPicker) PickForExam(examID uint) ([]model.Question, error) {
	exam, err := p.ExamRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("exam")
		}
		return nil, err
	}

	questions, err := p.QuestionRepo.ListByExam(examID)
	if err != nil {
		return nil, err
	}

	picked := DrawQuestions(questions, exam.RandomQuestionCount)
	if len(picked) == 0 {
		return nil, util.NotFoundError("questions")
	}
	return picked, nil
}

// DrawQuestions 执行一次抽题。questions 需已按创建时间升序排列。
// 选择题按答案组分层：G 个组均分 n 道名额，余数依组号顺序分给前面的组；
// 组内均匀无放回抽样，名额超过组容量时整组取出。填空题全部保留。
func DrawQuestions(questions []model.Question, n int) []model.Question {
	var fillBlanks []model.Question
	groups := make(map[int][]model.Question)
	var groupKeys []int

	for _, q := range questions {
		switch q.Type {
		case model.FillInBlank:
			fillBlanks = append(fillBlanks, q)
		case model.MultipleChoice:
			key := 0
			if q.AnswerGroup != nil {
				key = *q.AnswerGroup
			}
			if _, ok := groups[key]; !ok {
				groupKeys = append(groupKeys, key)
			}
			groups[key] = append(groups[key], q)
		}
	}

	var picked []model.Question
	if g := len(groupKeys); g > 0 && n > 0 {
		sort.Ints(groupKeys)
		base := n / g
		remainder := n % g
		for i, key := range groupKeys {
			quota := base
			if i < remainder {
				quota++
			}
			picked = append(picked, sampleWithoutReplacement(groups[key], quota)...)
		}
	}

	picked = append(picked, fillBlanks...)
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].CreatedAt.Before(picked[j].CreatedAt)
	})

	// 作答方不需要看到另一题型的答案字段
	for i := range picked {
		switch picked[i].Type {
		case model.MultipleChoice:
			picked[i].CorrectText = ""
		case model.FillInBlank:
			picked[i].Choices = nil
			picked[i].CorrectChoice = 0
		}
	}
	return picked
}

func sampleWithoutReplacement(group []model.Question, quota int) []model.Question {
	if quota <= 0 {
		return nil
	}
	if quota >= len(group) {
		out := make([]model.Question, len(group))
		copy(out, group)
		return out
	}
	shuffled := make([]model.Question, len(group))
	copy(shuffled, group)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:quota]
}
