package controller

import (
	"encoding/json"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// QuestionRequest 题目创建/更新请求
type QuestionRequest struct {
	Content       string          `json:"content" binding:"required"`
	Type          string          `json:"type" binding:"required,oneof=multiple_choice fill_in_blank"`
	AssignmentID  *uint           `json:"assignment_id"`
	ExamID        *uint           `json:"exam_id"`
	AnswerGroup   *int            `json:"answer_group"`
	Choices       json.RawMessage `json:"choices"`
	CorrectChoice int             `json:"correct_choice"`
	CorrectText   string          `json:"correct_text"`
}

func (r *QuestionRequest) toModel() *model.Question {
	return &model.Question{
		Content:       r.Content,
		Type:          model.QuestionType(r.Type),
		AssignmentID:  r.AssignmentID,
		ExamID:        r.ExamID,
		AnswerGroup:   r.AnswerGroup,
		Choices:       r.Choices,
		CorrectChoice: r.CorrectChoice,
		CorrectText:   r.CorrectText,
	}
}

// ListByAssignment godoc
// @Summary 作业题库
// @Description 讲师查看作业的全部题目（含答案）
// @Tags 题目
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/lecturer/assignments/{id}/questions [get]
func (c *QuestionController) ListByAssignment(ctx *gin.Context) {
	questions, err := c.QuestionService.ListByAssignment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// ListByExam godoc
// @Summary 考试题库
// @Tags 题目
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/lecturer/exams/{id}/questions [get]
func (c *QuestionController) ListByExam(ctx *gin.Context) {
	questions, err := c.QuestionService.ListByExam(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Create godoc
// @Summary 创建题目
// @Description 题目必须且只能归属一个作业或一份考试
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/lecturer/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := req.toModel()
	if err := c.QuestionService.Create(question, claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// Update godoc
// @Summary 更新题目
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/lecturer/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.toModel())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Delete godoc
// @Summary 删除题目
// @Tags 题目
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lecturer/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuestionService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
