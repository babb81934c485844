package controller

import (
	"course_edu_backend/internal/model"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService    *service.ExamService
	QuestionPicker *service.QuestionPicker
	ResultService  *service.ResultService
}

func NewExamController(examService *service.ExamService, picker *service.QuestionPicker, resultService *service.ResultService) *ExamController {
	return &ExamController{
		ExamService:    examService,
		QuestionPicker: picker,
		ResultService:  resultService,
	}
}

// ExamRequest 考试创建/更新请求
type ExamRequest struct {
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description"`
	CourseID            uint   `json:"course_id"`
	RandomQuestionCount int    `json:"random_question_count"`
}

// GetByCourse godoc
// @Summary 课程考试
// @Tags 考试
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/exam [get]
func (c *ExamController) GetByCourse(ctx *gin.Context) {
	exam, err := c.ExamService.GetByCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Get godoc
// @Summary 考试详情
// @Tags 考试
// @Produce  json
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	exam, err := c.ExamService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Create godoc
// @Summary 创建考试
// @Description 每门课程最多一份考试
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ExamRequest true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "课程已有考试"
// @Router /api/lecturer/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.CourseID == 0 {
		util.BadRequest(ctx, "course_id is required")
		return
	}

	exam := &model.Exam{
		Title:               req.Title,
		Description:         req.Description,
		CourseID:            req.CourseID,
		RandomQuestionCount: req.RandomQuestionCount,
	}
	if err := c.ExamService.Create(exam, claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// Update godoc
// @Summary 更新考试
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Param   body body ExamRequest true "考试信息"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/lecturer/exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.Title, req.Description, req.RandomQuestionCount)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Delete godoc
// @Summary 删除考试
// @Description 级联删除考试及其题目与成绩
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lecturer/exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ExamService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Attempt godoc
// @Summary 领取考试题目
// @Description 每次调用按答案组随机抽取选择题并附上全部填空题
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response "考试不存在或没有题目"
// @Router /api/exams/{id}/attempt [get]
func (c *ExamController) Attempt(ctx *gin.Context) {
	questions, err := c.QuestionPicker.PickForExam(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// SubmitScore godoc
// @Summary 提交考试成绩
// @Description 仅当新成绩高于已有成绩时覆盖
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Param   body body SubmitScoreRequest true "成绩"
// @Success 200 {object} util.Response{data=model.ExamResult}
// @Failure 400 {object} util.Response "成绩超出范围"
// @Router /api/exams/{id}/score [post]
func (c *ExamController) SubmitScore(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ResultService.SubmitExamScore(claims.UserID, util.MustParseUint(ctx.Param("id")), *req.Score)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// MyResult godoc
// @Summary 我的考试成绩
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.ExamResult}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id}/result [get]
func (c *ExamController) MyResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ResultService.GetExamResult(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Results godoc
// @Summary 考试成绩列表
// @Description 讲师查看全部学生成绩
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "考试ID"
// @Success 200 {object} util.Response{data=[]repository.ResultEntry}
// @Failure 403 {object} util.Response "考试归属其他讲师"
// @Router /api/lecturer/exams/{id}/results [get]
func (c *ExamController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	entries, err := c.ResultService.ListExamResults(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
