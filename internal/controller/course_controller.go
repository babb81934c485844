package controller

import (
	"strconv"

	"course_edu_backend/internal/model"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	ResultService *service.ResultService
	MediaService  *service.MediaService
	CDN           *service.CDNService
}

func NewCourseController(courseService *service.CourseService, resultService *service.ResultService, mediaService *service.MediaService, cdn *service.CDNService) *CourseController {
	return &CourseController{
		CourseService: courseService,
		ResultService: resultService,
		MediaService:  mediaService,
		CDN:           cdn,
	}
}

// CourseRequest 课程创建/更新请求
type CourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Difficulty  string  `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Keywords    string  `json:"keywords"`
}

// List godoc
// @Summary 课程列表
// @Description 分页浏览课程，支持关键字与难度筛选
// @Tags 课程
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   keyword query string false "搜索关键字"
// @Param   difficulty query string false "难度"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.List(page, limit, ctx.Query("keyword"), ctx.Query("difficulty"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	for i := range courses {
		courses[i].Avatar = c.CDN.BuildURL(courses[i].Avatar)
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 课程详情
// @Description 课程信息、课时列表与是否设有考试；已登录用户附带本人学习进度
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	var callerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		callerID = claims.UserID
	}

	detail, err := c.CourseService.GetDetail(util.MustParseUint(ctx.Param("id")), callerID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	detail.Course.Avatar = c.CDN.BuildURL(detail.Course.Avatar)
	util.Success(ctx, detail)
}

// Mine godoc
// @Summary 我的课程
// @Description 讲师查询自己发布的课程
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/lecturer/courses [get]
func (c *CourseController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListByLecturer(claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Create godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/lecturer/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Difficulty:  model.CourseDifficulty(req.Difficulty),
		Keywords:    req.Keywords,
		LecturerID:  claims.UserID,
	}
	if err := c.CourseService.Create(course); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response "非本人课程"
// @Router /api/lecturer/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Difficulty:  model.CourseDifficulty(req.Difficulty),
		Keywords:    req.Keywords,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// UploadAvatar godoc
// @Summary 上传课程封面
// @Tags 课程
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   file formData file true "封面图片"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/lecturer/courses/{id}/avatar [post]
func (c *CourseController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	course, err := c.CourseService.Get(id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if claims.Role != model.Admin && course.LecturerID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.MediaService.UploadImage(ctx.Request.Context(), file, "courses")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	course, err = c.CourseService.Update(id, claims.UserID, claims.Role, &model.Course{
		Title:       course.Title,
		Description: course.Description,
		Price:       course.Price,
		Difficulty:  course.Difficulty,
		Keywords:    course.Keywords,
		Avatar:      url,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程
// @Description 级联删除课程及其课时、作业、考试、进度与远端媒体
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非本人课程"
// @Failure 404 {object} util.Response
// @Router /api/lecturer/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.Delete(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Enroll godoc
// @Summary 报名课程
// @Description 为当前学生创建课程进度记录
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response{data=model.Progress}
// @Failure 400 {object} util.Response "已报名"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	if _, err := c.CourseService.Get(courseID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	progress, err := c.ResultService.CreateProgress(claims.UserID, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, progress)
}
