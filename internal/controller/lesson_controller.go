package controller

import (
	"course_edu_backend/internal/model"
	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
	ResultService *service.ResultService
	MediaService  *service.MediaService
	CDN           *service.CDNService
}

func NewLessonController(lessonService *service.LessonService, resultService *service.ResultService, mediaService *service.MediaService, cdn *service.CDNService) *LessonController {
	return &LessonController{
		LessonService: lessonService,
		ResultService: resultService,
		MediaService:  mediaService,
		CDN:           cdn,
	}
}

// LessonRequest 课时创建/更新请求
type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	CourseID uint   `json:"course_id"`
}

// ListByCourse godoc
// @Summary 课程课时列表
// @Tags 课时
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	lessons, err := c.LessonService.ListByCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// Get godoc
// @Summary 课时详情
// @Tags 课时
// @Produce  json
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	lesson, err := c.LessonService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Create godoc
// @Summary 创建课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response
// @Router /api/lecturer/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.CourseID == 0 {
		util.BadRequest(ctx, "course_id is required")
		return
	}

	lesson := &model.Lesson{Title: req.Title, CourseID: req.CourseID}
	if err := c.LessonService.Create(lesson, claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// Update godoc
// @Summary 更新课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body LessonRequest true "课时信息"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lecturer/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.Title)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary 删除课时
// @Description 级联删除课时及其内容、作业、完成记录与远端媒体
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lecturer/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.LessonService.Delete(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Complete godoc
// @Summary 标记课时完成
// @Description 幂等登记完成记录并重算课程完成率
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   course_id query int true "课程ID"
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 400 {object} util.Response "课时不属于该课程"
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	courseID := util.MustParseUint(ctx.Query("course_id"))

	progress, err := c.ResultService.MarkLessonComplete(claims.UserID, courseID, lessonID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// ListContents godoc
// @Summary 课时内容列表
// @Tags 课时内容
// @Produce  json
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=[]model.LessonContent}
// @Router /api/lessons/{id}/contents [get]
func (c *LessonController) ListContents(ctx *gin.Context) {
	contents, err := c.LessonService.ListContents(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	for i := range contents {
		if contents[i].MediaType == model.MediaVideo && contents[i].MediaRef != "" {
			contents[i].MediaRef = c.CDN.BuildURL(contents[i].MediaRef)
		}
	}
	util.Success(ctx, contents)
}

// CreateContent godoc
// @Summary 创建课时内容
// @Description 文本内容直接提交，图片/视频先通过媒体接口上传后携带引用
// @Tags 课时内容
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   media_type formData string true "内容类型 text|image|video"
// @Param   text formData string false "文本内容"
// @Param   file formData file false "媒体文件"
// @Success 201 {object} util.Response{data=model.LessonContent}
// @Router /api/lecturer/lessons/{id}/contents [post]
func (c *LessonController) CreateContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	mediaType := model.MediaType(ctx.PostForm("media_type"))

	content := &model.LessonContent{
		LessonID:  lessonID,
		MediaType: mediaType,
	}

	switch mediaType {
	case model.MediaText:
		content.Text = ctx.PostForm("text")
		if content.Text == "" {
			util.BadRequest(ctx, "text is required")
			return
		}
	case model.MediaImage:
		file, err := ctx.FormFile("file")
		if err != nil {
			util.BadRequest(ctx, "file is required")
			return
		}
		url, err := c.MediaService.UploadImage(ctx.Request.Context(), file, "contents")
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		content.MediaRef = url
	case model.MediaVideo:
		file, err := ctx.FormFile("file")
		if err != nil {
			util.BadRequest(ctx, "file is required")
			return
		}
		lesson, err := c.LessonService.Get(lessonID)
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		key, err := c.MediaService.UploadVideo(ctx.Request.Context(), file, lesson.Title, claims.Email, func(manifestKey string) {
			// 转码完成后把引用切换到 m3u8 清单
			c.LessonService.LessonRepo.UpdateContentMediaRef(content.ID, manifestKey)
		})
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		content.MediaRef = key
	default:
		util.BadRequest(ctx, "unknown media type")
		return
	}

	if err := c.LessonService.CreateContent(content, claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// UpdateContentRequest 更新文本内容请求
type UpdateContentRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateContent godoc
// @Summary 更新课时文本内容
// @Tags 课时内容
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "内容ID"
// @Param   body body UpdateContentRequest true "文本"
// @Success 200 {object} util.Response{data=model.LessonContent}
// @Router /api/lecturer/contents/{id} [put]
func (c *LessonController) UpdateContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.LessonService.UpdateContent(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role, req.Text)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// DeleteContent godoc
// @Summary 删除课时内容
// @Description 同时尽力清理远端媒体对象
// @Tags 课时内容
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "内容ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lecturer/contents/{id} [delete]
func (c *LessonController) DeleteContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.LessonService.DeleteContent(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
