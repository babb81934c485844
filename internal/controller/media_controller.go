package controller

import (
	"strconv"

	"course_edu_backend/internal/service"
	"course_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	MediaService *service.MediaService
}

func NewMediaController(mediaService *service.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// PresignRequest 直传地址请求
type PresignRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// Presign godoc
// @Summary 生成直传地址
// @Description 返回对象存储的预签名上传 URL 与对象键
// @Tags 媒体
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body PresignRequest true "文件名"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件格式不支持"
// @Router /api/lecturer/media/presign [post]
func (c *MediaController) Presign(ctx *gin.Context) {
	var req PresignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	url, key, err := c.MediaService.PresignUpload(ctx.Request.Context(), req.Filename)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"upload_url": url, "key": key})
}

// InitChunkUploadRequest 分片上传初始化请求
type InitChunkUploadRequest struct {
	Identifier  string `json:"identifier" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	TotalChunks int    `json:"total_chunks" binding:"required,min=1"`
	FileSize    int64  `json:"file_size"`
}

// InitChunkUpload godoc
// @Summary 初始化分片上传
// @Tags 媒体
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body InitChunkUploadRequest true "分片信息"
// @Success 201 {object} util.Response
// @Router /api/lecturer/media/chunks/init [post]
func (c *MediaController) InitChunkUpload(ctx *gin.Context) {
	var req InitChunkUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MediaService.InitChunkUpload(ctx.Request.Context(), req.Identifier, req.Filename, req.TotalChunks, req.FileSize); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"identifier": req.Identifier})
}

// UploadChunk godoc
// @Summary 上传分片
// @Tags 媒体
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   identifier formData string true "上传会话标识"
// @Param   chunk_number formData int true "分片序号，从1开始"
// @Param   file formData file true "分片内容"
// @Success 200 {object} util.Response{data=model.UploadProgress}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/lecturer/media/chunks [post]
func (c *MediaController) UploadChunk(ctx *gin.Context) {
	identifier := ctx.PostForm("identifier")
	chunkNumber, _ := strconv.Atoi(ctx.PostForm("chunk_number"))
	if identifier == "" || chunkNumber == 0 {
		util.BadRequest(ctx, "identifier and chunk_number are required")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	progress, err := c.MediaService.UploadChunk(ctx.Request.Context(), identifier, chunkNumber, file)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// CompleteChunkUploadRequest 分片合并请求
type CompleteChunkUploadRequest struct {
	Identifier  string `json:"identifier" binding:"required"`
	LessonTitle string `json:"lesson_title"`
	NotifyEmail string `json:"notify_email"`
}

// CompleteChunkUpload godoc
// @Summary 合并分片
// @Description 全部分片上传完毕后合并为完整视频并触发转码
// @Tags 媒体
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CompleteChunkUploadRequest true "上传会话标识"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "分片未传完或格式不支持"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/lecturer/media/chunks/complete [post]
func (c *MediaController) CompleteChunkUpload(ctx *gin.Context) {
	var req CompleteChunkUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rawKey, err := c.MediaService.CompleteChunkUpload(ctx.Request.Context(), req.Identifier, req.LessonTitle, req.NotifyEmail, nil)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"media_ref": rawKey})
}

// ChunkProgress godoc
// @Summary 查询分片上传进度
// @Tags 媒体
// @Produce  json
// @Security BearerAuth
// @Param   identifier path string true "上传会话标识"
// @Success 200 {object} util.Response{data=model.UploadProgress}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/lecturer/media/chunks/{identifier} [get]
func (c *MediaController) ChunkProgress(ctx *gin.Context) {
	progress, err := c.MediaService.GetChunkProgress(ctx.Request.Context(), ctx.Param("identifier"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
