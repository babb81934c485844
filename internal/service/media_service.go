package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"course_edu_backend/internal/config"
	"course_edu_backend/internal/model"
	"course_edu_backend/internal/util"
	"course_edu_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaService 负责媒体上传、视频转码与远端对象清理
type MediaService struct {
	Storage *StorageService
	CDN     *CDNService
	Mail    *MailService
	Redis   *redis.Client
	cfg     *config.Config
	logger  *zap.Logger
}

func NewMediaService(storage *StorageService, cdn *CDNService, mail *MailService, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *MediaService {
	return &MediaService{
		Storage: storage,
		CDN:     cdn,
		Mail:    mail,
		Redis:   rdb,
		cfg:     cfg,
		logger:  logger,
	}
}

// UploadImage 校验并上传图片，返回完整访问 URL
func (s *MediaService) UploadImage(ctx context.Context, file *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !util.AllowedImageExtensions[ext] {
		return "", util.ValidationError("unsupported image format")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", util.ValidationError("file content is not an image")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s_%s%s", dir, time.Now().Format("20060102150405"), util.GenerateRandomString(6), ext)
	storedPath, err := s.Storage.Upload(ctx, key, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}
	return s.CDN.BuildURL(storedPath), nil
}

// UploadVideo 上传原始视频并异步转码为 HLS，返回的媒体引用是存储键。
// 转码完成后引用指向 m3u8 清单，并邮件通知上传者。
func (s *MediaService) UploadVideo(ctx context.Context, file *multipart.FileHeader, lessonTitle, notifyEmail string, onReady func(key string)) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !util.AllowedVideoExtensions[ext] {
		return "", util.ValidationError("unsupported video format")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return "", util.ValidationError("file content is not a video")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	id := model.GenerateUUID()
	rawKey := fmt.Sprintf("videos/%s/raw%s", id, ext)
	if _, err := s.Storage.Upload(ctx, rawKey, src, file.Size, mimeType); err != nil {
		return "", err
	}

	if !s.cfg.Transcode.Enabled {
		return rawKey, nil
	}

	// 落盘一份供 ffmpeg 读取
	tmpPath := filepath.Join(os.TempDir(), id+ext)
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		tmp.Close()
		return "", err
	}
	if _, err := tmp.ReadFrom(src); err != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	go s.transcodeAndPublish(id, tmpPath, lessonTitle, notifyEmail, onReady)

	return rawKey, nil
}

// transcodeAndPublish 在后台执行 HLS 转码并上传切片
func (s *MediaService) transcodeAndPublish(id, videoPath, lessonTitle, notifyEmail string, onReady func(key string)) {
	defer os.Remove(videoPath)

	outputDir := filepath.Join(os.TempDir(), "hls-"+id)
	defer os.RemoveAll(outputDir)

	if info, err := util.GetVideoInfo(videoPath); err == nil {
		s.logger.Info("开始视频转码",
			zap.String("video_id", id),
			zap.Float64("duration", info.Duration),
			zap.Int("width", info.Width),
			zap.Int("height", info.Height))
	}

	timeout := time.Duration(s.cfg.Transcode.TimeoutMinutes) * time.Minute
	if err := util.ConvertToHLS(videoPath, outputDir, timeout); err != nil {
		monitoring.TranscodeCounter.WithLabelValues("failure").Inc()
		s.logger.Error("视频转码失败", zap.String("video_id", id), zap.Error(err))
		if notifyEmail != "" {
			s.Mail.SendTranscodeDone(notifyEmail, lessonTitle, false)
		}
		return
	}

	ctx := context.Background()

	// 截取首帧作为封面，失败不影响发布
	thumbnailPath := filepath.Join(outputDir, "thumbnail.jpg")
	if err := util.GenerateThumbnail(videoPath, thumbnailPath, "00:00:01"); err != nil {
		s.logger.Warn("生成视频封面失败", zap.String("video_id", id), zap.Error(err))
	}

	manifestKey := ""
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		s.logger.Error("读取转码输出目录失败", zap.String("video_id", id), zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := fmt.Sprintf("videos/%s/hls/%s", id, entry.Name())
		contentType := "video/mp2t"
		switch {
		case strings.HasSuffix(entry.Name(), util.StreamManifestSuffix):
			contentType = "application/vnd.apple.mpegurl"
			manifestKey = key
		case strings.HasSuffix(entry.Name(), ".jpg"):
			contentType = "image/jpeg"
		}
		if _, err := s.Storage.UploadFile(ctx, key, filepath.Join(outputDir, entry.Name()), contentType); err != nil {
			monitoring.TranscodeCounter.WithLabelValues("failure").Inc()
			s.logger.Error("上传 HLS 切片失败", zap.String("key", key), zap.Error(err))
			return
		}
	}

	if manifestKey == "" {
		monitoring.TranscodeCounter.WithLabelValues("failure").Inc()
		s.logger.Error("转码输出缺少 m3u8 清单", zap.String("video_id", id))
		return
	}

	monitoring.TranscodeCounter.WithLabelValues("success").Inc()
	s.logger.Info("视频转码完成", zap.String("video_id", id), zap.String("manifest", manifestKey))

	if onReady != nil {
		onReady(manifestKey)
	}
	if notifyEmail != "" {
		s.Mail.SendTranscodeDone(notifyEmail, lessonTitle, true)
	}
}

// DeleteRemote 按媒体引用清理远端对象。m3u8 清单删除所在目录前缀，
// 其它引用删除单个对象。失败仅记录日志，不向上传播。
func (s *MediaService) DeleteRemote(ctx context.Context, mediaType model.MediaType, ref string) {
	if ref == "" {
		return
	}
	key, err := util.ObjectKeyFromRef(mediaType, ref)
	if err != nil || key == "" {
		if err != nil {
			s.logger.Warn("媒体引用解析失败", zap.String("ref", ref), zap.Error(err))
		}
		return
	}

	if util.IsStreamManifest(key) {
		err = s.Storage.DeleteDirectory(ctx, util.DirectoryPrefix(key))
	} else {
		err = s.Storage.Delete(ctx, key)
	}
	if err != nil {
		s.logger.Warn("远端媒体清理失败", zap.String("key", key), zap.Error(err))
	}
}

// PresignUpload 生成客户端直传地址
func (s *MediaService) PresignUpload(ctx context.Context, filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !util.AllowedImageExtensions[ext] && !util.AllowedVideoExtensions[ext] {
		return "", "", util.ValidationError("unsupported file format")
	}
	key := fmt.Sprintf("direct/%s%s", uuid.New().String(), ext)
	url, err := s.Storage.PresignUpload(ctx, key)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

const chunkUploadTTL = 24 * time.Hour

func chunkProgressKey(identifier string) string {
	return "upload:chunks:" + identifier
}

func chunkObjectPrefix(identifier string) string {
	return "chunks/" + identifier + "/"
}

// InitChunkUpload 初始化分片上传会话，进度记录在 Redis
func (s *MediaService) InitChunkUpload(ctx context.Context, identifier, filename string, totalChunks int, fileSize int64) error {
	if totalChunks <= 0 {
		return util.ValidationError("total chunks must be positive")
	}
	progress := model.UploadProgress{
		TotalChunks: totalChunks,
		FileSize:    fileSize,
		Identifier:  identifier,
		Filename:    filename,
		CreatedAt:   time.Now(),
		Chunks:      make(map[int]bool),
	}
	// 清掉同标识的过期残片
	if err := s.Storage.DeleteDirectory(ctx, chunkObjectPrefix(identifier)); err != nil {
		s.logger.Warn("清理残留分片失败", zap.String("identifier", identifier), zap.Error(err))
	}

	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, chunkProgressKey(identifier), data, chunkUploadTTL).Err()
}

// UploadChunk 保存一个分片并更新进度，返回当前进度
func (s *MediaService) UploadChunk(ctx context.Context, identifier string, chunkNumber int, file *multipart.FileHeader) (*model.UploadProgress, error) {
	progress, err := s.GetChunkProgress(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if chunkNumber < 1 || chunkNumber > progress.TotalChunks {
		return nil, util.ValidationError("chunk number out of range")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := fmt.Sprintf("chunks/%s/%d", identifier, chunkNumber)
	if _, err := s.Storage.Upload(ctx, key, src, file.Size, util.MimeOctetStream); err != nil {
		return nil, err
	}

	if !progress.Chunks[chunkNumber] {
		progress.Chunks[chunkNumber] = true
		progress.UploadedChunks = len(progress.Chunks)
	}

	data, err := json.Marshal(progress)
	if err != nil {
		return nil, err
	}
	if err := s.Redis.Set(ctx, chunkProgressKey(identifier), data, chunkUploadTTL).Err(); err != nil {
		return nil, err
	}
	return progress, nil
}

// GetChunkProgress 查询分片上传进度
func (s *MediaService) GetChunkProgress(ctx context.Context, identifier string) (*model.UploadProgress, error) {
	data, err := s.Redis.Get(ctx, chunkProgressKey(identifier)).Bytes()
	if err == redis.Nil {
		return nil, util.NotFoundError("upload session")
	}
	if err != nil {
		return nil, err
	}
	var progress model.UploadProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, err
	}
	if progress.Chunks == nil {
		progress.Chunks = make(map[int]bool)
	}
	return &progress, nil
}

// CompleteChunkUpload 按序合并全部分片并进入视频发布流程，返回原始视频存储键
func (s *MediaService) CompleteChunkUpload(ctx context.Context, identifier, lessonTitle, notifyEmail string, onReady func(key string)) (string, error) {
	progress, err := s.GetChunkProgress(ctx, identifier)
	if err != nil {
		return "", err
	}
	if progress.UploadedChunks < progress.TotalChunks {
		return "", util.ValidationError("upload not finished")
	}

	ext := strings.ToLower(filepath.Ext(progress.Filename))
	if !util.AllowedVideoExtensions[ext] {
		return "", util.ValidationError("unsupported video format")
	}

	id := model.GenerateUUID()
	tmpPath := filepath.Join(os.TempDir(), id+ext)
	merged, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	for i := 1; i <= progress.TotalChunks; i++ {
		part, err := s.Storage.Download(ctx, fmt.Sprintf("chunks/%s/%d", identifier, i))
		if err == nil {
			_, err = io.Copy(merged, part)
			part.Close()
		}
		if err != nil {
			merged.Close()
			os.Remove(tmpPath)
			return "", err
		}
	}
	if err := merged.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	rawKey := fmt.Sprintf("videos/%s/raw%s", id, ext)
	if _, err := s.Storage.UploadFile(ctx, rawKey, tmpPath, util.MimeOctetStream); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	// 分片与会话用完即清
	if err := s.Storage.DeleteDirectory(ctx, chunkObjectPrefix(identifier)); err != nil {
		s.logger.Warn("清理分片失败", zap.String("identifier", identifier), zap.Error(err))
	}
	if err := s.Redis.Del(ctx, chunkProgressKey(identifier)).Err(); err != nil {
		s.logger.Warn("清理上传会话失败", zap.String("identifier", identifier), zap.Error(err))
	}

	if !s.cfg.Transcode.Enabled {
		os.Remove(tmpPath)
		return rawKey, nil
	}

	go s.transcodeAndPublish(id, tmpPath, lessonTitle, notifyEmail, onReady)
	return rawKey, nil
}
