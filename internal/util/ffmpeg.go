package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo 存储视频信息
type VideoInfo struct {
	Duration float64 `json:"duration"` // 视频时长（秒）
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

// GetVideoInfo 使用ffmpeg-go库获取视频信息
func GetVideoInfo(videoPath string) (*VideoInfo, error) {
	fileInfo, err := os.Stat(videoPath)
	if err != nil {
		return nil, fmt.Errorf("视频文件不存在: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("获取视频信息失败: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("解析视频信息失败: %v", err)
	}

	var width, height int
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			width = stream.Width
			height = stream.Height
			break
		}
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		duration = 0
	}

	size, err := strconv.ParseInt(result.Format.Size, 10, 64)
	if err != nil {
		size = fileInfo.Size()
	}

	format := "unknown"
	if len(result.Format.Format) > 0 {
		formatParts := strings.Split(result.Format.Format, ",")
		if len(formatParts) > 0 {
			format = formatParts[0]
		}
	}

	return &VideoInfo{
		Duration: duration,
		Width:    width,
		Height:   height,
		Format:   format,
		Size:     size,
	}, nil
}

// GenerateThumbnail 使用ffmpeg-go库生成视频缩略图
func GenerateThumbnail(videoPath, thumbnailPath string, timeOffset string) error {
	dir := filepath.Dir(thumbnailPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建缩略图目录失败: %v", err)
	}

	return ffmpeg.Input(videoPath, ffmpeg.KwArgs{
		"ss": timeOffset, // 从视频的哪个时间点抓取帧
	}).
		Output(thumbnailPath, ffmpeg.KwArgs{
			"vframes": "1", // 只抓取一帧
			"q:v":     "2", // 图像质量 (1-31, 越小质量越高)
		}).
		OverWriteOutput().
		Run()
}

// ConvertToHLS 将视频转码为 HLS 流媒体格式，输出 index.m3u8 和分段文件
// 超时后强制结束 ffmpeg 进程并返回错误
func ConvertToHLS(videoPath, outputDir string, timeout time.Duration) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("创建转码输出目录失败: %v", err)
	}

	playlist := filepath.Join(outputDir, "index.m3u8")
	cmd := ffmpeg.Input(videoPath).
		Output(playlist, ffmpeg.KwArgs{
			"c:v":                  "libx264",
			"c:a":                  "aac",
			"hls_time":             "10",
			"hls_playlist_type":    "vod",
			"hls_segment_filename": filepath.Join(outputDir, "segment_%03d.ts"),
		}).
		OverWriteOutput().
		Compile()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("启动转码进程失败: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("视频转码失败: %v", err)
		}
		return nil
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
		return fmt.Errorf("视频转码超时(%s)，已终止进程", timeout)
	}
}

// GetFFmpegVersion 获取FFmpeg版本信息，用于检查FFmpeg是否正确安装
func GetFFmpegVersion() (string, error) {
	cmd := exec.Command("ffmpeg", "-version", "-hide_banner")
	var out bytes.Buffer
	var errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("获取FFmpeg版本失败，请确保FFmpeg已正确安装: %v, %s", err, errOut.String())
	}

	return out.String(), nil
}
