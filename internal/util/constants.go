package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

// 流媒体清单文件后缀，命中时远端清理需要删除整个目录前缀
const StreamManifestSuffix = ".m3u8"

var (
	AllowedVideoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
		".wmv": true, ".flv": true, ".webm": true,
	}
	AllowedImageExtensions = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true,
		".gif": true, ".webp": true, ".svg": true,
	}
)
