package service

import (
	"strings"

	"course_edu_backend/internal/config"
)

// CDNService 将存储键或相对路径映射为对外访问地址
type CDNService struct {
	baseURL string
}

func NewCDNService(cfg *config.Config) *CDNService {
	return &CDNService{baseURL: strings.TrimSuffix(cfg.CDN.BaseURL, "/")}
}

// BuildURL 完整 URL 原样返回，其它情况拼接 CDN 域名
func (s *CDNService) BuildURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if s.baseURL == "" {
		return ref
	}
	return s.baseURL + "/" + strings.TrimPrefix(ref, "/")
}
