package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"course_edu_backend/internal/config"

	"go.uber.org/zap"
)

// MailService 通过 SMTP 发送通知邮件
type MailService struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func NewMailService(cfg *config.Config, logger *zap.Logger) *MailService {
	return &MailService{cfg: cfg.Mail, logger: logger}
}

func (s *MailService) Send(to, subject, body string) error {
	if s.cfg.Host == "" {
		s.logger.Debug("邮件服务未配置，跳过发送", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("邮件发送失败", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

// SendTranscodeDone 视频转码完成通知
func (s *MailService) SendTranscodeDone(to, lessonTitle string, success bool) error {
	subject := "视频处理完成"
	body := fmt.Sprintf("课时「%s」的视频已处理完成，可以正常播放。", lessonTitle)
	if !success {
		subject = "视频处理失败"
		body = fmt.Sprintf("课时「%s」的视频处理失败，请重新上传或联系管理员。", lessonTitle)
	}
	return s.Send(to, subject, body)
}
