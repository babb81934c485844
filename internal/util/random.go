package util

import "math/rand"

const randomChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomString 生成指定长度的随机字符串，用于文件名去重
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomChars[rand.Intn(len(randomChars))]
	}
	return string(b)
}
