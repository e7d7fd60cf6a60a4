package random

import (
	"crypto/rand"
	"math/big"
	"time"
)

// GetNowAndLenRandomString 生成带时间戳前缀的随机字符串（用于临时文件名）
// 格式: YYMMDD + 字母数字混合
// 示例: 260901AbCdE1234567
func GetNowAndLenRandomString(length int) string {
	result := make([]byte, length)
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			result[i] = 'x'
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return time.Now().Format("060102") + string(result)
}
