// Package slug 提供 URL 安全的标识符生成
package slug

import (
	"strings"
	"time"
	"unicode"
)

// 时间戳后缀格式（秒级精度）
const timestampLayout = "20060102150405"

// Generate 根据种子文本生成 slug
// 种子按 rune 截断到 maxSeedLen，归一化为小写连字符形式，
// 并附加秒级时间戳后缀以降低碰撞概率。
// 唯一性由存储层的唯一索引保证，本函数不做查重。
func Generate(seed string, maxSeedLen int) string {
	return At(seed, maxSeedLen, time.Now().UTC())
}

// At 在指定时间点生成 slug
func At(seed string, maxSeedLen int, at time.Time) string {
	base := Normalize(seed, maxSeedLen)
	suffix := at.UTC().Format(timestampLayout)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// Normalize 将种子文本归一化为小写连字符序列
// 非字母数字的连续片段折叠为单个连字符，首尾连字符剔除。
func Normalize(seed string, maxSeedLen int) string {
	runes := []rune(seed)
	if maxSeedLen > 0 && len(runes) > maxSeedLen {
		runes = runes[:maxSeedLen]
	}

	var b strings.Builder
	lastHyphen := false
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
