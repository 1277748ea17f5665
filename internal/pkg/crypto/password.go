package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*-_=+?"

	// TemporaryPasswordLength 临时密码长度
	TemporaryPasswordLength = 12
)

// GenerateTemporaryPassword 生成临时密码
// 至少2个小写、2个大写、2个数字、1个符号，其余从全字符集补齐后打乱
func GenerateTemporaryPassword() (string, error) {
	groups := []struct {
		chars string
		count int
	}{
		{lowerChars, 2},
		{upperChars, 2},
		{digitChars, 2},
		{symbolChars, 1},
	}

	buf := make([]byte, 0, TemporaryPasswordLength)
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			c, err := randomChar(g.chars)
			if err != nil {
				return "", err
			}
			buf = append(buf, c)
		}
	}

	all := lowerChars + upperChars + digitChars + symbolChars
	for len(buf) < TemporaryPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

func randomChar(chars string) (byte, error) {
	i, err := randomInt(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("生成随机数失败: %w", err)
	}
	return int(v.Int64()), nil
}
