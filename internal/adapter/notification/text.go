package notification

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var textConverter = md.NewConverter("", true, nil)

// PlainText 由HTML正文生成纯文本（markdown）备选内容
func PlainText(html string) string {
	text, err := textConverter.ConvertString(html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(text)
}
