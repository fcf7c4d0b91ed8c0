package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIdentityBasic(t *testing.T) {
	text := "John Doe\njohn.doe@email.com\n+1-234-567-8901\nNew York, USA"

	info, confidence := ExtractIdentity(text)

	assert.Equal(t, "john.doe@email.com", info.Email)
	assert.Equal(t, "John Doe", info.FullName)
	assert.Equal(t, "John", info.FirstName)
	assert.Equal(t, "Doe", info.LastName)
	assert.Equal(t, "+1-234-567-8901", info.Phone)
	assert.Equal(t, "New York, USA", info.Location)
	// 0.3 邮箱 + 0.2 电话 + 0.3 姓名 + 0.2 地点
	assert.InDelta(t, 1.0, confidence, 1e-9)
}

func TestExtractIdentityWithoutPhone(t *testing.T) {
	text := "John Doe\njohn.doe@email.com\nNew York, USA"

	info, confidence := ExtractIdentity(text)
	assert.Empty(t, info.Phone)
	assert.InDelta(t, 0.8, confidence, 1e-9)
}

func TestExtractIdentityShortPhoneRejected(t *testing.T) {
	info, confidence := ExtractIdentity("call me at 555-1234 anytime")
	assert.Empty(t, info.Phone, "少于10位数字的号码不应被接受")
	assert.Zero(t, confidence)
}

func TestExtractIdentityLinks(t *testing.T) {
	text := "Jane Smith\nlinkedin.com/in/jane-smith | github.com/janesmith | https://janesmith.dev"

	info, confidence := ExtractIdentity(text)

	assert.Equal(t, "https://linkedin.com/in/jane-smith", info.LinkedIn)
	assert.Equal(t, "https://github.com/janesmith", info.GitHub)
	assert.Equal(t, "https://janesmith.dev", info.Portfolio)
	assert.Equal(t, "Jane Smith", info.FullName)
	assert.InDelta(t, 0.3, confidence, 1e-9, "只有姓名命中")
}

func TestExtractIdentityPortfolioSkipsSocialURLs(t *testing.T) {
	text := "https://github.com/janesmith https://www.linkedin.com/in/jane https://blog.example.org/posts"
	info, _ := ExtractIdentity(text)
	assert.Equal(t, "https://blog.example.org", info.Portfolio)
}

func TestExtractIdentityNameRules(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"单词行不是姓名", "Jane\nJane Smith", "Jane Smith"},
		{"含联系关键字的行被跳过", "Email Me Here\nMary Ann Lee", "Mary Ann Lee"},
		{"小写开头的词不合格", "jane smith\nJane Smith", "Jane Smith"},
		{"超过4个词不合格", "Senior Staff Software Engineer Lead\nAl Green", "Al Green"},
		{"只看前5个非空行", "a\nb\nc\nd\ne\nJane Smith", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, _ := ExtractIdentity(tc.text)
			assert.Equal(t, tc.want, info.FullName)
		})
	}
}

func TestExtractIdentityLocationSpecificity(t *testing.T) {
	info, _ := ExtractIdentity("Based in Austin, TX, USA, 73301 these days")
	assert.Equal(t, "Austin, TX, USA, 73301", info.Location)

	info, _ = ExtractIdentity("Based in Austin, TX, USA")
	assert.Equal(t, "Austin, TX, USA", info.Location)
}

func TestExtractIdentityEmpty(t *testing.T) {
	info, confidence := ExtractIdentity("  \n ")
	assert.Empty(t, info)
	assert.Zero(t, confidence)
}
