package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/test-contextual", "example.com/test-contextual"},
		{"http://Example.com/Path/", "example.com/path"},
		{"/example.com/a/", "example.com/a"},
		{"  https://EXAMPLE.com  ", "example.com"},
		{"example.com", "example.com"},
		{"", ""},
		{"https://", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestValidateLink(t *testing.T) {
	valid := []string{
		"https://example.com/article",
		"http://localhost:8080/path?q=1",
		"http://192.168.0.1",
	}
	for _, link := range valid {
		assert.NoError(t, ValidateLink(link), link)
	}

	assert.ErrorIs(t, ValidateLink(""), ErrLinkRequired)
	assert.ErrorIs(t, ValidateLink("   "), ErrLinkRequired)

	invalid := []string{
		"example.com",
		"ftp://example.com/file",
		"https://",
		"not a url",
	}
	for _, link := range invalid {
		assert.ErrorIs(t, ValidateLink(link), ErrInvalidLink, link)
	}
}
