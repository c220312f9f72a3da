package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "@alice"},
		{"@alice", "@alice"},
		{"#golang", "#golang"},
	}
	for _, tt := range tests {
		got := NormalizeTag(tt.in)
		assert.Equal(t, tt.want, got)
		// Applying it twice changes nothing.
		assert.Equal(t, tt.want, NormalizeTag(got))
	}
}

func TestPlatformsTable(t *testing.T) {
	byID := map[string]int{}
	for _, p := range Platforms() {
		byID[p.ID] = p.MaxLength
	}
	assert.Equal(t, 3000, byID["LinkedIn"])
	assert.Equal(t, 280, byID["Twitter"])
	assert.Equal(t, 300, byID["BlueSky"])
	assert.Equal(t, 2200, byID["Instagram"])
	assert.Equal(t, 63206, byID["Facebook"])
	assert.Equal(t, 2200, byID["TikTok"])
}

func TestBuildPromptSocial(t *testing.T) {
	prompt := BuildPrompt("the transcript text", []string{"LinkedIn", "Twitter"},
		"product launch", "developers", []string{"alice", "#golang"}, ContentTypeSocial)

	assert.Contains(t, prompt, "the transcript text")
	assert.Contains(t, prompt, "TARGET PLATFORMS: LinkedIn, Twitter")
	assert.Contains(t, prompt, "product launch")
	assert.Contains(t, prompt, "developers")
	assert.Contains(t, prompt, "@alice, #golang")
	assert.Contains(t, prompt, "LinkedIn: 3,000 characters")
	assert.Contains(t, prompt, "Twitter/X: 280 characters")
	assert.NotContains(t, prompt, "blog post")
}

func TestBuildPromptBlog(t *testing.T) {
	prompt := BuildPrompt("the transcript text", nil, "", "general readers", nil, ContentTypeBlog)

	assert.Contains(t, prompt, "the transcript text")
	assert.Contains(t, prompt, "blog_content")
	assert.Contains(t, prompt, "attention-grabbing headline")
	assert.Contains(t, prompt, "general readers")
	assert.NotContains(t, prompt, "TARGET PLATFORMS:")
}
