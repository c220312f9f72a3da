// Package ai turns transcripts into platform-ready content through an
// OpenAI-compatible chat completion endpoint.
package ai

import (
	"fmt"
	"strings"
)

// Content types accepted by the generation endpoint.
const (
	ContentTypeSocial = "social_media"
	ContentTypeBlog   = "blog"
)

// Platform describes a supported social network and its post length limit.
type Platform struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxLength int    `json:"max_length"`
}

// Platforms returns the supported platforms in their canonical order.
func Platforms() []Platform {
	return []Platform{
		{ID: "LinkedIn", Name: "LinkedIn", MaxLength: 3000},
		{ID: "Twitter", Name: "X (Twitter)", MaxLength: 280},
		{ID: "BlueSky", Name: "BlueSky", MaxLength: 300},
		{ID: "Instagram", Name: "Instagram", MaxLength: 2200},
		{ID: "Facebook", Name: "Facebook", MaxLength: 63206},
		{ID: "TikTok", Name: "TikTok", MaxLength: 2200},
	}
}

// NormalizeTag makes sure a plain name becomes a handle. Tags that already
// carry an @ or # prefix pass through unchanged, so the function is
// idempotent.
func NormalizeTag(tag string) string {
	if strings.HasPrefix(tag, "@") || strings.HasPrefix(tag, "#") {
		return tag
	}
	return "@" + tag
}

func formatTags(tags []string) string {
	formatted := make([]string, 0, len(tags))
	for _, tag := range tags {
		formatted = append(formatted, NormalizeTag(tag))
	}
	return strings.Join(formatted, ", ")
}

// BuildPrompt assembles the user prompt for the given content type.
func BuildPrompt(transcript string, platforms []string, context, audience string, tags []string, contentType string) string {
	if contentType == ContentTypeBlog {
		return fmt.Sprintf(blogPromptTemplate, transcript, context, audience, formatTags(tags))
	}
	return fmt.Sprintf(socialPromptTemplate, transcript, strings.Join(platforms, ", "), context, audience, formatTags(tags))
}

const socialPromptTemplate = `You are an expert social media manager with deep experience creating engaging content for various platforms.

TASK: Create optimized social media posts based on the transcribed content provided below.

TRANSCRIPTION:
` + "```" + `
%s
` + "```" + `

TARGET PLATFORMS: %s

ADDITIONAL CONTEXT:
%s

TARGET AUDIENCE:
%s

PEOPLE/ACCOUNTS TO TAG:
%s

INSTRUCTIONS:
1. For each platform, create a post that is optimized for that platform's specific style, length limits, and audience expectations.
2. Use appropriate emojis, formatting, and hashtags for each platform.
3. Incorporate the tags provided when relevant.
4. Ensure the posts capture the key messages from the transcription.
5. Format your response as JSON with the following structure:

` + "```json" + `
{
  "LinkedIn": {
    "text": "Your LinkedIn post content here",
    "character_count": 123
  },
  "Twitter": {
    "text": "Your Twitter post content here",
    "character_count": 123
  },
  ... (and so on for each requested platform)
}
` + "```" + `

LENGTH CONSTRAINTS:
- LinkedIn: 3,000 characters
- Twitter/X: 280 characters
- BlueSky: 300 characters
- Instagram: 2,200 characters
- Facebook: 63,206 characters
- TikTok: 2,200 characters

Only generate content for the platforms specified in the TARGET PLATFORMS section.
`

const blogPromptTemplate = `You are an expert content creator with deep experience creating engaging blog posts.

TASK: Create a comprehensive blog post based on the transcribed content provided below.

TRANSCRIPTION:
` + "```" + `
%s
` + "```" + `

ADDITIONAL CONTEXT:
%s

TARGET AUDIENCE:
%s

PEOPLE/ACCOUNTS TO REFERENCE:
%s

INSTRUCTIONS:
1. Create a well-structured, engaging blog post that expands on the key ideas from the transcription.
2. The blog post should include:
   - An attention-grabbing headline
   - An introduction that hooks the reader
   - Well-organized body paragraphs with subheadings where appropriate
   - A conclusion that summarizes the main points
3. Use a professional tone that resonates with the target audience.
4. Incorporate the people/accounts to reference when relevant.
5. Format your response as JSON with the following structure:

` + "```json" + `
{
  "blog_content": {
    "text": "Your complete blog post content here, including headline",
    "character_count": 123
  }
}
` + "```" + `

Create a comprehensive, well-written blog post that truly captures the essence of the transcribed content while being engaging and valuable to readers.
`
