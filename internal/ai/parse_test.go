package ai

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSocialJSON = `{
  "LinkedIn": {"text": "Long-form post", "character_count": 999},
  "Twitter": {"text": "Short post", "character_count": 1}
}`

func TestParseSocialFencedBlockEqualsBareJSON(t *testing.T) {
	fenced := "Here are your posts!\n```json\n" + sampleSocialJSON + "\n```\nLet me know if you want edits."

	fromFenced, err := ParseSocial(fenced, []string{"LinkedIn", "Twitter"})
	require.NoError(t, err)
	fromBare, err := ParseSocial(sampleSocialJSON, []string{"LinkedIn", "Twitter"})
	require.NoError(t, err)

	assert.Equal(t, fromBare, fromFenced)
}

func TestParseSocialRecomputesCharacterCounts(t *testing.T) {
	result, err := ParseSocial(sampleSocialJSON, []string{"LinkedIn", "Twitter"})
	require.NoError(t, err)

	// Model-supplied counts are discarded in favor of the actual length.
	assert.Equal(t, len("Long-form post"), result["LinkedIn"].CharacterCount)
	assert.Equal(t, len("Short post"), result["Twitter"].CharacterCount)
}

func TestParseSocialCountsRunesNotBytes(t *testing.T) {
	result, err := ParseSocial(`{"Twitter": {"text": "Great talk 🚀🚀", "character_count": 19}}`,
		[]string{"Twitter"})
	require.NoError(t, err)

	// Platform limits are in characters, so emoji must count as one each.
	assert.Equal(t, 13, result["Twitter"].CharacterCount)
	assert.Equal(t, utf8.RuneCountInString(result["Twitter"].Text), result["Twitter"].CharacterCount)
}

func TestParseBlogCountsRunesNotBytes(t *testing.T) {
	blog, err := ParseBlog(`{"blog_content": {"text": "Héllo wörld", "character_count": 99}}`)
	require.NoError(t, err)
	assert.Equal(t, 11, blog.CharacterCount)
}

func TestParseSocialBackfillsMissingPlatforms(t *testing.T) {
	result, err := ParseSocial(`{"LinkedIn": {"text": "hi", "character_count": 2}}`,
		[]string{"LinkedIn", "BlueSky"})
	require.NoError(t, err)

	placeholder := "[No content generated for BlueSky]"
	assert.Equal(t, placeholder, result["BlueSky"].Text)
	assert.Equal(t, len(placeholder), result["BlueSky"].CharacterCount)
}

func TestParseSocialRepairsEmbeddedNewlines(t *testing.T) {
	broken := "{\"Twitter\": {\"text\": \"line one\nline two\", \"character_count\": 17}}"

	result, err := ParseSocial(broken, []string{"Twitter"})
	require.NoError(t, err)
	assert.Equal(t, "line oneline two", result["Twitter"].Text)
}

func TestParseSocialMalformed(t *testing.T) {
	_, err := ParseSocial("I could not produce JSON, sorry.", []string{"Twitter"})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseSocial("{\"Twitter\": not json}", []string{"Twitter"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseBlog(t *testing.T) {
	content := "```json\n{\"blog_content\": {\"text\": \"# Headline\\n\\nBody\", \"character_count\": 1}}\n```"

	blog, err := ParseBlog(content)
	require.NoError(t, err)
	assert.Equal(t, "# Headline\n\nBody", blog.Text)
	assert.Equal(t, len("# Headline\n\nBody"), blog.CharacterCount)
}

func TestParseBlogFallbackWhenStructureMissing(t *testing.T) {
	blog, err := ParseBlog(`{"something_else": true}`)
	require.NoError(t, err)
	assert.Equal(t, "[No blog content generated]", blog.Text)
	assert.Equal(t, len("[No blog content generated]"), blog.CharacterCount)
}

func TestExtractJSONPrefersFencedBlock(t *testing.T) {
	content := "prose with a stray { brace\n```json\n{\"a\": 1}\n```"
	got, err := extractJSON(content)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, got)
}
