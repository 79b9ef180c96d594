package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestComposeKeepsAllComponentsWhenTheyFit(t *testing.T) {
	got := Compose("short body", []string{"a", "b"}, "http://x", 280)

	assert.Equal(t, "short body\n\n#a #b\n\nhttp://x", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 280)
}

func TestComposeDropsHashtagsFirst(t *testing.T) {
	body := "a post body that matters"
	link := "https://example.com/article"
	tags := []string{
		"averyveryverylongtag", "anotherenormoustagname", "yetanotherlongtag",
		"andonemoreforgoodmeasure", "stillnotdoneyet", "okaylastone",
	}
	limit := len(body) + len(link) + 10

	got := Compose(body, tags, link, limit)

	assert.Equal(t, body+"\n\n"+link, got)
	assert.NotContains(t, got, "#")
}

func TestComposeDropsLinkAfterHashtags(t *testing.T) {
	body := "a body that together with the link is already too long"
	link := "https://example.com/a/very/long/reference/path"
	limit := len(body) + 5

	got := Compose(body, []string{"tag"}, link, limit)

	assert.Equal(t, body, got)
}

func TestComposeNeverDropsBody(t *testing.T) {
	body := strings.Repeat("x", 500)

	got := Compose(body, []string{"tag"}, "http://x", 280)

	assert.Equal(t, body, got, "an over-long body is returned whole, never truncated")
}

func TestComposeBudgetIsRunes(t *testing.T) {
	body := strings.Repeat("é", 100)
	link := "http://x"

	// 100 runes of body + separator + 8 of link.
	got := Compose(body, nil, link, 110)
	assert.Equal(t, body+"\n\n"+link, got)

	got = Compose(body, nil, link, 105)
	assert.Equal(t, body, got)
}

func TestComposeWithoutOptionalComponents(t *testing.T) {
	assert.Equal(t, "just a body", Compose("just a body", nil, "", 280))
	assert.Equal(t, "body\n\n#a", Compose("body", []string{"a"}, "", 280))
	assert.Equal(t, "body\n\nhttp://x", Compose("body", nil, "http://x", 280))
}

func TestHashtagBlockSkipsEmptyTags(t *testing.T) {
	assert.Equal(t, "#go #backend", HashtagBlock([]string{"go", "", "backend"}))
	assert.Equal(t, "", HashtagBlock(nil))
}
