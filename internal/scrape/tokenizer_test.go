package scrape

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer_EmitsStartTagsInOrder(t *testing.T) {
	page := `<html><body>
		<A HREF="one.mp3">1</A>
		<img src="cover.jpg"/>
		<a href="two&amp;three.wav">2</a>
	</body></html>`

	var names []string
	var hrefs []string

	tok := NewTokenizer()
	tok.OnStartTag(func(tag StartTag) {
		names = append(names, tag.Name)
	})
	tok.OnStartTag(func(tag StartTag) {
		if href, ok := tag.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})

	require.NoError(t, tok.Feed(strings.NewReader(page)))

	assert.Equal(t, []string{"html", "body", "a", "img", "a"}, names)
	assert.Equal(t, []string{"one.mp3", "two&three.wav"}, hrefs)
}

func TestTokenizer_MalformedMarkup(t *testing.T) {
	page := `<a href="x.mp3"<<div <a href='y.mp3'>unterminated <p`

	count := 0
	tok := NewTokenizer()
	tok.OnStartTag(func(StartTag) { count++ })

	assert.NoError(t, tok.Feed(strings.NewReader(page)))
	assert.Greater(t, count, 0)
}

func TestTokenizer_ReaderError(t *testing.T) {
	readErr := errors.New("connection reset")
	tok := NewTokenizer()

	err := tok.Feed(iotest.ErrReader(readErr))

	assert.ErrorIs(t, err, readErr)
}

func TestStartTag_AttrFirstWins(t *testing.T) {
	tag := StartTag{Name: "a", Attrs: []Attr{{"href", "first"}, {"href", "second"}}}

	v, ok := tag.Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = tag.Attr("title")
	assert.False(t, ok)
}
