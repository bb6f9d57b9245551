package scrape

import (
	"errors"
	"io"

	"golang.org/x/net/html"
)

// Attr is one attribute of a start tag. Keys are lower-cased and values
// have their character references unescaped.
type Attr struct {
	Key string
	Val string
}

// StartTag is emitted for every opening or self-closing tag.
type StartTag struct {
	// Name is the lower-cased tag name, e.g. "a".
	Name string

	Attrs []Attr
}

// Attr returns the value of the named attribute and whether it was present.
// The first occurrence wins when an attribute is repeated.
func (t StartTag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// StartTagHandler receives start tags in document order.
type StartTagHandler func(StartTag)

// Tokenizer pushes tag events from an HTML stream to its subscribers.
//
// Tokenizer knows nothing about what the events are used for; consumers
// subscribe with OnStartTag and keep their own state.
//
// Example:
//
//	tok := NewTokenizer()
//	tok.OnStartTag(func(tag StartTag) {
//	    if href, ok := tag.Attr("href"); ok && tag.Name == "a" {
//	        fmt.Println(href)
//	    }
//	})
//	err := tok.Feed(strings.NewReader(page))
type Tokenizer struct {
	startTag []StartTagHandler
}

// NewTokenizer creates a Tokenizer without subscribers.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// OnStartTag subscribes h to start-tag events. Handlers are called in
// subscription order.
func (t *Tokenizer) OnStartTag(h StartTagHandler) {
	t.startTag = append(t.startTag, h)
}

// Feed tokenizes r until EOF, emitting events as tags are seen.
//
// Malformed markup is tolerated the way browsers tolerate it. The only
// errors returned come from reading r.
func (t *Tokenizer) Feed(r io.Reader) error {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		case html.StartTagToken, html.SelfClosingTagToken:
			t.emitStartTag(z.Token())
		}
	}
}

func (t *Tokenizer) emitStartTag(tok html.Token) {
	if len(t.startTag) == 0 {
		return
	}
	tag := StartTag{Name: tok.Data}
	if len(tok.Attr) > 0 {
		tag.Attrs = make([]Attr, 0, len(tok.Attr))
		for _, a := range tok.Attr {
			tag.Attrs = append(tag.Attrs, Attr{Key: a.Key, Val: a.Val})
		}
	}
	for _, h := range t.startTag {
		h(tag)
	}
}
