package deck

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/deckaudit/deckaudit/internal/model"
)

// SplitSlides extracts the raw source of each top-level <section> element.
//
// We walk the token stream rather than a parsed tree because the tokenizer's
// Raw() method gives us the exact source bytes of every token, which a
// re-rendered DOM would not preserve. Nested sections (vertical stacks) stay
// inside their parent slide.
func SplitSlides(raw string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	var slides []string
	var current strings.Builder
	depth := 0

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			// Unterminated section at EOF still counts as a slide.
			if depth > 0 && current.Len() > 0 {
				slides = append(slides, current.String())
			}
			return slides
		}

		rawToken := string(tokenizer.Raw())
		name, _ := tokenizer.TagName()

		switch tokenType {
		case html.StartTagToken:
			if string(name) == "section" {
				depth++
			}
			if depth > 0 {
				current.WriteString(rawToken)
			}
		case html.EndTagToken:
			if depth > 0 {
				current.WriteString(rawToken)
			}
			if string(name) == "section" && depth > 0 {
				depth--
				if depth == 0 {
					slides = append(slides, current.String())
					current.Reset()
				}
			}
		case html.SelfClosingTagToken, html.TextToken, html.CommentToken:
			if depth > 0 {
				current.WriteString(rawToken)
			}
		}
	}
}

// parseSlide builds a model.Slide from one section fragment.
func parseSlide(number int, fragment string) (model.Slide, error) {
	slide := model.Slide{
		Number:   number,
		Fragment: fragment,
	}
	slide.ComputeHash()

	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return slide, err
	}

	var text strings.Builder
	for _, node := range nodes {
		walkSlide(node, &slide, &text)
	}

	// NFC normalization keeps word counts stable across composed and
	// decomposed source encodings.
	slide.Text = norm.NFC.String(strings.TrimSpace(text.String()))
	return slide, nil
}

// bodyContext returns a body element node for fragment parsing context.
func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}

// walkSlide collects text, headings, images, and content counts from a node tree.
func walkSlide(n *html.Node, slide *model.Slide, text *strings.Builder) {
	switch n.Type {
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			// Inline scripts and stylesheets are not slide text.
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level, _ := strconv.Atoi(n.Data[1:])
			slide.Headings = append(slide.Headings, level)
			if slide.Title == "" {
				slide.Title = strings.TrimSpace(nodeText(n))
			}
		case "img":
			img := model.SlideImage{}
			for _, attr := range n.Attr {
				switch attr.Key {
				case "src":
					img.Source = attr.Val
				case "alt":
					img.Alt = attr.Val
					img.HasAlt = true
				}
			}
			slide.Images = append(slide.Images, img)
		case "li":
			slide.Bullets++
		case "p":
			slide.Paragraphs++
		}
	case html.TextNode:
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(trimmed)
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walkSlide(child, slide, text)
	}
}

// nodeText returns the concatenated text content of a node tree.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
