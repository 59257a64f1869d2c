package pdf

import (
	"fmt"
	"os"
	"strings"
)

// Kind classifies one laid-out block.
type Kind int

const (
	KindImage Kind = iota
	KindTitle
	KindSubtitle
	KindHeading
	KindSubheading
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindTitle:
		return "title"
	case KindSubtitle:
		return "subtitle"
	case KindHeading:
		return "heading"
	case KindSubheading:
		return "subheading"
	default:
		return "paragraph"
	}
}

// Block is one unit of PDF content. For KindImage, Text holds the image path.
type Block struct {
	Kind Kind
	Text string
}

// Document is the input of a render.
type Document struct {
	Destination string
	Days        int
	Markdown    string
	ImagePath   string
}

// Layout orders the blocks of doc: the cover image when its file exists, the
// title and subtitle, then one block per Markdown line. Only "## " and "### "
// prefixes are interpreted; every other line, blank ones included, is kept
// verbatim as a paragraph.
func Layout(doc Document) []Block {
	blocks := make([]Block, 0, 3+strings.Count(doc.Markdown, "\n")+1)

	if doc.ImagePath != "" {
		if info, err := os.Stat(doc.ImagePath); err == nil && !info.IsDir() {
			blocks = append(blocks, Block{Kind: KindImage, Text: doc.ImagePath})
		}
	}

	blocks = append(blocks,
		Block{Kind: KindTitle, Text: "Travel Guide: " + doc.Destination},
		Block{Kind: KindSubtitle, Text: fmt.Sprintf("%d Day Itinerary", doc.Days)},
	)

	for _, line := range strings.Split(doc.Markdown, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: KindHeading, Text: line[3:]})
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: KindSubheading, Text: line[4:]})
		default:
			blocks = append(blocks, Block{Kind: KindParagraph, Text: line})
		}
	}
	return blocks
}

// FileName is the deterministic output name for a destination and day count.
func FileName(destination string, days int) string {
	name := strings.ToLower(destination)
	name = strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(name)
	return fmt.Sprintf("travel_guide_%s_%ddays.pdf", name, days)
}
