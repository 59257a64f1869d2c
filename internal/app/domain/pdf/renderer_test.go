package pdf

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 120, B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func kinds(blocks []Block) []Kind {
	out := make([]Kind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func TestLayout(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "city_lisbon.png")
	writePNG(t, cover)

	markdown := "## Trip Overview\n### Day 1\nWalk along the **river**"

	tests := []struct {
		name      string
		imagePath string
		want      []Block
	}{
		{
			name: "without image",
			want: []Block{
				{Kind: KindTitle, Text: "Travel Guide: Lisbon"},
				{Kind: KindSubtitle, Text: "3 Day Itinerary"},
				{Kind: KindHeading, Text: "Trip Overview"},
				{Kind: KindSubheading, Text: "Day 1"},
				{Kind: KindParagraph, Text: "Walk along the **river**"},
			},
		},
		{
			name:      "missing image file is omitted",
			imagePath: filepath.Join(dir, "nope.png"),
			want: []Block{
				{Kind: KindTitle, Text: "Travel Guide: Lisbon"},
				{Kind: KindSubtitle, Text: "3 Day Itinerary"},
				{Kind: KindHeading, Text: "Trip Overview"},
				{Kind: KindSubheading, Text: "Day 1"},
				{Kind: KindParagraph, Text: "Walk along the **river**"},
			},
		},
		{
			name:      "with image",
			imagePath: cover,
			want: []Block{
				{Kind: KindImage, Text: cover},
				{Kind: KindTitle, Text: "Travel Guide: Lisbon"},
				{Kind: KindSubtitle, Text: "3 Day Itinerary"},
				{Kind: KindHeading, Text: "Trip Overview"},
				{Kind: KindSubheading, Text: "Day 1"},
				{Kind: KindParagraph, Text: "Walk along the **river**"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Layout(Document{Destination: "Lisbon", Days: 3, Markdown: markdown, ImagePath: tc.imagePath})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLayoutKeepsBlankAndRichLines(t *testing.T) {
	got := Layout(Document{Destination: "Oslo", Days: 2, Markdown: "intro\n\n- item\n#### deep\n##no space"})
	assert.Equal(t,
		[]Kind{KindTitle, KindSubtitle, KindParagraph, KindParagraph, KindParagraph, KindParagraph, KindParagraph},
		kinds(got))
	assert.Equal(t, "", got[3].Text)
	assert.Equal(t, "#### deep", got[5].Text)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "travel_guide_lisbon_3days.pdf", FileName("Lisbon", 3))
	assert.Equal(t, "travel_guide_new_york_5days.pdf", FileName("New York", 5))
	assert.Equal(t, "travel_guide_.._etc_1days.pdf", FileName("../etc", 1))
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	writePNG(t, cover)
	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not a png"), 0o644))

	tests := []struct {
		name      string
		imagePath string
	}{
		{name: "no image"},
		{name: "valid image", imagePath: cover},
		{name: "undecodable image is skipped", imagePath: broken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(dir, "downloads")
			r := NewRenderer(out, zap.NewNop())

			path, err := r.Render(context.Background(), Document{
				Destination: "Lisbon",
				Days:        3,
				Markdown:    "## Trip Overview\n### Day 1\nPastéis de nata at Belém",
				ImagePath:   tc.imagePath,
			})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(out, "travel_guide_lisbon_3days.pdf"), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF", "output should be a PDF")
		})
	}
}

func TestRenderWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := NewRenderer(filepath.Join(blocker, "downloads"), nil)
	_, err := r.Render(context.Background(), Document{Destination: "Rome", Days: 1, Markdown: "hi"})
	assert.Error(t, err)
}

func TestRenderKeepsNonLatinText(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		markdown    string
		wantFile    string
	}{
		{name: "cjk", destination: "東京", markdown: "## 旅行概要\n### Day 1\n浅草寺", wantFile: "travel_guide_東京_2days.pdf"},
		{name: "polish", destination: "Łódź", markdown: "## Trip Overview\nŻurek at Piotrkowska", wantFile: "travel_guide_łódź_2days.pdf"},
		{name: "arrows and emoji", destination: "Lisbon", markdown: "### Day 1\nDay 1 → Sintra 🚆", wantFile: "travel_guide_lisbon_2days.pdf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := t.TempDir()
			r := NewRenderer(out, zap.NewNop())

			path, err := r.Render(context.Background(), Document{Destination: tc.destination, Days: 2, Markdown: tc.markdown})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(out, tc.wantFile), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			body := string(data)
			assert.Contains(t, body, "/Identity-H")
			assert.Contains(t, body, "/ToUnicode")
			assert.NotContains(t, body, "/Helvetica")
		})
	}
}

func TestPDFText(t *testing.T) {
	assert.Equal(t, "Travel Guide: 東京", pdfText("Travel Guide: 東京"))
	assert.Equal(t, "Łódź → Kraków", pdfText("Łódź → Kraków"))
	assert.Equal(t, "Sintra \uFFFD", pdfText("Sintra 🚆"))
}

func TestLoadFonts(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	require.NoError(t, os.WriteFile(regular, defaultRegularFont, 0o644))

	r := NewRenderer(filepath.Join(dir, "out"), nil)
	require.NoError(t, r.LoadFonts(regular, ""))

	path, err := r.Render(context.Background(), Document{Destination: "Αθήνα", Days: 1, Markdown: "## Ακρόπολη"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "travel_guide_αθήνα_1days.pdf"))

	err = r.LoadFonts(filepath.Join(dir, "missing.ttf"), "")
	assert.Error(t, err)
}
