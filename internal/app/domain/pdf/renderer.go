package pdf

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/observability/metrics"
)

const (
	inch        = 25.4
	margin      = 0.5 * inch
	imageWidth  = 5 * inch
	imageHeight = 3 * inch
	lineHeight  = 5.0
)

const fontFamily = "GuideSans"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	defaultRegularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	defaultBoldFont []byte
)

type style struct {
	weight string
	size   float64
	height float64
	before float64
}

var styles = map[Kind]style{
	KindTitle:      {weight: "B", size: 22, height: 10},
	KindSubtitle:   {weight: "B", size: 15, height: 8},
	KindHeading:    {weight: "B", size: 17, height: 8, before: 0.2 * inch},
	KindSubheading: {weight: "B", size: 14, height: 7},
	KindParagraph:  {weight: "", size: 10, height: lineHeight},
}

// Renderer writes itinerary PDFs into a downloads directory. Text is set in
// an embedded DejaVu Sans unless other TrueType fonts are loaded.
type Renderer struct {
	dir         string
	regularFont []byte
	boldFont    []byte
	logger      *zap.Logger
}

func NewRenderer(dir string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		dir:         dir,
		regularFont: defaultRegularFont,
		boldFont:    defaultBoldFont,
		logger:      logger,
	}
}

// LoadFonts replaces the embedded fonts with TrueType files, e.g. a CJK
// font. An empty boldPath reuses the regular font for headings.
func (r *Renderer) LoadFonts(regularPath, boldPath string) error {
	regular, err := os.ReadFile(regularPath)
	if err != nil {
		return fmt.Errorf("failed to read pdf font %s: %w", regularPath, err)
	}
	bold := regular
	if boldPath != "" {
		if bold, err = os.ReadFile(boldPath); err != nil {
			return fmt.Errorf("failed to read pdf font %s: %w", boldPath, err)
		}
	}
	r.regularFont, r.boldFont = regular, bold
	return nil
}

// pdfText keeps text as written except runes beyond the Basic Multilingual
// Plane, which gofpdf cannot index and which become U+FFFD.
func pdfText(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '\uFFFD'
		}
		return r
	}, s)
}

// Path is where Render writes the PDF for doc.
func (r *Renderer) Path(doc Document) string {
	return filepath.Join(r.dir, FileName(doc.Destination, doc.Days))
}

// Render lays out doc and writes it, overwriting any previous file of the same
// name. An image that cannot be decoded is left out; write failures are returned.
func (r *Renderer) Render(ctx context.Context, doc Document) (string, error) {
	ctx, span := otel.Tracer("PDFRenderer").Start(ctx, "Render", trace.WithAttributes(
		attribute.String("destination", doc.Destination),
		attribute.Int("days", doc.Days),
	))
	defer span.End()

	start := time.Now()
	l := r.logger.With(zap.String("method", "Render"), zap.String("destination", doc.Destination))

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create downloads directory")
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(pdfText("Travel Guide: "+doc.Destination), true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", r.boldFont)
	if err := pdf.Error(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load fonts")
		return "", fmt.Errorf("failed to load pdf fonts: %w", err)
	}
	pdf.AddPage()

	blocks := Layout(doc)
	for _, b := range blocks {
		if b.Kind == KindImage {
			if !r.drawImage(pdf, b.Text) {
				l.Warn("Skipping undecodable cover image", zap.String("path", b.Text))
			}
			continue
		}

		s := styles[b.Kind]
		if s.before > 0 {
			pdf.Ln(s.before)
		}
		pdf.SetFont(fontFamily, s.weight, s.size)
		pdf.MultiCell(0, s.height, pdfText(b.Text), "", "L", false)
		if b.Kind == KindSubtitle {
			pdf.Ln(0.2 * inch)
		}
	}

	path := r.Path(doc)
	if err := pdf.OutputFileAndClose(path); err != nil {
		l.Error("Failed to write PDF", zap.String("path", path), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write PDF")
		return "", fmt.Errorf("failed to write pdf %s: %w", path, err)
	}

	metrics.Get().PDFRenderDuration.Record(ctx, time.Since(start).Seconds())
	l.Info("PDF written", zap.String("path", path), zap.Int("blocks", len(blocks)))
	span.SetStatus(codes.Ok, "PDF written")
	return path, nil
}

func (r *Renderer) drawImage(pdf *gofpdf.Fpdf, path string) bool {
	opts := gofpdf.ImageOptions{ReadDpi: true}
	pdf.RegisterImageOptions(path, opts)
	if !pdf.Ok() {
		pdf.ClearError()
		return false
	}

	pageWidth, _ := pdf.GetPageSize()
	x := (pageWidth - imageWidth) / 2
	pdf.ImageOptions(path, x, pdf.GetY(), imageWidth, imageHeight, true, opts, 0, "")
	pdf.Ln(0.3 * inch)
	return true
}
