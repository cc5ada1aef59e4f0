package certificate

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/mehmonov/friends-check-bot/internal/quiz"
)

const (
	width  = 1200
	height = 800
)

var (
	gold    = color.RGBA{R: 212, G: 175, B: 55, A: 255}
	navy    = color.RGBA{R: 0, G: 0, B: 128, A: 255}
	darkRed = color.RGBA{R: 139, G: 0, B: 0, A: 255}
)

// Renderer draws friendship certificates. Font faces are loaded once at
// construction; when no TTF is available the renderer still works with gg's
// built-in face.
type Renderer struct {
	titleFace font.Face
	mainFace  font.Face
	dateFace  font.Face
}

// NewRenderer loads the given TTF file. An empty path or a load failure
// falls back to default faces instead of failing the bot.
func NewRenderer(fontPath string) *Renderer {
	r := &Renderer{}
	if fontPath == "" {
		return r
	}

	raw, err := os.ReadFile(fontPath)
	if err != nil {
		zap.L().Warn("Certificate font unavailable, using default face",
			zap.String("path", fontPath), zap.Error(err))
		return r
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		zap.L().Warn("Certificate font unparsable, using default face",
			zap.String("path", fontPath), zap.Error(err))
		return r
	}

	r.titleFace = newFace(parsed, 60)
	r.mainFace = newFace(parsed, 40)
	r.dateFace = newFace(parsed, 30)
	return r
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Render produces the certificate PNG for a finished attempt.
func (r *Renderer) Render(name string, correctCount, totalQuestions int, percentage float64) ([]byte, error) {
	dc := gg.NewContext(width, height)

	dc.SetColor(color.White)
	dc.Clear()

	// Double gold frame
	dc.SetColor(gold)
	dc.SetLineWidth(5)
	dc.DrawRectangle(40, 40, width-80, height-80)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(50, 50, width-100, height-100)
	dc.Stroke()

	cx := float64(width) / 2

	r.setFace(dc, r.titleFace)
	dc.SetColor(navy)
	dc.DrawStringAnchored("FRIENDSHIP CERTIFICATE", cx, 150, 0.5, 0.5)

	r.setFace(dc, r.mainFace)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(name, cx, 300, 0.5, 0.5)
	dc.DrawStringAnchored(
		fmt.Sprintf("answered %d out of %d questions correctly", correctCount, totalQuestions),
		cx, 430, 0.5, 0.5,
	)

	dc.SetColor(navy)
	dc.DrawStringAnchored(fmt.Sprintf("Score: %.1f%%", percentage), cx, 530, 0.5, 0.5)

	level, levelDesc := tierLines(quiz.TierFor(percentage))
	dc.SetColor(darkRed)
	dc.DrawStringAnchored(level, cx, 610, 0.5, 0.5)
	dc.DrawStringAnchored(levelDesc, cx, 670, 0.5, 0.5)

	r.setFace(dc, r.dateFace)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(time.Now().Format("02.01.2006"), width-120, height-90, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode certificate PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) setFace(dc *gg.Context, face font.Face) {
	if face != nil {
		dc.SetFontFace(face)
	}
}

func tierLines(tier quiz.Tier) (string, string) {
	switch tier {
	case quiz.TierGold:
		return "🌟 GOLD LEVEL 🌟", "You are an amazing friend!"
	case quiz.TierSilver:
		return "✨ SILVER LEVEL ✨", "You are a good friend!"
	default:
		return "💫 BRONZE LEVEL 💫", "You are a new friend!"
	}
}
