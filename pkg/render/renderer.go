package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card canvas dimensions in pixels. The 1000x630 canvas keeps the CR80
// 85.6:54 aspect ratio used when the sides are placed on the output page.
const (
	CardWidthPx  = 1000
	CardHeightPx = 630
)

var (
	fallbackInk        = color.RGBA{A: 0xff}
	fallbackBackground = color.RGBA{R: 0xfc, G: 0xf8, B: 0xe3, A: 0xff}
	placeholderGray    = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

// YearRow is one line of the enrollment-history table on the card back.
type YearRow struct {
	Year           string
	Package        string
	Validity       string
	Representative string
	Remarks        string
}

// CardData carries the live field values substituted into the template. The
// caller passes whatever the record holds at the moment of rendering,
// including unsaved edits.
type CardData struct {
	Name             string
	PresentAddress   string
	Birthdate        string
	Gender           string
	CoopName         string
	DateIssued       string
	EmergencyContact string
	Photo            []byte
	Years            []YearRow
}

// Renderer rasterizes both card sides from a fixed template.
type Renderer struct {
	tpl Template

	title      font.Face
	subtitle   font.Face
	cardTitle  font.Face
	value      font.Face
	label      font.Face
	table      font.Face
	small      font.Face
	tiny       font.Face
	slogan     font.Face
	disclaimer font.Face
}

// NewRenderer builds the faces used by the card template.
func NewRenderer(tpl Template) (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse italic font: %w", err)
	}

	r := &Renderer{tpl: tpl}
	for _, item := range []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&r.title, bold, 58},
		{&r.subtitle, bold, 19},
		{&r.cardTitle, bold, 34},
		{&r.value, bold, 20},
		{&r.label, bold, 18},
		{&r.table, bold, 14},
		{&r.small, bold, 13},
		{&r.tiny, regular, 11},
		{&r.slogan, italic, 24},
		{&r.disclaimer, italic, 15},
	} {
		face, err := opentype.NewFace(item.src, &opentype.FaceOptions{
			Size:    item.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("build face: %w", err)
		}
		*item.dst = face
	}

	return r, nil
}

// RenderFront rasterizes the card front with the record's identity fields.
func (r *Renderer) RenderFront(data CardData) image.Image {
	canvas := r.newCanvas()
	ink := ParseColor(r.tpl.Palette.Ink, fallbackInk)
	maroon := ParseColor(r.tpl.Palette.Maroon, fallbackInk)
	brown := ParseColor(r.tpl.Palette.Brown, fallbackInk)

	r.drawCentered(canvas, r.title, 500, 70, maroon, r.tpl.TitleMain)
	r.drawCentered(canvas, r.subtitle, 500, 95, ink, r.tpl.TitleSub)
	fillRect(canvas, image.Rect(35, 104, 965, 107), maroon)

	r.drawCentered(canvas, r.small, 500, 125, ink, r.tpl.AddressLine1)
	r.drawCentered(canvas, r.small, 500, 143, ink, r.tpl.AddressLine2)
	r.drawCentered(canvas, r.slogan, 500, 172, ink, r.tpl.Slogan)
	r.drawCentered(canvas, r.cardTitle, 500, 208, brown, r.tpl.CardTitle)

	// Form box: photo cell on the left, identity rows on the right.
	formBox := image.Rect(35, 222, 965, 432)
	strokeRect(canvas, formBox, 3, ink)
	fillRect(canvas, image.Rect(235, 222, 238, 432), ink)
	r.drawPhoto(canvas, image.Rect(38, 225, 235, 429), data.Photo)

	rowX := 248
	fillRect(canvas, image.Rect(238, 264, 962, 265), ink)
	fillRect(canvas, image.Rect(238, 348, 962, 349), ink)
	fillRect(canvas, image.Rect(238, 390, 962, 391), ink)

	r.drawField(canvas, rowX, 254, ink, "Name:", strings.ToUpper(data.Name))
	drawText(canvas, r.label, rowX, 288, ink, "Present Address:")
	for i, line := range wrapText(r.value, strings.ToUpper(data.PresentAddress), 700) {
		if i > 1 {
			break
		}
		drawText(canvas, r.value, rowX, 314+i*28, ink, line)
	}
	r.drawField(canvas, rowX, 380, ink, "Birthdate:", strings.ToUpper(data.Birthdate))
	r.drawField(canvas, rowX, 422, ink, "Gender:", strings.ToUpper(data.Gender))

	// Member signature box.
	strokeRect(canvas, image.Rect(35, 447, 485, 492), 3, ink)
	drawText(canvas, r.label, 45, 470, ink, "Member's Signature:")

	// Footer boxes: coop name and date issued.
	strokeRect(canvas, image.Rect(35, 507, 595, 545), 3, ink)
	r.drawField(canvas, 45, 532, ink, "Coop Name:", strings.ToUpper(data.CoopName))
	strokeRect(canvas, image.Rect(615, 507, 965, 545), 3, ink)
	r.drawField(canvas, 625, 532, ink, "Date Issued:", strings.ToUpper(data.DateIssued))

	return canvas
}

// RenderBack rasterizes the history table, disclaimer and contact blocks.
func (r *Renderer) RenderBack(data CardData) image.Image {
	canvas := r.newCanvas()
	ink := ParseColor(r.tpl.Palette.Ink, fallbackInk)
	maroon := ParseColor(r.tpl.Palette.Maroon, fallbackInk)
	headerBg := ParseColor(r.tpl.Palette.TableHeader, fallbackBackground)
	yearBg := ParseColor(r.tpl.Palette.Background, fallbackBackground)

	colWidths := []int{112, 186, 186, 223, 223}
	tableTop, headerH, rowH := 25, 34, 30
	tableLeft, tableRight := 35, 965
	tableBottom := tableTop + headerH + rowH*len(data.Years)

	fillRect(canvas, image.Rect(tableLeft, tableTop, tableRight, tableTop+headerH), headerBg)
	x := tableLeft
	for i, h := range r.tpl.TableHeaders {
		r.drawCentered(canvas, r.table, x+colWidths[i]/2, tableTop+23, ink, h)
		x += colWidths[i]
	}

	for rowIdx, row := range data.Years {
		top := tableTop + headerH + rowIdx*rowH
		fillRect(canvas, image.Rect(tableLeft, top, tableLeft+colWidths[0], top+rowH), yearBg)
		baseline := top + 21
		x = tableLeft
		for colIdx, cell := range []string{row.Year, row.Package, row.Validity, row.Representative, row.Remarks} {
			r.drawCentered(canvas, r.table, x+colWidths[colIdx]/2, baseline, ink, cell)
			x += colWidths[colIdx]
		}
	}

	// Grid lines over the filled cells.
	for i := 0; i <= len(data.Years)+1; i++ {
		y := tableTop + headerH + (i-1)*rowH
		if i == 0 {
			y = tableTop
		}
		fillRect(canvas, image.Rect(tableLeft, y, tableRight, y+1), ink)
	}
	x = tableLeft
	for i := 0; i <= len(colWidths); i++ {
		fillRect(canvas, image.Rect(x, tableTop, x+1, tableBottom), ink)
		if i < len(colWidths) {
			x += colWidths[i]
		}
	}
	strokeRect(canvas, image.Rect(tableLeft-2, tableTop-2, tableRight+2, tableBottom+2), 3, ink)

	y := tableBottom + 40
	for _, line := range wrapText(r.disclaimer, r.tpl.Disclaimer, 910) {
		drawText(canvas, r.disclaimer, 45, y, maroon, line)
		y += 19
	}

	// Left footer: authorized signature and emergency contact.
	r.drawCentered(canvas, r.label, 245, 430, ink, r.tpl.AuthorizedName)
	fillRect(canvas, image.Rect(55, 440, 435, 442), ink)
	r.drawCentered(canvas, r.table, 245, 460, ink, r.tpl.AuthorizedRole)

	strokeRect(canvas, image.Rect(35, 478, 465, 548), 3, ink)
	drawText(canvas, r.small, 45, 500, ink, r.tpl.EmergencyTitle)
	drawText(canvas, r.value, 45, 530, ink, strings.ToUpper(data.EmergencyContact))
	fillRect(canvas, image.Rect(45, 538, 455, 539), ink)

	// Right footer: office contact block.
	right := 965
	r.drawRight(canvas, r.small, right, 430, ink, r.tpl.OfficeTitle)
	r.drawRight(canvas, r.tiny, right, 448, ink, r.tpl.OfficeNote)
	r.drawRight(canvas, r.slogan, right-40, 490, ink, r.tpl.OfficeTagline1)
	r.drawRight(canvas, r.slogan, right, 518, ink, r.tpl.OfficeTagline2)
	r.drawRight(canvas, r.small, right, 550, ink, r.tpl.OfficeTel)
	r.drawRight(canvas, r.small, right, 568, ink, r.tpl.OfficeCell)
	r.drawRight(canvas, r.tiny, right, 588, ink, r.tpl.OfficeEmail)

	return canvas
}

func (r *Renderer) newCanvas() *image.NRGBA {
	bg := ParseColor(r.tpl.Palette.Background, fallbackBackground)
	return imaging.New(CardWidthPx, CardHeightPx, bg)
}

func (r *Renderer) drawPhoto(canvas *image.NRGBA, box image.Rectangle, photo []byte) {
	if len(photo) == 0 {
		r.drawCentered(canvas, r.label, (box.Min.X+box.Max.X)/2, (box.Min.Y+box.Max.Y)/2, placeholderGray, "PHOTO")
		return
	}
	img, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		r.drawCentered(canvas, r.label, (box.Min.X+box.Max.X)/2, (box.Min.Y+box.Max.Y)/2, placeholderGray, "PHOTO")
		return
	}
	fitted := imaging.Fill(img, box.Dx(), box.Dy(), imaging.Center, imaging.Lanczos)
	draw.Draw(canvas, box, fitted, image.Point{}, draw.Src)
}

func (r *Renderer) drawField(canvas *image.NRGBA, x, baseline int, col color.Color, label, value string) {
	drawText(canvas, r.label, x, baseline, col, label)
	drawText(canvas, r.value, x+textWidth(r.label, label)+10, baseline, col, value)
}

func (r *Renderer) drawCentered(canvas *image.NRGBA, face font.Face, cx, baseline int, col color.Color, text string) {
	drawText(canvas, face, cx-textWidth(face, text)/2, baseline, col, text)
}

func (r *Renderer) drawRight(canvas *image.NRGBA, face font.Face, rightX, baseline int, col color.Color, text string) {
	drawText(canvas, face, rightX-textWidth(face, text), baseline, col, text)
}

func drawText(dst draw.Image, face font.Face, x, baseline int, col color.Color, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

func textWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

func fillRect(dst draw.Image, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func strokeRect(dst draw.Image, r image.Rectangle, thickness int, col color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), col)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), col)
}

func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if textWidth(face, candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
