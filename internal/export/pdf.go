package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/money"
)

const (
	fontName    = "body"
	pageMargin  = 36.0
	pageBottom  = 800.0
	rowHeight   = 14.0
	qrEdge      = 90.0
	maxCellRune = 38
)

// column x offsets: number, name, phone, paid, note
var pdfColumns = [...]float64{36, 76, 300, 420, 460}

// PDFOptions configures RafflePDF.
type PDFOptions struct {
	FontPath  string // TTF file; required
	PublicURL string // when set, a QR code linking to it is drawn
}

// RafflePDF renders the raffle header and its ticket list on A4 pages.
// Ticket numbers are zero-padded to the width of the highest number.
func RafflePDF(rf model.RaffleWithStats, tickets []model.Ticket, opts PDFOptions) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(fontName, opts.FontPath); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	pdf.AddPage()

	if err := writeHeader(pdf, rf, opts.PublicURL); err != nil {
		return nil, err
	}

	width := NumberWidth(rf.MaxNumber)
	if err := writeTableHeader(pdf); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if pdf.GetY() > pageBottom {
			pdf.AddPage()
			if err := writeTableHeader(pdf); err != nil {
				return nil, err
			}
		}
		paid := "NÃO"
		if t.Paid {
			paid = "SIM"
		}
		row := [...]string{
			PadNumber(t.NumberInt, width),
			orDash(t.BuyerName),
			orDash(t.BuyerPhone),
			paid,
			orDash(t.Note),
		}
		if err := writeRow(pdf, row[:]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gopdf.GoPdf, rf model.RaffleWithStats, publicURL string) error {
	if err := pdf.SetFont(fontName, "", 18); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetXY(pageMargin, pageMargin)
	if err := pdf.Cell(nil, "Rifa: "+rf.Title); err != nil {
		return err
	}
	pdf.Br(26)

	if err := pdf.SetFont(fontName, "", 10); err != nil {
		return err
	}
	lines := []string{}
	if rf.OrganizerName != nil {
		lines = append(lines, "Organizador: "+*rf.OrganizerName)
	}
	if rf.ResponsibleName != nil {
		lines = append(lines, "Responsável: "+*rf.ResponsibleName)
	}
	lines = append(lines, "Valor: R$ "+money.StringFromCents(rf.TicketPriceCents))
	if rf.DrawDate != nil {
		lines = append(lines, "Data do sorteio: "+rf.DrawDate.Format("2006-01-02"))
	}
	top := pdf.GetY()
	for _, l := range lines {
		pdf.SetX(pageMargin)
		if err := pdf.Cell(nil, l); err != nil {
			return err
		}
		pdf.Br(rowHeight)
	}

	if publicURL != "" {
		if err := drawQR(pdf, publicURL, top-20); err != nil {
			return err
		}
		pdf.SetY(max(pdf.GetY(), top-20+qrEdge))
	}
	pdf.Br(rowHeight)

	if err := pdf.SetFont(fontName, "", 12); err != nil {
		return err
	}
	pdf.SetX(pageMargin)
	if err := pdf.Cell(nil, "Lista de números"); err != nil {
		return err
	}
	pdf.Br(20)
	return nil
}

func drawQR(pdf *gopdf.GoPdf, url string, y float64) error {
	bs, err := RaffleQR(url, DefaultQRSize)
	if err != nil {
		return err
	}
	img, err := png.Decode(bytes.NewReader(bs))
	if err != nil {
		return err
	}
	x := gopdf.PageSizeA4.W - pageMargin - qrEdge
	return pdf.ImageFrom(img, x, y, &gopdf.Rect{W: qrEdge, H: qrEdge})
}

func writeTableHeader(pdf *gopdf.GoPdf) error {
	if err := pdf.SetFont(fontName, "", 9); err != nil {
		return err
	}
	if err := writeRow(pdf, []string{"Nº", "Nome", "Telefone", "Pago", "Obs"}); err != nil {
		return err
	}
	y := pdf.GetY() - 2
	pdf.SetLineWidth(0.5)
	pdf.Line(pageMargin, y, gopdf.PageSizeA4.W-pageMargin, y)
	pdf.Br(4)
	return nil
}

func writeRow(pdf *gopdf.GoPdf, cells []string) error {
	y := pdf.GetY()
	for i, text := range cells {
		pdf.SetXY(pdfColumns[i], y)
		if err := pdf.Cell(nil, truncate(text, maxCellRune)); err != nil {
			return err
		}
	}
	pdf.SetXY(pageMargin, y)
	pdf.Br(rowHeight)
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
