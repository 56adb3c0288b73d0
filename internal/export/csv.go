// Package export renders a raffle's ticket list for organizers: CSV for
// spreadsheets, an A4 PDF for printing, and QR codes pointing at the public
// raffle page.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iliyamo/raffle-manager/internal/model"
)

var csvHeader = []string{"numero", "nome", "telefone", "pago", "reservado", "obs"}

// WriteCSV writes the header and one row per ticket, in the given order.
// Booleans are written as SIM/NAO; fields holding a comma, a quote or a
// line break are quoted with embedded quotes doubled.
func WriteCSV(w io.Writer, tickets []model.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tickets {
		row := []string{
			strconv.FormatUint(uint64(t.NumberInt), 10),
			deref(t.BuyerName),
			deref(t.BuyerPhone),
			yesNo(t.Paid),
			yesNo(t.Reserved),
			deref(t.Note),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NAO"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PadNumber left-pads n with zeros to width digits. Wider numbers are
// returned unchanged.
func PadNumber(n uint32, width int) string {
	s := strconv.FormatUint(uint64(n), 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// NumberWidth is the padding width used for a raffle whose highest ticket
// is maxNumber: its digit count, at least 2.
func NumberWidth(maxNumber uint32) int {
	return max(2, len(strconv.FormatUint(uint64(maxNumber), 10)))
}
