package export

import (
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// RaffleQR encodes url as a PNG QR code of size x size pixels.
func RaffleQR(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}

// PublicRaffleURL joins the public base URL and the raffle's public page.
func PublicRaffleURL(baseURL string, raffleID uint64) string {
	return strings.TrimRight(baseURL, "/") + "/v1/public/raffles/" + strconv.FormatUint(raffleID, 10)
}
