package qr

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/skip2/go-qrcode"
)

// MarkURL is the check-in link a student's QR code encodes.
func MarkURL(host string, port int, roll string) string {
	u := url.URL{
		Scheme:   "http",
		Host:     host + ":" + strconv.Itoa(port),
		Path:     "/mark",
		RawQuery: url.Values{"roll": {roll}}.Encode(),
	}
	return u.String()
}

// Generator writes one PNG per roll number.
type Generator struct {
	Host string
	Port int
	Dir  string
	Size int
}

// Filename is the PNG path for roll inside g.Dir.
func (g Generator) Filename(roll string) string {
	return filepath.Join(g.Dir, fmt.Sprintf("roll_%s.png", roll))
}

// Write encodes the check-in URL of roll and saves it as a PNG.
func (g Generator) Write(roll string) (string, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	path := g.Filename(roll)
	if err := qrcode.WriteFile(MarkURL(g.Host, g.Port, roll), qrcode.Medium, size, path); err != nil {
		return "", fmt.Errorf("write qr for roll %s: %w", roll, err)
	}
	return path, nil
}

// Range writes codes for the numeric rolls from..to inclusive.
func (g Generator) Range(from, to int) (int, error) {
	if from > to {
		return 0, fmt.Errorf("empty roll range %d..%d", from, to)
	}
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", g.Dir, err)
	}
	n := 0
	for roll := from; roll <= to; roll++ {
		if _, err := g.Write(strconv.Itoa(roll)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
