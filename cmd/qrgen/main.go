package main

import (
	"flag"
	"log"
	"strconv"

	"messattendance/internal/config"
	"messattendance/internal/qr"
)

// qrgen writes a printable QR code per roll number pointing at /mark.
func main() {
	cfg := config.Load()
	port, err := strconv.Atoi(cfg.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP_PORT %q: %v", cfg.HTTPPort, err)
	}

	host := flag.String("host", cfg.QRHost, "server host or IP embedded in the codes")
	flag.IntVar(&port, "port", port, "server port embedded in the codes")
	from := flag.Int("from", 1, "first roll number")
	to := flag.Int("to", 640, "last roll number")
	dir := flag.String("out", "qr_codes", "output directory")
	size := flag.Int("size", 256, "image size in pixels")
	flag.Parse()

	g := qr.Generator{Host: *host, Port: port, Dir: *dir, Size: *size}
	n, err := g.Range(*from, *to)
	if err != nil {
		log.Fatalf("qr generation stopped after %d codes: %v", n, err)
	}
	log.Printf("wrote %d QR codes to %s for http://%s:%d/mark", n, *dir, *host, port)
}
