package report

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/skip2/go-qrcode"
)

// VerifyURL is the public link for reportID under origin
func VerifyURL(origin, reportID string) string {
	return strings.TrimRight(origin, "/") + "/verify/" + url.PathEscape(reportID)
}

// ShortID returns the first n characters followed by "..."
func ShortID(id string, n int) string {
	if n <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(id) <= n {
		return id + "..."
	}
	return string([]rune(id)[:n]) + "..."
}

// NodeID formats an admin document id as NODE_ and its last 8 characters
func NodeID(id string) string {
	r := []rune(id)
	if len(r) > 8 {
		r = r[len(r)-8:]
	}
	return "NODE_" + strings.ToUpper(string(r))
}

// FormatPercent renders v the way the backend sends it: no trailing zeros
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// QRText renders link as a QR code of block characters for the terminal
func QRText(link string) (string, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}

// QRPNG renders link as a PNG of size pixels
func QRPNG(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.High, size)
}
