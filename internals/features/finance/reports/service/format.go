package service

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idr = message.NewPrinter(language.Indonesian)

// FormatIDR: "Rp 1.500.000"; sen hanya ditampilkan kalau tidak nol ("Rp 1.500,50").
func FormatIDR(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	d = d.Round(2)
	if d.Equal(d.Truncate(0)) {
		return sign + "Rp " + idr.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Float64()
	return sign + "Rp " + idr.Sprintf("%.2f", f)
}
