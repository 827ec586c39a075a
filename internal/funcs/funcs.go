package funcs

import (
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var TemplateFuncs = template.FuncMap{
	"formatNaira": formatNaira,
	"formatTime":  formatTime,
	"upper":       strings.ToUpper,
	"lower":       strings.ToLower,
}

// formatNaira renders an amount with thousands separators and kobo digits,
// e.g. ₦1,250,000.00.
func formatNaira(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	value, _ := amount.Float64()

	return p.Sprintf("₦%v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

func formatTime(t time.Time) string {
	return t.Format("02 Jan 2006 at 15:04")
}
