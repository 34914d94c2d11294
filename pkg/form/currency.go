package form

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupee = "₹"

// FormatCost renders an estimate the way the form displays it, grouping
// digits for locale. An unparseable locale falls back to English.
func FormatCost(amount int64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	if amount < 0 {
		return "-" + rupee + p.Sprintf("%d", -amount)
	}
	return rupee + p.Sprintf("%d", amount)
}
