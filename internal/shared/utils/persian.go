package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var faPrinter = message.NewPrinter(language.Persian)

// PersianNumber renders n with Persian digits and grouping.
func PersianNumber(n int64) string {
	return faPrinter.Sprintf("%d", n)
}

// Persianf formats like fmt.Sprintf, localizing numeric verbs to Persian.
func Persianf(format string, args ...any) string {
	return faPrinter.Sprintf(format, args...)
}
