// Package currency is the in-process currency catalog. The rest of the
// service treats currency codes as opaque references; this package only
// answers display lookups.
package currency

import "strings"

// Currency describes one catalog entry.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// catalog covers the currencies groupbuys are run in. Codes are ISO
// 4217; all entries use two decimal places.
var catalog = map[string]Currency{
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "Pound Sterling"},
	"PLN": {Code: "PLN", Symbol: "zł", Name: "Polish Złoty"},
	"CZK": {Code: "CZK", Symbol: "Kč", Name: "Czech Koruna"},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	"SEK": {Code: "SEK", Symbol: "kr", Name: "Swedish Krona"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
}

// Lookup returns the catalog entry for code, case-insensitively.
func Lookup(code string) (Currency, bool) {
	c, ok := catalog[strings.ToUpper(code)]
	return c, ok
}

// Valid reports whether code names a known currency.
func Valid(code string) bool {
	_, ok := Lookup(code)
	return ok
}
