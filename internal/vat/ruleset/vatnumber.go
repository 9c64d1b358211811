package ruleset

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^0-9A-Za-z]`)

// vatNumberPatterns covers the national part of an EU VAT number, per
// member state, after the two-letter prefix is stripped. Greece uses
// the EL prefix instead of its ISO code GR.
var vatNumberPatterns = map[string]*regexp.Regexp{
	"AT": regexp.MustCompile(`^U\d{8}$`),
	"BE": regexp.MustCompile(`^[01]\d{9}$`),
	"BG": regexp.MustCompile(`^\d{9,10}$`),
	"CY": regexp.MustCompile(`^\d{8}[A-Z]$`),
	"CZ": regexp.MustCompile(`^\d{8,10}$`),
	"DE": regexp.MustCompile(`^\d{9}$`),
	"DK": regexp.MustCompile(`^\d{8}$`),
	"EE": regexp.MustCompile(`^\d{9}$`),
	"ES": regexp.MustCompile(`^[0-9A-Z]\d{7}[0-9A-Z]$`),
	"FI": regexp.MustCompile(`^\d{8}$`),
	"FR": regexp.MustCompile(`^[0-9A-Z]{2}\d{9}$`),
	"GR": regexp.MustCompile(`^\d{9}$`),
	"HR": regexp.MustCompile(`^\d{11}$`),
	"HU": regexp.MustCompile(`^\d{8}$`),
	"IE": regexp.MustCompile(`^\d{7}[A-W][A-IW]?$`),
	"IT": regexp.MustCompile(`^\d{11}$`),
	"LT": regexp.MustCompile(`^(\d{9}|\d{12})$`),
	"LU": regexp.MustCompile(`^\d{8}$`),
	"LV": regexp.MustCompile(`^\d{11}$`),
	"MT": regexp.MustCompile(`^\d{8}$`),
	"NL": regexp.MustCompile(`^\d{9}B\d{2}$`),
	"PL": regexp.MustCompile(`^\d{10}$`),
	"PT": regexp.MustCompile(`^\d{9}$`),
	"RO": regexp.MustCompile(`^\d{2,10}$`),
	"SE": regexp.MustCompile(`^\d{12}$`),
	"SI": regexp.MustCompile(`^\d{8}$`),
	"SK": regexp.MustCompile(`^\d{10}$`),
}

// CleanVATNumber uppercases the input and strips separators so that
// "fr 12 345 678 901" and "FR12345678901" compare equal.
func CleanVATNumber(raw string) string {
	return nonAlphanumeric.ReplaceAllLiteralString(strings.ToUpper(raw), "")
}

// VATNumberFormatOK reports whether the number is syntactically
// plausible for the given customer country. It is a format check only;
// registry validation (VIES) happens outside this engine and is
// reported through the profile's validated flag.
//
// A country prefix on the number must match the customer country. The
// Greek EL prefix is accepted for GR. Countries without a known
// pattern pass the check; a format gate must not reject numbers we
// cannot recognize.
func VATNumberFormatOK(country, raw string) bool {
	cleaned := CleanVATNumber(raw)
	country = strings.ToUpper(strings.TrimSpace(country))
	if len(cleaned) < 4 {
		return false
	}

	prefix := cleaned[:2]
	if prefix[0] >= 'A' && prefix[0] <= 'Z' && prefix[1] >= 'A' && prefix[1] <= 'Z' {
		if prefix != country && !(prefix == "EL" && country == "GR") {
			return false
		}
		cleaned = cleaned[2:]
	}

	pattern, ok := vatNumberPatterns[country]
	if !ok {
		return true
	}
	return pattern.MatchString(cleaned)
}
