package seed

import vatdomain "github.com/smallbiznis/clearbill/internal/vat/domain"

type currencyRow struct {
	code      string
	name      string
	symbol    string
	minorUnit int16
}

var currencies = []currencyRow{
	{"EUR", "Euro", "€", 2},
	{"BGN", "Bulgarian Lev", "лв", 2},
	{"CZK", "Czech Koruna", "Kč", 2},
	{"DKK", "Danish Krone", "kr", 2},
	{"HUF", "Hungarian Forint", "Ft", 2},
	{"PLN", "Polish Zloty", "zł", 2},
	{"RON", "Romanian Leu", "lei", 2},
	{"SEK", "Swedish Krona", "kr", 2},
	{"ISK", "Icelandic Krona", "kr", 0},
	{"NOK", "Norwegian Krone", "kr", 2},
	{"CHF", "Swiss Franc", "CHF", 2},
	{"GBP", "Pound Sterling", "£", 2},
	{"USD", "US Dollar", "$", 2},
	{"CAD", "Canadian Dollar", "$", 2},
	{"JPY", "Japanese Yen", "¥", 0},
	{"AUD", "Australian Dollar", "$", 2},
	{"CNY", "Chinese Yuan", "¥", 2},
}

type countryRow struct {
	code         string
	name         string
	eu           bool
	eea          bool
	standardRate string // empty for jurisdictions without a seeded VAT rate
	currency     string
}

// EU member states are also EEA members; the standard rates here
// mirror the latest STANDARD rows in the rate table below.
var countries = []countryRow{
	{"AT", "Austria", true, true, "20", "EUR"},
	{"BE", "Belgium", true, true, "21", "EUR"},
	{"BG", "Bulgaria", true, true, "20", "BGN"},
	{"CY", "Cyprus", true, true, "19", "EUR"},
	{"CZ", "Czechia", true, true, "21", "CZK"},
	{"DE", "Germany", true, true, "19", "EUR"},
	{"DK", "Denmark", true, true, "25", "DKK"},
	{"EE", "Estonia", true, true, "24", "EUR"},
	{"ES", "Spain", true, true, "21", "EUR"},
	{"FI", "Finland", true, true, "25.5", "EUR"},
	{"FR", "France", true, true, "20", "EUR"},
	{"GR", "Greece", true, true, "24", "EUR"},
	{"HR", "Croatia", true, true, "25", "EUR"},
	{"HU", "Hungary", true, true, "27", "HUF"},
	{"IE", "Ireland", true, true, "23", "EUR"},
	{"IT", "Italy", true, true, "22", "EUR"},
	{"LT", "Lithuania", true, true, "21", "EUR"},
	{"LU", "Luxembourg", true, true, "17", "EUR"},
	{"LV", "Latvia", true, true, "21", "EUR"},
	{"MT", "Malta", true, true, "18", "EUR"},
	{"NL", "Netherlands", true, true, "21", "EUR"},
	{"PL", "Poland", true, true, "23", "PLN"},
	{"PT", "Portugal", true, true, "23", "EUR"},
	{"RO", "Romania", true, true, "19", "RON"},
	{"SE", "Sweden", true, true, "25", "SEK"},
	{"SI", "Slovenia", true, true, "22", "EUR"},
	{"SK", "Slovakia", true, true, "23", "EUR"},

	// EEA members outside the EU.
	{"IS", "Iceland", false, true, "24", "ISK"},
	{"LI", "Liechtenstein", false, true, "8.1", "CHF"},
	{"NO", "Norway", false, true, "25", "NOK"},

	// Frequent trading partners outside the EU/EEA.
	{"GB", "United Kingdom", false, false, "20", "GBP"},
	{"CH", "Switzerland", false, false, "8.1", "CHF"},
	{"US", "United States", false, false, "", "USD"},
	{"CA", "Canada", false, false, "", "CAD"},
	{"JP", "Japan", false, false, "", "JPY"},
	{"AU", "Australia", false, false, "", "AUD"},
	{"CN", "China", false, false, "", "CNY"},
}

type categoryRow struct {
	code     string
	name     string
	annexIII *int16
}

var categories = []categoryRow{
	{vatdomain.CategoryStandard, "Standard-rated goods and services", nil},
	{vatdomain.CategoryFoodEssential, "Foodstuffs for human consumption", annex(1)},
	{vatdomain.CategoryPharma, "Pharmaceutical products", annex(3)},
	{vatdomain.CategoryTransport, "Transport of passengers", annex(5)},
	{vatdomain.CategoryBooks, "Books, newspapers and periodicals", annex(6)},
	{vatdomain.CategoryHotel, "Hotel and holiday accommodation", annex(12)},
}

func annex(n int16) *int16 { return &n }

type rateRow struct {
	country  string
	category string
	rateType vatdomain.RateType
	rate     string
	from     string
}

// The rate table is append-only: a change is a new row with a later
// effective_from. Countries that changed their standard rate recently
// keep their old rows so historical invoices recalculate correctly.
var rates = []rateRow{
	// Standard rates.
	{"AT", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "20", "2000-01-01"},
	{"BE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "21", "2000-01-01"},
	{"BG", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "20", "2000-01-01"},
	{"CY", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "19", "2014-01-13"},
	{"CZ", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "21", "2013-01-01"},
	{"DE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "19", "2007-01-01"},
	{"DK", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "25", "2000-01-01"},
	{"EE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "20", "2009-07-01"},
	{"EE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "22", "2024-01-01"},
	{"EE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "24", "2025-07-01"},
	{"ES", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "21", "2012-09-01"},
	{"FI", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "24", "2013-01-01"},
	{"FI", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "25.5", "2024-09-01"},
	{"FR", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "20", "2014-01-01"},
	{"GR", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "24", "2016-06-01"},
	{"HR", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "25", "2012-03-01"},
	{"HU", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "27", "2012-01-01"},
	{"IE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "23", "2012-01-01"},
	{"IT", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "22", "2013-10-01"},
	{"LT", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "21", "2009-09-01"},
	{"LU", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "17", "2015-01-01"},
	{"LU", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "16", "2023-01-01"},
	{"LU", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "17", "2024-01-01"},
	{"LV", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "21", "2012-07-01"},
	{"MT", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "18", "2004-01-01"},
	{"NL", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "21", "2012-10-01"},
	{"PL", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "23", "2011-01-01"},
	{"PT", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "23", "2011-01-01"},
	{"RO", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "19", "2017-01-01"},
	{"SE", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "25", "2000-01-01"},
	{"SI", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "22", "2013-07-01"},
	{"SK", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "20", "2011-01-01"},
	{"SK", vatdomain.CategoryStandard, vatdomain.RateTypeStandard, "23", "2025-01-01"},

	// Reduced rates: books and periodicals.
	{"AT", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "10", "2000-01-01"},
	{"BE", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "6", "2000-01-01"},
	{"BG", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "9", "2020-07-01"},
	{"DE", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "7", "2000-01-01"},
	{"ES", vatdomain.CategoryBooks, vatdomain.RateTypeSuperReduced, "4", "2000-01-01"},
	{"FR", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "5.5", "2013-01-01"},
	{"IE", vatdomain.CategoryBooks, vatdomain.RateTypeZero, "0", "2000-01-01"},
	{"IT", vatdomain.CategoryBooks, vatdomain.RateTypeSuperReduced, "4", "2000-01-01"},
	{"NL", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "9", "2019-01-01"},
	{"PL", vatdomain.CategoryBooks, vatdomain.RateTypeReduced, "5", "2019-11-01"},

	// Reduced rates: foodstuffs.
	{"BG", vatdomain.CategoryFoodEssential, vatdomain.RateTypeStandard, "20", "2000-01-01"},
	{"DE", vatdomain.CategoryFoodEssential, vatdomain.RateTypeReduced, "7", "2000-01-01"},
	{"ES", vatdomain.CategoryFoodEssential, vatdomain.RateTypeSuperReduced, "4", "2000-01-01"},
	{"FR", vatdomain.CategoryFoodEssential, vatdomain.RateTypeReduced, "5.5", "2013-01-01"},
	{"IE", vatdomain.CategoryFoodEssential, vatdomain.RateTypeZero, "0", "2000-01-01"},
	{"IT", vatdomain.CategoryFoodEssential, vatdomain.RateTypeSuperReduced, "4", "2000-01-01"},
	{"NL", vatdomain.CategoryFoodEssential, vatdomain.RateTypeReduced, "9", "2019-01-01"},
	{"PL", vatdomain.CategoryFoodEssential, vatdomain.RateTypeReduced, "5", "2019-11-01"},

	// Reduced rates: pharmaceuticals.
	{"DE", vatdomain.CategoryPharma, vatdomain.RateTypeStandard, "19", "2007-01-01"},
	{"ES", vatdomain.CategoryPharma, vatdomain.RateTypeSuperReduced, "4", "2000-01-01"},
	{"FR", vatdomain.CategoryPharma, vatdomain.RateTypeSuperReduced, "2.1", "2000-01-01"},
	{"NL", vatdomain.CategoryPharma, vatdomain.RateTypeReduced, "9", "2019-01-01"},

	// Reduced rates: passenger transport.
	{"DE", vatdomain.CategoryTransport, vatdomain.RateTypeReduced, "7", "2020-01-01"},
	{"FR", vatdomain.CategoryTransport, vatdomain.RateTypeReduced, "10", "2014-01-01"},

	// Reduced rates: hotel accommodation.
	{"AT", vatdomain.CategoryHotel, vatdomain.RateTypeReduced, "10", "2018-11-01"},
	{"BE", vatdomain.CategoryHotel, vatdomain.RateTypeReduced, "6", "2000-01-01"},
	{"DE", vatdomain.CategoryHotel, vatdomain.RateTypeReduced, "7", "2010-01-01"},
	{"ES", vatdomain.CategoryHotel, vatdomain.RateTypeReduced, "10", "2012-09-01"},
	{"FR", vatdomain.CategoryHotel, vatdomain.RateTypeReduced, "10", "2014-01-01"},
	{"NL", vatdomain.CategoryHotel, vatdomain.RateTypeReduced, "9", "2019-01-01"},
}
