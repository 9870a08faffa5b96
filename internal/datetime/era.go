package datetime

// Japanese era base years. Era year N maps to base+N in the Gregorian
// calendar, so 令和7 resolves to 2018+7 = 2025. The table is fixed at
// authoring time: dates written in an era that began after this table was
// last updated will not resolve. TODO: add 令和's successor when announced.
var eraBaseYears = map[string]int{
	"令和": 2018,
	"平成": 1988,
	"昭和": 1925,
	"大正": 1911,
	"明治": 1867,
}

// firstEraYearToken is the token meaning "first year of the era".
const firstEraYearToken = "元"

// eraYear converts an era name and era-year token to a Gregorian year.
// Returns false when the era is unknown.
func eraYear(era, yearToken string) (int, bool) {
	base, ok := eraBaseYears[era]
	if !ok {
		return 0, false
	}
	if yearToken == firstEraYearToken {
		return base + 1, true
	}
	n := 0
	for _, r := range yearToken {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, false
	}
	return base + n, true
}
