package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Strategy names carried on DateCandidate.SourceStrategy.
const (
	StrategyNatural           = "natural-language"
	StrategyISO               = "pattern:iso"
	StrategyYearQualified     = "pattern:year-qualified"
	StrategyYearQualifiedDate = "pattern:year-qualified-date"
	StrategyMonthDay          = "pattern:month-day"
	StrategySlashNumeric      = "pattern:slash-numeric"
	StrategyEra               = "pattern:era"
	StrategyLatinMonth        = "pattern:latin-month"
)

// dateMatch is the raw outcome of one pattern occurrence, before the
// validity gate.
type dateMatch struct {
	year, month, day int
	hour, minute     int
	hasTime          bool
	// yearDefaulted marks candidates whose year was taken from the
	// reference instant rather than the text.
	yearDefaulted bool
}

// pattern is one entry in the fallback chain. Patterns are tried strictly
// in chain order: the first pattern with a surviving occurrence wins, and
// only its first surviving occurrence is used.
type pattern struct {
	name string
	re   *regexp.Regexp
	// extract converts a submatch index slice into a dateMatch, or
	// rejects the occurrence (guards that RE2 cannot express).
	extract func(text string, m []int) (dateMatch, bool)
}

var (
	isoRe = regexp.MustCompile(
		`(\d{4})-(\d{1,2})-(\d{1,2})(?:[T ](\d{1,2}):(\d{2}))?`)
	yearQualifiedRe = regexp.MustCompile(
		`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日\s*(?:\(([月火水木金土日])\))?\s*(?:(\d{1,2}):(\d{2}))?`)
	yearQualifiedDateRe = regexp.MustCompile(
		`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日`)
	trailingTimeRe = regexp.MustCompile(
		`^\s*(?:\([月火水木金土日]\))?\s*\d{1,2}[:時]`)
	monthDayRe = regexp.MustCompile(
		`(\d{1,2})月\s*(\d{1,2})日\s*(?:(\d{1,2}):(\d{2})|(\d{1,2})時(?:\s*(\d{1,2})分)?)?`)
	slashNumericRe = regexp.MustCompile(
		`(?:(\d{4})[/.])?(\d{1,2})[/.](\d{1,2})(?:\s*(\d{1,2}):(\d{2}))?`)
	eraRe = regexp.MustCompile(
		`(令和|平成|昭和|大正|明治)(元|\d{1,2})年\s*(\d{1,2})月\s*(\d{1,2})日\s*(?:(\d{1,2}):(\d{2}))?`)
	latinMonthRe = regexp.MustCompile(
		`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?(?:\s+(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?)?`)
)

var latinMonths = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// patternChain is the full fallback chain in priority order.
var patternChain = []pattern{
	{name: StrategyISO, re: isoRe, extract: extractISO},
	{name: StrategyYearQualified, re: yearQualifiedRe, extract: extractYearQualified},
	{name: StrategyYearQualifiedDate, re: yearQualifiedDateRe, extract: extractYearQualifiedDate},
	{name: StrategyMonthDay, re: monthDayRe, extract: extractMonthDay},
	{name: StrategySlashNumeric, re: slashNumericRe, extract: extractSlashNumeric},
	{name: StrategyEra, re: eraRe, extract: extractEra},
	{name: StrategyLatinMonth, re: latinMonthRe, extract: extractLatinMonth},
}

// group returns submatch i of m over text, or "" when it did not participate.
func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// precededByDateTail reports whether the occurrence starting at m[0] is
// the tail of a fuller date form, i.e. immediately preceded by 年 or a
// digit ("令和7年8月27日" must not surface as a bare month/day match).
func precededByDateTail(text string, m []int) bool {
	r, size := utf8.DecodeLastRuneInString(text[:m[0]])
	if size == 0 {
		return false
	}
	return r == '年' || unicode.IsDigit(r)
}

func extractISO(text string, m []int) (dateMatch, bool) {
	match := dateMatch{
		year:  atoi(group(text, m, 1)),
		month: atoi(group(text, m, 2)),
		day:   atoi(group(text, m, 3)),
	}
	if hour := group(text, m, 4); hour != "" {
		match.hour = atoi(hour)
		match.minute = atoi(group(text, m, 5))
		match.hasTime = true
	}
	return match, true
}

// extractYearQualified requires a weekday annotation or a clock time; bare
// year-qualified dates belong to the next pattern in the chain.
func extractYearQualified(text string, m []int) (dateMatch, bool) {
	weekday := group(text, m, 4)
	hour := group(text, m, 5)
	if weekday == "" && hour == "" {
		return dateMatch{}, false
	}
	match := dateMatch{
		year:  atoi(group(text, m, 1)),
		month: atoi(group(text, m, 2)),
		day:   atoi(group(text, m, 3)),
	}
	if hour != "" {
		match.hour = atoi(hour)
		match.minute = atoi(group(text, m, 6))
		match.hasTime = true
	}
	return match, true
}

// extractYearQualifiedDate accepts a year-qualified date only when no
// clock time follows it (RE2 has no negative lookahead, so the guard runs
// on the text after the occurrence).
func extractYearQualifiedDate(text string, m []int) (dateMatch, bool) {
	if trailingTimeRe.MatchString(text[m[1]:]) {
		return dateMatch{}, false
	}
	return dateMatch{
		year:  atoi(group(text, m, 1)),
		month: atoi(group(text, m, 2)),
		day:   atoi(group(text, m, 3)),
	}, true
}

func extractMonthDay(text string, m []int) (dateMatch, bool) {
	if precededByDateTail(text, m) {
		return dateMatch{}, false
	}
	match := dateMatch{
		month:         atoi(group(text, m, 1)),
		day:           atoi(group(text, m, 2)),
		yearDefaulted: true,
	}
	switch {
	case group(text, m, 3) != "": // HH:MM
		match.hour = atoi(group(text, m, 3))
		match.minute = atoi(group(text, m, 4))
		match.hasTime = true
	case group(text, m, 5) != "": // H時[M分]
		match.hour = atoi(group(text, m, 5))
		match.minute = atoi(group(text, m, 6))
		match.hasTime = true
	}
	return match, true
}

func extractSlashNumeric(text string, m []int) (dateMatch, bool) {
	if precededByDateTail(text, m) {
		return dateMatch{}, false
	}
	match := dateMatch{
		month: atoi(group(text, m, 2)),
		day:   atoi(group(text, m, 3)),
	}
	if year := group(text, m, 1); year != "" {
		match.year = atoi(year)
	} else {
		match.yearDefaulted = true
	}
	if hour := group(text, m, 4); hour != "" {
		match.hour = atoi(hour)
		match.minute = atoi(group(text, m, 5))
		match.hasTime = true
	}
	return match, true
}

func extractEra(text string, m []int) (dateMatch, bool) {
	year, ok := eraYear(group(text, m, 1), group(text, m, 2))
	if !ok {
		return dateMatch{}, false
	}
	match := dateMatch{
		year:  year,
		month: atoi(group(text, m, 3)),
		day:   atoi(group(text, m, 4)),
	}
	if hour := group(text, m, 5); hour != "" {
		match.hour = atoi(hour)
		match.minute = atoi(group(text, m, 6))
		match.hasTime = true
	}
	return match, true
}

func extractLatinMonth(text string, m []int) (dateMatch, bool) {
	monthToken := strings.ToLower(group(text, m, 1))
	if len(monthToken) < 3 {
		return dateMatch{}, false
	}
	month, ok := latinMonths[monthToken[:3]]
	if !ok {
		return dateMatch{}, false
	}
	match := dateMatch{
		month: month,
		day:   atoi(group(text, m, 2)),
	}
	if year := group(text, m, 3); year != "" {
		match.year = atoi(year)
	} else {
		match.yearDefaulted = true
	}
	if hour := group(text, m, 4); hour != "" {
		h := atoi(hour)
		if h < 1 || h > 12 {
			return dateMatch{}, false
		}
		meridiem := strings.ToLower(group(text, m, 6))
		if meridiem == "p" && h < 12 {
			h += 12
		}
		if meridiem == "a" && h == 12 {
			h = 0
		}
		match.hour = h
		match.minute = atoi(group(text, m, 5))
		match.hasTime = true
	}
	return match, true
}
