package engine

import (
	"strconv"
	"strings"
)

// ParseAmount normalizes a free-text loan amount. It accepts forms like
// "15000", "15,000", "15k" and "ZMW 15000" case-insensitively, and rejects
// anything else. The returned value is the plain kwacha amount.
func ParseAmount(input string) (int64, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "zmw")
	s = strings.TrimSpace(s)
	if v, ok := strings.CutSuffix(s, "k"); ok {
		if v == "" {
			return 0, false
		}
		s = v + "000"
	}
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatAmount renders a kwacha amount as the canonical lead string,
// e.g. 15000 -> "ZMW 15,000".
func FormatAmount(n int64) string {
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	b.WriteString("ZMW ")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
