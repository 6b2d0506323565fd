package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRe    = regexp.MustCompile(`(?:#|-|\s)*(\d+)\s*$`)
	separatorRe = regexp.MustCompile(`[#_\-]+`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// ParsedName holds the structured data parsed from an upstream table name.
type ParsedName struct {
	Zone   string
	Number int
}

// TableName extracts the zone and table number from a raw name such as
// "Patio 12", "Terrace#3", "Bar-07" or "15". The trailing number is
// required; whatever precedes it is the zone.
func TableName(raw string) (ParsedName, error) {
	s := strings.TrimSpace(raw)
	s = spaceRe.ReplaceAllString(s, " ")

	loc := numberRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return ParsedName{}, fmt.Errorf("unable to parse table number from name: %q", raw)
	}
	n, err := strconv.Atoi(s[loc[2]:loc[3]])
	if err != nil {
		return ParsedName{}, fmt.Errorf("unable to parse table number from name: %q: %w", raw, err)
	}

	zone := separatorRe.ReplaceAllString(s[:loc[0]], " ")
	zone = strings.TrimSpace(spaceRe.ReplaceAllString(zone, " "))
	zone = strings.TrimSuffix(zone, " Table")
	if strings.EqualFold(zone, "table") || strings.EqualFold(zone, "t") {
		zone = ""
	}

	return ParsedName{Zone: zone, Number: n}, nil
}
