package customers

import (
	"regexp"
	"strconv"
	"strings"
)

// EntitlementKind names the tag family an entitlement was derived from.
type EntitlementKind string

const (
	EntitlementB2B EntitlementKind = "b2b"
	EntitlementIMA EntitlementKind = "ima"
)

// Entitlement is the discount a customer qualifies for.
type Entitlement struct {
	Percent int             `json:"percent"`
	Tag     string          `json:"tag"`
	Kind    EntitlementKind `json:"kind"`
}

var (
	b2bTagRe      = regexp.MustCompile(`^b2b(\d+)$`)
	trailingRunRe = regexp.MustCompile(`(\d+)$`)
)

// NormalizeTags splits a comma separated tag string into trimmed, lowercased, non-empty tags.
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResolveEntitlement derives the discount from the customer's tags. A b2b<digits> tag
// wins over any ima tag; the first match of a family decides and a suffix that does not
// parse to a percentage in [0,100] yields no entitlement.
func ResolveEntitlement(rawTags string) (Entitlement, bool) {
	tags := NormalizeTags(rawTags)

	for _, tag := range tags {
		if m := b2bTagRe.FindStringSubmatch(tag); m != nil {
			return entitlementFrom(tag, m[1], EntitlementB2B)
		}
	}

	for _, tag := range tags {
		if !strings.HasPrefix(tag, "ima") {
			continue
		}
		if m := trailingRunRe.FindStringSubmatch(tag); m != nil {
			return entitlementFrom(tag, m[1], EntitlementIMA)
		}
	}

	return Entitlement{}, false
}

// HasTagPrefix reports whether any normalized tag starts with prefix.
func HasTagPrefix(rawTags, prefix string) bool {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return false
	}
	for _, tag := range NormalizeTags(rawTags) {
		if strings.HasPrefix(tag, prefix) {
			return true
		}
	}
	return false
}

func entitlementFrom(tag, digits string, kind EntitlementKind) (Entitlement, bool) {
	percent, err := strconv.Atoi(digits)
	if err != nil || percent < 0 || percent > 100 {
		return Entitlement{}, false
	}
	return Entitlement{Percent: percent, Tag: tag, Kind: kind}, true
}
