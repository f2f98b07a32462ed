package foreign

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

var (
	// ErrInvalidVersion is returned for version strings that are not semantic versions.
	ErrInvalidVersion = zerr.New("invalid semantic version")

	// ErrEmptyTable is returned when a package has no override rules at all.
	ErrEmptyTable = zerr.New("override table has no versions")
)

// Match is the outcome of selecting an override rule for a version.
type Match struct {
	// MinVersion is the key of the selected rule.
	MinVersion string
	Rule       Rule
	// Fallback is set when no minimum version was below or equal to the
	// target and the rule of the smallest minimum version was used instead.
	Fallback bool
}

// Select picks the rule with the greatest minimum version that is less than
// or equal to version. When every minimum version is greater than version,
// the rule with the smallest minimum version is returned with Fallback set,
// so a non-empty table always yields a rule.
func Select(version string, rules map[string]Rule) (Match, error) {
	if len(rules) == 0 {
		return Match{}, ErrEmptyTable
	}

	target, err := canonical(version)
	if err != nil {
		return Match{}, err
	}

	type candidate struct {
		key     string
		version string
	}
	candidates := make([]candidate, 0, len(rules))
	for key := range rules {
		v, err := canonical(key)
		if err != nil {
			return Match{}, err
		}
		candidates = append(candidates, candidate{key: key, version: v})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if c := semver.Compare(candidates[i].version, candidates[j].version); c != 0 {
			return c < 0
		}
		return candidates[i].key < candidates[j].key
	})

	for i := len(candidates) - 1; i >= 0; i-- {
		if semver.Compare(candidates[i].version, target) <= 0 {
			key := candidates[i].key
			return Match{MinVersion: key, Rule: rules[key]}, nil
		}
	}

	key := candidates[0].key
	return Match{MinVersion: key, Rule: rules[key], Fallback: true}, nil
}

// canonical converts a pub style version (1.2.3, 1.2.3-dev.1, 1.2.3+4) to the
// v-prefixed form understood by the semver package.
func canonical(version string) (string, error) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(version), "v")
	if !semver.IsValid(v) {
		return "", zerr.With(zerr.Wrap(ErrInvalidVersion, "parsing version"), "version", version)
	}
	return v, nil
}
