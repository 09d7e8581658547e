package versions

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ParseMinimum parses a minimum version requirement. An empty string means no requirement
// and returns nil.
func ParseMinimum(raw string) (*semver.Version, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum version %q: %w", raw, err)
	}
	return v, nil
}

// Satisfies reports whether actual is at least minimum. A nil minimum is always satisfied;
// an actual version that is not valid semver never satisfies a requirement.
func Satisfies(actual string, minimum *semver.Version) bool {
	if minimum == nil {
		return true
	}
	v, err := semver.NewVersion(actual)
	if err != nil {
		return false
	}
	return !v.LessThan(minimum)
}
