package git

import (
	"fmt"
	"strings"
)

// ParseRangeSpec splits a "start..end" spec into its two revisions.
// An empty end defaults to HEAD. The three-dot form is rejected because a
// merge-base range is not a first-parent chain.
func ParseRangeSpec(spec string) (start, end string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", fmt.Errorf("empty range spec")
	}

	if strings.Contains(spec, "...") {
		return "", "", fmt.Errorf("invalid range spec %q: three-dot ranges are not linear, use 'start..end'", spec)
	}

	idx := strings.Index(spec, "..")
	if idx == -1 {
		return "", "", fmt.Errorf("invalid range spec %q: expected 'start..end'", spec)
	}
	start = spec[:idx]
	end = spec[idx+2:]

	if start == "" {
		return "", "", fmt.Errorf("invalid range spec %q: missing start ref", spec)
	}
	if end == "" {
		end = "HEAD"
	}

	return start, end, nil
}
