package helper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses the output of "rhinocode --version" into its major,
// minor and patch numbers. Surrounding whitespace and a leading "v" are
// ignored, missing minor/patch components count as zero, and anything after
// the patch number (a fourth component, a "-beta.1" or "+build" suffix) is
// dropped. Only the three numbers take part in comparisons.
func ParseVersion(output string) (*semver.Version, error) {
	s := strings.TrimSpace(output)
	if s == "" {
		return nil, fmt.Errorf("empty version output")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return nil, fmt.Errorf("unexpected version output %q", s)
	}

	core := strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	var nums [3]uint64
	for i, part := range strings.Split(core, ".") {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unparsable version %q: component %q is not a number", s, part)
		}
		if i < len(nums) {
			nums[i] = n
		}
	}
	return semver.New(nums[0], nums[1], nums[2], "", ""), nil
}

// CompareVersions compares two version strings numerically, component by
// component (major, minor, patch). It returns -1, 0 or +1.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// IsCompatible reports whether found >= required.
func IsCompatible(found, required string) (bool, error) {
	c, err := CompareVersions(found, required)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
