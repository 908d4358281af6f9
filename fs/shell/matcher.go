package shell

import (
	"fmt"
	"regexp"
)

type matcher struct {
	re *regexp.Regexp
}

// Match reports whether the full string form of path matches.
func (m matcher) Match(path fmt.Stringer) bool {
	return m.re.MatchString(path.String())
}
