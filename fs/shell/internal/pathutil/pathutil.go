// Package pathutil provides segment splitting, joining, and shell quoting
// for POSIX paths.
package pathutil

import "strings"

// Separator is the POSIX name separator.
const Separator = "/"

// Split breaks s into its name segments. Runs of separators count as one
// and a trailing separator is ignored. A leading separator marks the path
// absolute. The empty string yields no segments and is relative.
func Split(s string) (absolute bool, segments []string) {
	if s == "" {
		return false, nil
	}
	absolute = strings.HasPrefix(s, Separator)
	for _, part := range strings.Split(s, Separator) {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return absolute, segments
}

// Join renders segments in canonical form. The absolute root is "/".
func Join(absolute bool, segments []string) string {
	joined := strings.Join(segments, Separator)
	if absolute {
		return Separator + joined
	}
	return joined
}

// Normalize drops "." segments and removes the segment preceding each
// "..". A ".." with nothing before it is dropped.
func Normalize(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		switch s {
		case ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	return out
}

var quoter = strings.NewReplacer(`"`, `\"`, `$`, `\$`)

// Quote wraps s in double quotes, escaping only '"' and '$'.
//
// Backticks and backslashes pass through unchanged and are still
// interpreted by the remote shell.
func Quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
