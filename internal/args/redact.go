package args

import "strings"

// RedactedValue replaces the value part of a sensitive argument.
const RedactedValue = "[REDACTED]"

// DefaultRedactedKeywords are matched against argument names when none are
// configured.
var DefaultRedactedKeywords = []string{"password", "token", "secret", "apikey", "privatekey", "authorization", "bearer"}

// KeywordSet lower-cases keywords into a lookup set, dropping empty ones.
func KeywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// Redact returns a copy of argv with sensitive values replaced. Matching is
// case-insensitive against keywords:
//   - a key=value argument whose key contains a keyword keeps its key, so
//     "-Dapi.token=abc" becomes "-Dapi.token=[REDACTED]";
//   - a bare flag whose name contains a keyword, such as "--password", hides
//     the argument after it unless that argument is itself a flag.
//
// argv is not modified.
func Redact(argv []string, keywords map[string]struct{}) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	if len(keywords) == 0 {
		return out
	}
	for i := 0; i < len(out); i++ {
		arg := out[i]
		eq := strings.IndexByte(arg, '=')
		switch {
		case eq > 0:
			if eq < len(arg)-1 && sensitive(arg[:eq], keywords) {
				out[i] = arg[:eq+1] + RedactedValue
			}
		case eq < 0 && isFlag(arg) && sensitive(arg, keywords):
			if i+1 < len(out) && !isFlag(out[i+1]) {
				out[i+1] = RedactedValue
				i++
			}
		}
	}
	return out
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

func sensitive(name string, keywords map[string]struct{}) bool {
	name = strings.ToLower(name)
	for keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}
