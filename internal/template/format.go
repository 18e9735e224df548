package template

import (
	"fmt"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

// Format runs a single substitution pass over tmpl.
//
// A placeholder is "{name}"; "${name}" is accepted as well and the "$" is
// consumed. A "{" must be closed by "}" before the next "{" or the end of
// the input, and the name must not be blank. A "}" outside a placeholder is
// literal text. The output may not exceed maxLen bytes.
//
// Errors are *errors.TemplateError values without a Key; callers fill it in.
func Format(tmpl string, maxLen int, lookup LookupFunc) (string, error) {
	out, _, err := format(tmpl, maxLen, lookup)
	return out, err
}

// format is Format that also reports how many placeholders were replaced.
func format(tmpl string, maxLen int, lookup LookupFunc) (string, int, error) {
	var b strings.Builder
	replaced := 0
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		open := i
		switch {
		case tmpl[i] == '$' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			open = i + 1
		case tmpl[i] != '{':
			b.WriteByte(tmpl[i])
			if b.Len() > maxLen {
				return "", 0, launcherrors.NewTemplateError("", launcherrors.BufferTooSmall, tmpl, nil)
			}
			i++
			continue
		}

		rest := tmpl[open+1:]
		end := strings.IndexAny(rest, "{}")
		if end < 0 || rest[end] == '{' {
			return "", 0, launcherrors.NewTemplateError("", launcherrors.SyntaxError, tmpl,
				fmt.Errorf("unterminated placeholder at offset %d", i))
		}
		name := strings.TrimSpace(rest[:end])
		if name == "" {
			return "", 0, launcherrors.NewTemplateError("", launcherrors.SyntaxError, tmpl,
				fmt.Errorf("empty placeholder at offset %d", i))
		}

		replacement, ok := lookup(name)
		if !ok {
			tErr := launcherrors.NewTemplateError("", launcherrors.MissingReplacement, tmpl, nil)
			tErr.Placeholder = name
			return "", 0, tErr
		}
		if b.Len()+len(replacement) > maxLen {
			return "", 0, launcherrors.NewTemplateError("", launcherrors.BufferTooSmall, tmpl, nil)
		}
		b.WriteString(replacement)
		replaced++
		i = open + 1 + end + 1
	}
	return b.String(), replaced, nil
}
