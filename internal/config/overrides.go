package config

import (
	"fmt"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

const overrideFlag = "--config"

// ParseOverrides extracts "section.key=value" overrides from process
// arguments given as "--config=section.key=value" or "--config section.key=value".
// Other arguments are ignored.
func ParseOverrides(args []string) (map[string]string, error) {
	overrides := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var spec string
		switch {
		case strings.HasPrefix(arg, overrideFlag+"="):
			spec = strings.TrimPrefix(arg, overrideFlag+"=")
		case arg == overrideFlag:
			if i+1 >= len(args) {
				return nil, launcherrors.NewConfigError("--config requires a section.key=value argument", nil)
			}
			i++
			spec = args[i]
		default:
			continue
		}

		key, value, ok := strings.Cut(spec, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, launcherrors.NewConfigError(fmt.Sprintf("invalid config override '%s', expected section.key=value", spec), nil)
		}
		overrides[key] = value
	}
	return overrides, nil
}
