package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
)

// parseINI decodes the sectioned key/value format:
//
//	# comment
//	[launcher]
//	main = com.example.Main
//
// Keys are flattened to "section.key". Keys before the first section keep
// their bare name.
func parseINI(data []byte, path string) (map[string]string, error) {
	values := make(map[string]string)
	section := ""
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") {
				return nil, launcherrors.NewConfigError(fmt.Sprintf("%s:%d: unterminated section header", path, lineNo), nil)
			}
			section = strings.TrimSpace(line[1 : len(line)-1])
			if section == "" {
				return nil, launcherrors.NewConfigError(fmt.Sprintf("%s:%d: empty section name", path, lineNo), nil)
			}
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, launcherrors.NewConfigError(fmt.Sprintf("%s:%d: expected key = value", path, lineNo), nil)
		}
		if section != "" {
			key = section + "." + key
		}
		values[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, launcherrors.NewConfigError(fmt.Sprintf("failed to read '%s'", path), err)
	}
	return values, nil
}
