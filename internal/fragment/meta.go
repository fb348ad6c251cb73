package fragment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// Meta holds the key-value metadata of a fenced block's info string, given
// either as a JSON object or as shell-style words. A word without "=" is a
// flag and holds "true".
type Meta map[string]interface{}

// Get returns the value for name as a string, or "" when it is missing.
func (m Meta) Get(name string) string {
	value, ok := m[name]
	if !ok {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

var (
	reJSONObject = regexp.MustCompile(`^\s*{\s*["}]`)
	reBraced     = regexp.MustCompile(`^\s*{(.*)}\s*$`)
)

func parseMeta(input []byte) (Meta, error) {
	meta := make(Meta)

	if len(bytes.TrimSpace(input)) == 0 {
		return meta, nil
	}

	if reJSONObject.Match(input) {
		if err := json.Unmarshal(input, &meta); err != nil {
			return nil, fmt.Errorf("fence metadata: %w", err)
		}

		return meta, nil
	}

	if match := reBraced.FindSubmatch(input); match != nil {
		input = match[1]
	}

	words, err := shlex.Split(string(input))
	if err != nil {
		return nil, fmt.Errorf("fence metadata: %w", err)
	}

	for _, word := range words {
		key, value, ok := strings.Cut(word, "=")
		if !ok {
			value = "true"
		}

		if len(key) != 0 {
			meta[key] = value
		}
	}

	return meta, nil
}
