package mintconfig

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// RenderError reports a settings value that cannot be represented in the
// daemon's config file format.
type RenderError struct {
	Section string
	Key     string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("settings %s.%s: %v", e.Section, e.Key, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

var bareKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Render serializes the tree to TOML. Sections and keys are emitted in
// sorted order so identical trees always render to identical bytes.
func Render(tree Tree) ([]byte, error) {
	var buf bytes.Buffer
	for i, name := range tree.Sections() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "[%s]\n", tomlKey(name))

		section := tree[name]
		keys := make([]string, 0, len(section))
		for key := range section {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			encoded, err := encodeEntry(key, section[key])
			if err != nil {
				return nil, &RenderError{Section: name, Key: key, Err: err}
			}
			buf.Write(encoded)
		}
	}
	return buf.Bytes(), nil
}

func encodeEntry(key string, value any) ([]byte, error) {
	switch v := value.(type) {
	case map[string]any, Tree, map[string]string:
		return nil, fmt.Errorf("nested tables are not representable; move the mapping into its own top-level section")
	case nil:
		return nil, fmt.Errorf("nil value is not representable")
	case []any:
		for _, item := range v {
			if _, ok := item.(map[string]any); ok {
				return nil, fmt.Errorf("arrays of tables are not representable")
			}
		}
	}
	encoded, err := toml.Marshal(map[string]any{key: value})
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func tomlKey(name string) string {
	if bareKeyPattern.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
