package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readJSONInput reads path, or standard input when path is "-", and checks
// that it holds a JSON document.
func readJSONInput(path string, stdin io.Reader) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, path)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, path)
	}
	return json.RawMessage(data), nil
}
