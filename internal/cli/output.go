package cli

import (
	"encoding/json"
	"io"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// print writes v as JSON with --json and as YAML otherwise.
func (m *mounter) print(w io.Writer, v any) error {
	if m.opts.jsonOutput {
		return printJSON(w, v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode output")
	}
	return enc.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode output")
	}
	return nil
}
