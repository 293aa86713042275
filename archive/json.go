package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func writeJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func readJSON(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var run Run
	if err := json.NewDecoder(f).Decode(&run); err != nil {
		return nil, fmt.Errorf("decode archive %s: %w", path, err)
	}
	return &run, nil
}
