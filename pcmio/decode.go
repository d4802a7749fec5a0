package pcmio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"soundhash/pcm"
)

// DecodeFile dispatches to DecodeWAV or DecodeMP3 by file extension.
func DecodeFile(path string) (pcm.Buffer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("pcmio: failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return DecodeWAV(bytes.NewReader(raw))
	case ".mp3":
		return DecodeMP3(bytes.NewReader(raw))
	default:
		return pcm.Buffer{}, fmt.Errorf("pcmio: unsupported audio format %q", filepath.Ext(path))
	}
}
