package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"soundhash/pcmio"
	"soundhash/store"
)

func newIndexCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "index <audio_file>",
		Short: "Fingerprint a file and store one signature per usable segment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath != "" {
				return runIndexManifest(manifestPath)
			}
			if len(args) != 1 {
				return wrapFatal(fmt.Errorf("index requires either an audio file or --manifest"))
			}
			id, err := indexFile(args[0], "")
			if err != nil {
				return wrapFatal(err)
			}
			fmt.Printf("indexed %s as %s\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "JSON array of {\"path\":..., \"id\":..., \"meta\":...} entries to index in bulk")
	return cmd
}

// runIndexManifest streams a manifest array with jsonparser, which
// avoids building an intermediate []struct for what can be a very large
// batch job's file list.
func runIndexManifest(manifestPath string) error {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return wrapFatal(err)
	}

	var firstErr error
	count := 0
	_, err = jsonparser.ArrayEach(raw, func(entry []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil || firstErr != nil {
			return
		}

		path, pathErr := jsonparser.GetString(entry, "path")
		if pathErr != nil {
			firstErr = fmt.Errorf("manifest entry %d: missing \"path\": %w", count, pathErr)
			return
		}
		id, _ := jsonparser.GetString(entry, "id")

		// The meta field, if present, is a nested JSON object/string; gjson
		// reads the one field we care about (a display title) without
		// requiring a second jsonparser.ObjectEach pass.
		meta, _, _, _ := jsonparser.Get(entry, "meta")
		title := gjson.GetBytes(meta, "title").String()

		gotID, idxErr := indexFile(path, id)
		if idxErr != nil {
			firstErr = fmt.Errorf("indexing %s: %w", path, idxErr)
			return
		}
		if title != "" {
			fmt.Printf("indexed %s (%s) as %s\n", path, title, gotID)
		} else {
			fmt.Printf("indexed %s as %s\n", path, gotID)
		}
		count++
	})
	if err != nil {
		return wrapFatal(err)
	}
	if firstErr != nil {
		return wrapFatal(firstErr)
	}

	fmt.Printf("indexed %d file(s) from %s\n", count, filepath.Clean(manifestPath))
	return nil
}

// indexFile extracts one signature per non-null segment of path via the
// engine's batch driver and persists them under id (the first usable
// segment) and id#1, id#2, ... (every later usable segment), generating
// a fresh identifier when id is empty. It returns the base id.
func indexFile(path, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	eng, err := buildEngine()
	if err != nil {
		return "", err
	}

	buf, err := pcmio.DecodeFile(path)
	if err != nil {
		return "", err
	}

	sigs, err := streamUsableSignatures(eng, buf)
	if err != nil {
		return "", err
	}
	if len(sigs) == 0 {
		return "", fmt.Errorf("%s: every segment was silent or degenerate", path)
	}

	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()

	for i, sig := range sigs {
		segID := id
		if i > 0 {
			segID = fmt.Sprintf("%s#%d", id, i)
		}
		blob, err := store.Encode(sig)
		if err != nil {
			return "", err
		}
		if err := st.Put(segID, blob); err != nil {
			return "", err
		}
	}
	return id, nil
}
