package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"soundhash/fingerprint"
	"soundhash/store"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the size and average confidence of the signature store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runStats(); err != nil {
				return wrapFatal(err)
			}
			return nil
		},
	}
}

func runStats() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	it, err := st.Scan()
	if err != nil {
		return err
	}
	defer it.Close()

	var count int
	var confidenceSum float64
	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		sig, err := store.Decode(entry.Blob)
		if err != nil {
			continue
		}
		count++
		confidenceSum += sig.Confidence
	}
	if err := it.Err(); err != nil {
		return err
	}

	if count == 0 {
		fmt.Println("store is empty")
		return nil
	}

	perEntry := store.StorageEstimate(fingerprint.DefaultConfig())
	meanConfidence := confidenceSum / float64(count)
	estimatedBytes := perEntry * count

	if asJSON {
		enc, err := json.Marshal(map[string]any{
			"entries":         count,
			"mean_confidence": meanConfidence,
			"estimated_bytes": estimatedBytes,
			"bytes_per_entry": perEntry,
		})
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}

	fmt.Printf("entries: %d\n", count)
	fmt.Printf("mean confidence: %.3f\n", meanConfidence)
	fmt.Printf("estimated size: %d bytes (%d bytes/entry)\n", estimatedBytes, perEntry)
	return nil
}
