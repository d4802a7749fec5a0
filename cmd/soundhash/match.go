package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"soundhash/compare"
	"soundhash/fingerprint"
	"soundhash/lshindex"
	"soundhash/pcmio"
	"soundhash/store"
)

func newMatchCmd() *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "match <audio_file>",
		Short: "Find the closest stored matches for a query clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMatch(args[0], topN); err != nil {
				return wrapFatal(err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topN, "top", 10, "maximum number of matches to print")
	return cmd
}

func runMatch(path string, topN int) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}

	buf, err := pcmio.DecodeFile(path)
	if err != nil {
		return err
	}
	segs, err := segmentBuffer(buf)
	if err != nil {
		return err
	}
	query := findFirstUsableSignature(eng, segs)
	if query == nil {
		return fmt.Errorf("%s: every segment was silent or degenerate, nothing to match", path)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	idx := lshindex.New(lshindex.DefaultConfig(query.Params.Dimension(), 0))
	signatures := make(map[string]fingerprint.Signature)

	it, err := st.Scan()
	if err != nil {
		return err
	}
	defer it.Close()

	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		sig, err := store.Decode(entry.Blob)
		if err != nil {
			continue // a corrupt record must not abort the whole scan
		}
		if !fingerprint.SameParams(sig.Params, query.Params) {
			continue
		}
		signatures[entry.ID] = sig
		if err := idx.Insert(entry.ID, sig.Vector); err != nil {
			continue
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	candidateIDs, err := idx.Candidates(query.Vector, 0)
	if err != nil {
		return err
	}

	candidates := make([]compare.Candidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		sig := signatures[id]
		candidates = append(candidates, compare.Candidate{
			ID:              id,
			Signature:       sig,
			DurationSeconds: sig.Params.SegmentSeconds,
		})
	}

	results, err := eng.Comparator.Rank(*query, candidates)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no match found")
		return nil
	}
	if len(results) > topN {
		results = results[:topN]
	}
	for _, r := range results {
		fmt.Printf("%s\tscore=%.3f\tcorrelation=%.3f\tl2=%.3f\n", r.ID, r.Score, r.Correlation, r.L2Similarity)
	}
	return nil
}
