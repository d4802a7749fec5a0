package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"soundhash/pcmio"
)

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <audio_file>",
		Short: "Extract and print one signature per segment without storing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(args[0])
		},
	}
}

func runFingerprint(path string) error {
	eng, err := buildEngine()
	if err != nil {
		return wrapFatal(err)
	}

	buf, err := pcmio.DecodeFile(path)
	if err != nil {
		return wrapFatal(err)
	}

	segs, err := segmentBuffer(buf)
	if err != nil {
		return wrapFatal(err)
	}

	for i, seg := range segs {
		sig, err := eng.Extractor.Extract(seg)
		if err != nil {
			return wrapFatal(err)
		}
		if sig.Null() {
			fmt.Printf("segment %d: silent or degenerate, skipped\n", i)
			continue
		}
		fmt.Printf("segment %d: %d peaks, confidence %.3f, tag %x\n",
			i, len(sig.Peaks), sig.Confidence, sig.Tag)
	}
	return nil
}
