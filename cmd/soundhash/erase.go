package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newEraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "erase [id]",
		Short: "Erase one entry, or the whole store when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runErase(args); err != nil {
				return wrapFatal(err)
			}
			return nil
		},
	}
}

func runErase(args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		if err := st.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println(color.YellowString("erased %s", args[0]))
		return nil
	}

	it, err := st.Scan()
	if err != nil {
		return err
	}
	var ids []string
	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		ids = append(ids, entry.ID)
	}
	scanErr := it.Err()
	it.Close()
	if scanErr != nil {
		return scanErr
	}

	for _, id := range ids {
		if err := st.Delete(id); err != nil {
			return err
		}
	}
	fmt.Println(color.YellowString("erased %d entries", len(ids)))
	return nil
}
