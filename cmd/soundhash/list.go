package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every identifier in the signature store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runList(); err != nil {
				return wrapFatal(err)
			}
			return nil
		},
	}
}

func runList() error {
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

	var ids []string
	for {
		entry, ok := it.Next()
		if !ok {
			break
		}
		ids = append(ids, entry.ID)
	}
	if err := it.Err(); err != nil {
		return err
	}

	if asJSON {
		enc, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
