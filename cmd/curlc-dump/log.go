package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbirchal/curlc/internal/buildlog"
)

func logCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent compilations from the local build ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := buildlog.Log("")
			if err != nil {
				return err
			}
			entries, err := buildlog.Recent(db, limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %s -> %s  (%d funcs, %dms)\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"), e.SourcePath, e.OutputPath, e.FunctionCount, e.DurationMS)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}
