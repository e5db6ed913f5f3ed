package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbirchal/curlc/internal/compiler/objfile"
)

func sectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections <object-file>",
		Short: "List section headers: offsets and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := objfile.Read(args[0])
			if err != nil {
				return err
			}
			for i, sec := range obj.Sections {
				fmt.Println(formatSectionLine(i, sec))
			}
			return nil
		},
	}
}

func formatSectionLine(index int, sec objfile.SectionHeader) string {
	name := sec.Name
	if name == "" {
		name = "(null)"
	}
	return fmt.Sprintf("[%2d] %-12s offset=0x%-6x size=%d", index, name, sec.Offset, sec.Size)
}
