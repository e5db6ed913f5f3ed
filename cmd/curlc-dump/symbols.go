package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mbirchal/curlc/internal/compiler/objfile"
)

func symbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <object-file>",
		Short: "List the symbol table, locals before globals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := objfile.Read(args[0])
			if err != nil {
				return err
			}
			bold := color.New(color.Bold)
			for i, sym := range obj.Symbols {
				if i == 0 {
					continue // null symbol
				}
				bind := "LOCAL"
				if sym.Bind == objfile.STB_GLOBAL {
					bind = "GLOBAL"
				}
				fmt.Printf("%s  %-6s  shndx=%d  value=0x%x\n", bold.Sprint(sym.Name), bind, sym.Section, sym.Value)
			}
			return nil
		},
	}
}
