package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cfg.BindChartFlags(exportCmd.Flags())
	cfg.BindExportFlags(exportCmd.Flags())
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [archive]",
	Short: "譜面をStandard MIDI Fileに変換します",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _ := newApp(cmd, args)
		return a.Export(cmd.Context())
	},
}
