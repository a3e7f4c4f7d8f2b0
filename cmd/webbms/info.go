package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cfg.BindChartFlags(infoCmd.Flags())
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info [archive]",
	Short: "譜面のメタデータ、リソース数、テンポ変化を表示します",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _ := newApp(cmd, args)
		return a.Info(cmd.Context())
	},
}
