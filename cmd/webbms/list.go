package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [archive]",
	Short: "アーカイブのエントリをサイズ付きで一覧表示します",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _ := newApp(cmd, args)
		return a.List(cmd.Context())
	},
}
