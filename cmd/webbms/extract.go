package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cfg.BindExtractFlags(extractCmd.Flags())
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [archive] [names...]",
	Short: "アーカイブのエントリをファイルに書き出します",
	Long: `extract はアーカイブのエントリを --output のディレクトリに書き出します。
名前を指定した場合は大文字小文字を区別せずに一致したエントリだけを、省略した場合は全てのエントリを書き出します。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, names := newApp(cmd, args)
		return a.Extract(cmd.Context(), names)
	},
}
