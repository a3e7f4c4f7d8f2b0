package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cfg.BindChartFlags(playCmd.Flags())
	cfg.BindPlayFlags(playCmd.Flags())
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [archive]",
	Short: "譜面を再生し、発火したイベントをテキストで表示します",
	Long: `play は --interval ごとにタイムラインを進め、発火したイベントを表示します。
譜面の終端、--limit の経過、または Ctrl+C で停止します。音声は出力しません。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _ := newApp(cmd, args)
		return a.Play(cmd.Context())
	},
}
