package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cfg.BindChartFlags(serveCmd.Flags())
	cfg.BindServeFlags(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [archive]",
	Short: "譜面情報と音声・画像リソースをHTTPで公開します",
	Long: `serve は次のエンドポイントを公開します。

  GET /chart         譜面の概要(JSON)
  GET /entries       アーカイブのエントリ一覧(JSON)
  GET /sounds        WAV IDとエントリ名の対応(JSON)
  GET /sounds/{id}   音声データ
  GET /images        BMP IDとエントリ名の対応(JSON)
  GET /images/{id}   画像データ`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _ := newApp(cmd, args)
		return a.Serve(cmd.Context())
	},
}
