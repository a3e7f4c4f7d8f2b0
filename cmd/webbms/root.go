package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shiroemons/go-webbms/internal/player/app"
	"github.com/shiroemons/go-webbms/internal/player/config"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "webbms",
	Short: "BMS chart player core",
	Long: `webbms はZIPアーカイブ内のBMS譜面を読み込み、
エントリの一覧・抽出、譜面情報の表示、テキスト表示での再生、
HTTPでのリソース公開、Standard MIDI Fileへの変換を行います。
アーカイブを省略した場合はカレントディレクトリと実行ファイルのディレクトリから .zip を検出します。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.HandleVersion(cmd.OutOrStdout(), cfg.ShowVersion) {
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	cfg.BindPersistentFlags(rootCmd.PersistentFlags())
}

// Execute はコマンドを実行します
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newApp はコマンドの入出力を使うAppを作成します。
// 先頭の引数はアーカイブのパスとして扱い、残りを返します。
// フラグの値は呼び出しごとの複製に移すので、引数が次の実行に残ることはありません。
func newApp(cmd *cobra.Command, args []string) (*app.App, []string) {
	c := *cfg
	if len(args) > 0 {
		c.ArchivePath = args[0]
		args = args[1:]
	}
	return app.NewWithOptions(&c, app.Options{
		Out:    cmd.OutOrStdout(),
		ErrOut: cmd.ErrOrStderr(),
	}), args
}
