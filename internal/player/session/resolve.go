package session

import (
	"strings"

	"github.com/shiroemons/go-webbms/pkg/bms"
	"github.com/shiroemons/go-webbms/pkg/ziparc"
)

// fallbackFunc は小文字化した参照名から代替候補を返します
type fallbackFunc func(lower string) []string

// soundFallback は拡張子 .wav を .ogg に置き換えた候補を返します。
// .wav 以外の名前にはそのまま .ogg を付けます。
func soundFallback(lower string) []string {
	return []string{strings.TrimSuffix(lower, ".wav") + ".ogg"}
}

// imageFallback は拡張子 .bmp を .png と .jpg に置き換えた候補を返します
func imageFallback(lower string) []string {
	base, ok := strings.CutSuffix(lower, ".bmp")
	if !ok {
		return nil
	}
	return []string{base + ".png", base + ".jpg"}
}

// lowerIndex は小文字化したエントリ名から実際のエントリ名への対応表を作ります。
// キーは譜面と同じ文字コード判定（UTF-8 でなければ Shift_JIS）で読んだ名前です。
// 小文字化して同じになる名前は後のエントリが優先されます。
func lowerIndex(names []string) map[string]string {
	index := make(map[string]string, len(names))
	for _, name := range names {
		index[strings.ToLower(chartText(name))] = name
	}
	return index
}

// chartText はエントリ名を譜面テキストと同じ文字コードで読み直します
func chartText(name string) string {
	text, err := bms.Decode(ziparc.RawName(name))
	if err != nil {
		return name
	}
	return text
}

// resolveAll は参照表の各IDをアーカイブのエントリ名に解決します。解決できないIDは含みません。
func resolveAll(table map[string]string, index map[string]string, fallback fallbackFunc) map[string]string {
	resolved := make(map[string]string, len(table))
	for id, ref := range table {
		if name, ok := resolve(ref, index, fallback); ok {
			resolved[id] = name
		}
	}
	return resolved
}

func resolve(ref string, index map[string]string, fallback fallbackFunc) (string, bool) {
	lower := strings.ToLower(strings.ReplaceAll(ref, "\\", "/"))
	if name, ok := index[lower]; ok {
		return name, true
	}
	for _, candidate := range fallback(lower) {
		if name, ok := index[candidate]; ok {
			return name, true
		}
	}
	return "", false
}
