package bms

import (
	"regexp"
	"strconv"
	"strings"
)

type directiveKind int

const (
	directiveAttribute directiveKind = iota
	directiveResource
	directiveScale
	directiveChannel
)

// directive は1行を分類した結果です
type directive struct {
	kind  directiveKind
	name  string // 属性名 または WAV/BMP
	id    string // リソースID
	value string // 属性値・ファイル名・チャンネルデータ
	bar   int
	ch    string
	scale float64
}

// lineMatcher は行の形を判定し、一致すれば directive を返します
type lineMatcher func(line string) (directive, bool)

// lineMatchers は先に一致したものが優先されます
var lineMatchers = []lineMatcher{
	matchAttribute,
	matchResource,
	matchScale,
	matchChannelData,
}

var (
	numericAttributePattern = regexp.MustCompile(`^#(?i:(PLAYER|BPM|PLAYLEVEL|RANK|TOTAL|VOLWAV)) ([0-9]+)$`)
	textAttributePattern    = regexp.MustCompile(`^#(?i:(GENRE|TITLE|ARTIST|STAGEFILE)) (.+)$`)
	resourcePattern         = regexp.MustCompile(`^#(?i:(WAV|BMP))([0-9A-Za-z]{2}) (.+)$`)
	scalePattern            = regexp.MustCompile(`^#([0-9]{3})02:(.+)$`)
	channelDataPattern      = regexp.MustCompile(`^#([0-9]{3})([0-9]{2}):([0-9A-Za-z]+)$`)
)

// classify は行を分類します。どの形にも一致しない行は false を返します。
func classify(line string) (directive, bool) {
	for _, match := range lineMatchers {
		if d, ok := match(line); ok {
			return d, true
		}
	}
	return directive{}, false
}

func matchAttribute(line string) (directive, bool) {
	if m := numericAttributePattern.FindStringSubmatch(line); m != nil {
		if _, err := strconv.Atoi(m[2]); err != nil {
			return directive{}, false
		}
		return directive{kind: directiveAttribute, name: strings.ToUpper(m[1]), value: m[2]}, true
	}
	if m := textAttributePattern.FindStringSubmatch(line); m != nil {
		return directive{kind: directiveAttribute, name: strings.ToUpper(m[1]), value: m[2]}, true
	}
	return directive{}, false
}

func matchResource(line string) (directive, bool) {
	m := resourcePattern.FindStringSubmatch(line)
	if m == nil {
		return directive{}, false
	}
	return directive{
		kind:  directiveResource,
		name:  strings.ToUpper(m[1]),
		id:    strings.ToUpper(m[2]),
		value: m[3],
	}, true
}

// matchScale は小節長変更の行を判定します。倍率が不正でも行の形が一致すれば消費します。
func matchScale(line string) (directive, bool) {
	m := scalePattern.FindStringSubmatch(line)
	if m == nil {
		return directive{}, false
	}
	bar, _ := strconv.Atoi(m[1])
	scale, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if err != nil {
		scale = 0
	}
	return directive{kind: directiveScale, bar: bar, scale: scale}, true
}

func matchChannelData(line string) (directive, bool) {
	m := channelDataPattern.FindStringSubmatch(line)
	if m == nil {
		return directive{}, false
	}
	bar, _ := strconv.Atoi(m[1])
	return directive{
		kind:  directiveChannel,
		bar:   bar,
		ch:    m[2],
		value: strings.ToUpper(m[3]),
	}, true
}

// splitCodes はチャンネルデータを2文字ずつに分割します。末尾の1文字も1区画として数えます。
func splitCodes(data string) []string {
	codes := make([]string, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		end := i + 2
		if end > len(data) {
			end = len(data)
		}
		codes = append(codes, data[i:end])
	}
	return codes
}
