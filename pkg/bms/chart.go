// Package bms はBMS形式の譜面テキストを解析し、小節単位のイベントとBPM変更列を提供します。
//
// 解析は寛容に行われ、解釈できない行は黙って読み飛ばされます。
// 解析結果の Chart は読み取り専用で、生成後に内容が変わることはありません。
package bms

import (
	"math"
	"sort"
)

// DefaultBPM は #BPM が指定されていない譜面の初期テンポです
const DefaultBPM = 130

// EventKind はイベントの種類を表します
type EventKind int

const (
	KindSound EventKind = iota // #WAV を参照する音声イベント
	KindImage                  // #BMP を参照する画像イベント
)

func (k EventKind) String() string {
	if k == KindImage {
		return "image"
	}
	return "sound"
}

// Event は譜面上の1つのオブジェを表します
type Event struct {
	Kind    EventKind
	Time    float64 // 小節位置 (小節番号 + 小節内の割合)
	Channel Channel
	Key     string // 2桁の36進ID
}

// TempoChange はBPMまたは小節長の変更を表します。0 の項目は指定なしを意味します。
type TempoChange struct {
	Time  float64
	BPM   int
	Scale float64
}

// HasBPM はBPMが指定されているかを返します
func (c TempoChange) HasBPM() bool {
	return c.BPM != 0
}

// HasScale は小節長の倍率が指定されているかを返します
func (c TempoChange) HasScale() bool {
	return c.Scale != 0
}

// Metadata は譜面のヘッダ情報を保持します
type Metadata struct {
	Player    int
	Genre     string
	Title     string
	Artist    string
	BPM       int
	PlayLevel int
	Rank      int
	Total     int
	VolWav    int
	StageFile string
}

// Bar は1小節分のチャンネルごとのイベント列です
type Bar map[Channel][]Event

// Chart は解析済みの譜面です
type Chart struct {
	meta  Metadata
	wav   map[string]string
	bmp   map[string]string
	bars  []Bar
	tempo []TempoChange
}

// Metadata はヘッダ情報を返します
func (c *Chart) Metadata() Metadata {
	return c.meta
}

// InitialBPM は再生開始時のBPMを返します
func (c *Chart) InitialBPM() int {
	if c.meta.BPM > 0 {
		return c.meta.BPM
	}
	return DefaultBPM
}

// WAV はIDに対応する音声ファイル名を返します
func (c *Chart) WAV(id string) (string, bool) {
	name, ok := c.wav[id]
	return name, ok
}

// BMP はIDに対応する画像ファイル名を返します
func (c *Chart) BMP(id string) (string, bool) {
	name, ok := c.bmp[id]
	return name, ok
}

// WAVTable は音声定義のコピーを返します
func (c *Chart) WAVTable() map[string]string {
	return cloneTable(c.wav)
}

// BMPTable は画像定義のコピーを返します
func (c *Chart) BMPTable() map[string]string {
	return cloneTable(c.bmp)
}

// BarCount は小節数を返します
func (c *Chart) BarCount() int {
	return len(c.bars)
}

// Bar は i 番目の小節のコピーを返します。範囲外の場合は空の Bar を返します。
func (c *Chart) Bar(i int) Bar {
	out := make(Bar)
	if i < 0 || i >= len(c.bars) {
		return out
	}
	for ch, events := range c.bars[i] {
		out[ch] = append([]Event(nil), events...)
	}
	return out
}

// TempoChanges は正規化済みのBPM変更列のコピーを返します
func (c *Chart) TempoChanges() []TempoChange {
	return append([]TempoChange(nil), c.tempo...)
}

// NoteCount は演奏レーン上のオブジェ数を返します
func (c *Chart) NoteCount() int {
	count := 0
	for _, bar := range c.bars {
		for ch, events := range bar {
			if ch.IsPlayable() {
				count += len(events)
			}
		}
	}
	return count
}

// EventsBetween は from < Time <= to を満たすチャンネル ch のイベントを時刻順に返します
func (c *Chart) EventsBetween(from, to float64, ch Channel) []Event {
	if !(from < to) || to < 0 || from >= float64(len(c.bars)) {
		return nil
	}
	first := math.Max(math.Floor(from), 0)
	last := math.Min(math.Floor(to), float64(len(c.bars)-1))

	var events []Event
	for i := int(first); float64(i) <= last; i++ {
		for _, e := range c.bars[i][ch] {
			if from < e.Time && e.Time <= to {
				events = append(events, e)
			}
		}
	}
	return events
}

// TempoChangesBetween は from < Time <= to を満たすBPM変更を時刻順に返します
func (c *Chart) TempoChangesBetween(from, to float64) []TempoChange {
	start := sort.Search(len(c.tempo), func(i int) bool { return c.tempo[i].Time > from })
	end := sort.Search(len(c.tempo), func(i int) bool { return c.tempo[i].Time > to })
	if start >= end {
		return nil
	}
	return append([]TempoChange(nil), c.tempo[start:end]...)
}

func cloneTable(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
