package bms

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// builder は解析中の状態を保持し、finalize で Chart を組み立てます
type builder struct {
	meta   Metadata
	wav    map[string]string
	bmp    map[string]string
	bars   map[int]Bar
	maxBar int
	tempo  []TempoChange
}

func newBuilder() *builder {
	return &builder{
		wav:    make(map[string]string),
		bmp:    make(map[string]string),
		bars:   make(map[int]Bar),
		maxBar: -1,
	}
}

// Parse は譜面テキストを解析します。解釈できない行は無視されるため失敗しません。
func Parse(text string) *Chart {
	b := newBuilder()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if d, ok := classify(line); ok {
			b.apply(d)
		}
	}
	return b.finalize()
}

func (b *builder) apply(d directive) {
	switch d.kind {
	case directiveAttribute:
		b.setAttribute(d.name, d.value)
	case directiveResource:
		if d.name == "WAV" {
			b.wav[d.id] = d.value
		} else {
			b.bmp[d.id] = d.value
		}
	case directiveScale:
		if d.scale <= 0 || math.IsInf(d.scale, 0) || math.IsNaN(d.scale) {
			return
		}
		bar := float64(d.bar)
		b.tempo = append(b.tempo,
			TempoChange{Time: bar, Scale: d.scale},
			TempoChange{Time: bar + 1, Scale: 1},
		)
	case directiveChannel:
		b.addChannelData(d.bar, d.ch, d.value)
	}
}

func (b *builder) setAttribute(name, value string) {
	n, _ := strconv.Atoi(value)
	switch name {
	case "PLAYER":
		b.meta.Player = n
	case "GENRE":
		b.meta.Genre = value
	case "TITLE":
		b.meta.Title = value
	case "ARTIST":
		b.meta.Artist = value
	case "BPM":
		b.meta.BPM = n
	case "PLAYLEVEL":
		b.meta.PlayLevel = n
	case "RANK":
		b.meta.Rank = n
	case "TOTAL":
		b.meta.Total = n
	case "VOLWAV":
		b.meta.VolWav = n
	case "STAGEFILE":
		b.meta.StageFile = value
	}
}

func (b *builder) addChannelData(bar int, code, data string) {
	codes := splitCodes(data)
	n := float64(len(codes))

	ch, ok := ParseChannel(code)
	if !ok {
		return
	}

	if ch == ChannelTempo {
		for i, c := range codes {
			if len(c) != 2 || c == "00" {
				continue
			}
			bpm, err := strconv.ParseInt(c, 16, 32)
			if err != nil || bpm <= 0 {
				continue
			}
			b.tempo = append(b.tempo, TempoChange{Time: float64(i)/n + float64(bar), BPM: int(bpm)})
		}
		return
	}

	kind := KindSound
	if ch == ChannelBGA {
		kind = KindImage
	}

	var events []Event
	for i, c := range codes {
		if len(c) != 2 || c == "00" || c == "03" {
			continue
		}
		events = append(events, Event{Kind: kind, Time: float64(i)/n + float64(bar), Channel: ch, Key: c})
	}
	if len(events) == 0 {
		return
	}

	if b.bars[bar] == nil {
		b.bars[bar] = make(Bar)
	}
	b.bars[bar][ch] = append(b.bars[bar][ch], events...)
	if bar > b.maxBar {
		b.maxBar = bar
	}
}

// finalize は小節配列を密にし、イベントとBPM変更を整列・統合します
func (b *builder) finalize() *Chart {
	bars := make([]Bar, b.maxBar+1)
	for i := range bars {
		bar, ok := b.bars[i]
		if !ok {
			bars[i] = make(Bar)
			continue
		}
		for _, events := range bar {
			sort.SliceStable(events, func(x, y int) bool { return events[x].Time < events[y].Time })
		}
		bars[i] = bar
	}

	sort.SliceStable(b.tempo, func(x, y int) bool { return b.tempo[x].Time < b.tempo[y].Time })

	return &Chart{
		meta:  b.meta,
		wav:   b.wav,
		bmp:   b.bmp,
		bars:  bars,
		tempo: mergeTempoChanges(b.tempo),
	}
}

// mergeTempoChanges は同時刻の変更を1つにまとめます。
// BPMは最初の指定が、倍率は最初の指定が残りますが、後続の1以外の倍率は上書きします。
func mergeTempoChanges(changes []TempoChange) []TempoChange {
	merged := make([]TempoChange, 0, len(changes))
	for _, c := range changes {
		if len(merged) == 0 || merged[len(merged)-1].Time != c.Time {
			merged = append(merged, c)
			continue
		}
		last := &merged[len(merged)-1]
		if !last.HasBPM() {
			last.BPM = c.BPM
		}
		if !last.HasScale() {
			last.Scale = c.Scale
		}
		if last.HasScale() && c.HasScale() && c.Scale != 1 {
			last.Scale = c.Scale
		}
	}
	return merged
}
