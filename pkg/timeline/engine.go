// Package timeline は経過時間を小節位置に変換し、通過したイベントを返す再生エンジンです。
package timeline

import (
	"sort"
	"time"

	"github.com/shiroemons/go-webbms/pkg/bms"
)

const (
	// MaxRefinementSteps は1回の Advance で処理するBPM変更の上限です
	MaxRefinementSteps = 32

	// DefaultLeadIn は再生開始前の空白小節数です
	DefaultLeadIn = 1.0

	beatsPerBar = 4
	msPerMinute = 60 * 1000
)

// Timeline はエンジンが参照する譜面の問い合わせ口です。*bms.Chart が実装します。
type Timeline interface {
	TempoChangesBetween(from, to float64) []bms.TempoChange
	EventsBetween(from, to float64, ch bms.Channel) []bms.Event
}

// State はエンジンの現在状態です
type State struct {
	Position float64 // 小節位置
	BPM      int
	Scale    float64 // 現在の小節長の倍率
}

// Options はEngineの設定オプション
type Options struct {
	// Channels はイベントを収集するチャンネルです。nil の場合は DefaultChannels。
	Channels []bms.Channel
	// LeadIn は開始位置を 0 より何小節前にするかです
	LeadIn float64
}

// Engine は可変テンポのタイムラインを進めます。並行呼び出しには対応しません。
type Engine struct {
	tl       Timeline
	channels []bms.Channel
	state    State
}

// DefaultChannels はBGMと1P側の演奏レーンを返します
func DefaultChannels() []bms.Channel {
	return append([]bms.Channel{bms.ChannelBackground}, bms.PlayChannels()...)
}

// New は1小節のリードインを持つ新しいEngineを作成します
func New(tl Timeline, bpm int) *Engine {
	return NewWithOptions(tl, bpm, Options{LeadIn: DefaultLeadIn})
}

// NewWithOptions は新しいEngineをオプション付きで作成します
func NewWithOptions(tl Timeline, bpm int, opts Options) *Engine {
	channels := opts.Channels
	if channels == nil {
		channels = DefaultChannels()
	}
	return &Engine{
		tl:       tl,
		channels: append([]bms.Channel(nil), channels...),
		state: State{
			Position: -opts.LeadIn,
			BPM:      bpm,
			Scale:    1,
		},
	}
}

// State は現在の状態を返します
func (e *Engine) State() State {
	return e.state
}

// Position は現在の小節位置を返します
func (e *Engine) Position() float64 {
	return e.state.Position
}

// Finished は現在位置が barCount 小節の終端を過ぎているかを返します
func (e *Engine) Finished(barCount int) bool {
	return e.state.Position >= float64(barCount)
}

// Advance は elapsed だけ時間を進め、通過したイベントを返します。
// イベントはチャンネルごとに時刻順で、チャンネルは設定順に並びます。
func (e *Engine) Advance(elapsed time.Duration) []bms.Event {
	if elapsed <= 0 {
		return nil
	}
	total := float64(elapsed) / float64(time.Millisecond)

	prev := e.state.Position
	pos := prev
	passed := 0.0
	for i := 0; i < MaxRefinementSteps; i++ {
		effectiveBPM := float64(e.state.BPM) / e.state.Scale
		tentative := pos + barsFor(effectiveBPM, total-passed)

		changes := e.tl.TempoChangesBetween(pos, tentative)
		if len(changes) == 0 {
			pos = tentative
			break
		}

		change := changes[0]
		if change.HasBPM() {
			e.state.BPM = change.BPM
		}
		if change.HasScale() {
			e.state.Scale = change.Scale
		}

		passed += (change.Time - pos) * beatsPerBar * msPerMinute / effectiveBPM
		pos = change.Time
	}
	e.state.Position = pos

	var fired []bms.Event
	for _, ch := range e.channels {
		fired = append(fired, e.tl.EventsBetween(prev, pos, ch)...)
	}
	return fired
}

// barsFor は effectiveBPM で ms ミリ秒進んだときの小節数を返します
func barsFor(effectiveBPM, ms float64) float64 {
	return effectiveBPM * ms / (beatsPerBar * msPerMinute)
}

// MergeByTime はチャンネル順に並んだイベントを全体の時刻順に並べ替えます
func MergeByTime(events []bms.Event) []bms.Event {
	out := append([]bms.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
