// Package export は譜面をStandard MIDI Fileに変換します
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/shiroemons/go-webbms/pkg/bms"
)

const (
	// DefaultResolution は四分音符あたりのティック数です
	DefaultResolution = 480

	// DefaultVelocity はノートオンのベロシティです
	DefaultVelocity = 100

	beatsPerBar = 4
)

// ErrWriteMIDI はMIDIファイルの書き込みに失敗した場合のエラー
var ErrWriteMIDI = errors.New("MIDIファイルの書き込みに失敗しました")

// Options はExportの設定オプション
type Options struct {
	Resolution uint16 // 0 の場合は DefaultResolution
	Velocity   uint8  // 0 の場合は DefaultVelocity
	Channels   []bms.Channel
}

// midiEvent は絶対ティックで表したトラック内のメッセージです
type midiEvent struct {
	tick uint32
	off  bool
	msg  []byte
}

// Export は譜面をSMF(フォーマット1)として w に書き込みます。
// 1トラック目はテンポ、以降はチャンネルごとのトラックで、ノート番号はリソースIDの36進数値を128で割った余りです。
func Export(chart *bms.Chart, w io.Writer, opts Options) (int64, error) {
	s, err := Build(chart, opts)
	if err != nil {
		return 0, err
	}
	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrWriteMIDI, err)
	}
	return n, nil
}

// Build は譜面からSMFを組み立てます
func Build(chart *bms.Chart, opts Options) (*smf.SMF, error) {
	resolution := opts.Resolution
	if resolution == 0 {
		resolution = DefaultResolution
	}
	velocity := opts.Velocity
	if velocity == 0 {
		velocity = DefaultVelocity
	}
	channels := opts.Channels
	if channels == nil {
		channels = append([]bms.Channel{bms.ChannelBackground}, bms.PlayChannels()...)
	}
	ticksPerBar := float64(resolution) * beatsPerBar

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)

	if err := s.Add(tempoTrack(chart, ticksPerBar)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteMIDI, err)
	}

	gate := uint32(resolution / 8)
	for i, ch := range channels {
		midiCh := uint8(i % 16)
		var events []midiEvent
		for bar := 0; bar < chart.BarCount(); bar++ {
			for _, e := range chart.Bar(bar)[ch] {
				note := NoteNumber(e.Key)
				tick := toTick(e.Time, ticksPerBar)
				events = append(events,
					midiEvent{tick: tick, msg: midi.NoteOn(midiCh, note, velocity)},
					midiEvent{tick: tick + gate, off: true, msg: midi.NoteOff(midiCh, note)},
				)
			}
		}

		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(ch.String()))
		appendEvents(&tr, events)
		if err := s.Add(tr); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteMIDI, ch, err)
		}
	}

	return s, nil
}

// tempoTrack はBPMと小節長の変更を実効テンポとして並べたトラックを作ります
func tempoTrack(chart *bms.Chart, ticksPerBar float64) smf.Track {
	bpm := chart.InitialBPM()
	scale := 1.0

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(chart.Metadata().Title))
	var events []midiEvent
	events = append(events, midiEvent{tick: 0, msg: smf.MetaTempo(float64(bpm) / scale)})
	for _, c := range chart.TempoChanges() {
		if c.HasBPM() {
			bpm = c.BPM
		}
		if c.HasScale() {
			scale = c.Scale
		}
		events = append(events, midiEvent{tick: toTick(c.Time, ticksPerBar), msg: smf.MetaTempo(float64(bpm) / scale)})
	}
	appendEvents(&tr, events)
	return tr
}

// appendEvents は絶対ティックのイベントを差分ティックに変換してトラックに追加し、トラックを閉じます。
// 同じティックではノートオフがノートオンより先になります。
func appendEvents(tr *smf.Track, events []midiEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)
}

func toTick(barTime, ticksPerBar float64) uint32 {
	if barTime <= 0 {
		return 0
	}
	return uint32(barTime*ticksPerBar + 0.5)
}

// NoteNumber はリソースIDをMIDIノート番号に変換します
func NoteNumber(key string) uint8 {
	n, err := strconv.ParseUint(key, 36, 16)
	if err != nil {
		return 0
	}
	return uint8(n % 128)
}
