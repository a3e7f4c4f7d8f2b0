package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiroemons/go-webbms/pkg/bms"
)

const epsilon = 1e-9

func keys(events []bms.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Key
	}
	return out
}

func TestEngine_InitialState(t *testing.T) {
	e := New(bms.Parse(""), 120)
	assert.Equal(t, State{Position: -1, BPM: 120, Scale: 1}, e.State())

	e = NewWithOptions(bms.Parse(""), 90, Options{})
	assert.Equal(t, 0.0, e.Position())
}

func TestEngine_AdvanceZeroIsNoop(t *testing.T) {
	e := New(bms.Parse("#00011:01\n"), 120)
	before := e.State()

	assert.Nil(t, e.Advance(0))
	assert.Nil(t, e.Advance(-time.Second))
	assert.Equal(t, before, e.State())
}

func TestEngine_ConstantTempo(t *testing.T) {
	e := New(bms.Parse("#00011:0102\n"), 120)

	// 120BPMでは1小節が2秒
	fired := e.Advance(2 * time.Second)
	assert.InDelta(t, 0.0, e.Position(), epsilon)
	assert.Equal(t, []string{"01"}, keys(fired))

	fired = e.Advance(time.Second)
	assert.InDelta(t, 0.5, e.Position(), epsilon)
	assert.Equal(t, []string{"02"}, keys(fired))

	assert.Empty(t, e.Advance(time.Second))
}

func TestEngine_TempoChangeCrossing(t *testing.T) {
	e := New(bms.Parse("#00003:F0\n"), 120)

	// 0小節目まで2秒、残り1秒は240BPMで1小節進む
	e.Advance(3 * time.Second)
	assert.InDelta(t, 1.0, e.Position(), epsilon)
	assert.Equal(t, 240, e.State().BPM)
}

func TestEngine_ScaleChange(t *testing.T) {
	e := New(bms.Parse("#00002:0.5\n#00011:0101\n"), 120)

	fired := e.Advance(2 * time.Second)
	assert.InDelta(t, 0.0, e.Position(), epsilon)
	assert.Equal(t, 0.5, e.State().Scale)
	assert.Len(t, fired, 1)

	// 倍率0.5の小節は1秒で終わる
	fired = e.Advance(time.Second)
	assert.InDelta(t, 1.0, e.Position(), epsilon)
	assert.Equal(t, 1.0, e.State().Scale)
	assert.Len(t, fired, 1)
}

func TestEngine_Additivity(t *testing.T) {
	// 5秒で 2.3125 小節まで進む。境界に近いノーツは置かない。
	text := "#00003:F0\n#00102:0.75\n#00203:3C\n" +
		"#00001:01\n#00011:02030405\n#00112:0607\n#00111:08\n#00211:090A\n#00311:0B\n"

	once := New(bms.Parse(text), 120)
	all := once.Advance(5 * time.Second)

	split := New(bms.Parse(text), 120)
	var parts []bms.Event
	for i := 0; i < 50; i++ {
		parts = append(parts, split.Advance(100*time.Millisecond)...)
	}

	assert.InDelta(t, once.Position(), split.Position(), 1e-6)
	assert.Equal(t, once.State().BPM, split.State().BPM)
	assert.Equal(t, once.State().Scale, split.State().Scale)

	// 分割しても同じイベントが1回ずつ発火する
	assert.Equal(t, []string{"01", "02", "03", "04", "05", "08", "09", "06", "07"}, keys(all))
	assert.ElementsMatch(t, all, parts)
	seen := make(map[string]bool)
	for _, e := range parts {
		assert.False(t, seen[e.Key], "%s fired twice", e.Key)
		seen[e.Key] = true
	}
}

func TestEngine_RefinementCap(t *testing.T) {
	// 1/64小節ごとにBPM変更がある
	chart := bms.Parse("#00003:" + strings.Repeat("78", 64) + "\n")
	e := NewWithOptions(chart, 120, Options{})

	e.Advance(2 * time.Second)
	assert.InDelta(t, float64(MaxRefinementSteps)/64, e.Position(), epsilon)
}

func TestEngine_ChannelOrder(t *testing.T) {
	chart := bms.Parse("#00011:02\n#00001:01\n#00004:05\n")

	fired := New(chart, 120).Advance(2 * time.Second)
	assert.Equal(t, []string{"01", "02"}, keys(fired))

	e := NewWithOptions(chart, 120, Options{
		Channels: []bms.Channel{bms.ChannelBGA, bms.ChannelKey1},
		LeadIn:   DefaultLeadIn,
	})
	fired = e.Advance(2 * time.Second)
	require.Len(t, fired, 2)
	assert.Equal(t, bms.KindImage, fired[0].Kind)
	assert.Equal(t, "05", fired[0].Key)
	assert.Equal(t, "02", fired[1].Key)
}

func TestEngine_PastTheEnd(t *testing.T) {
	chart := bms.Parse("#00111:01\n")
	e := New(chart, 120)

	assert.False(t, e.Finished(chart.BarCount()))
	fired := e.Advance(time.Minute)
	assert.Len(t, fired, 1)
	assert.True(t, e.Finished(chart.BarCount()))

	assert.Empty(t, e.Advance(time.Minute))
}

func TestMergeByTime(t *testing.T) {
	in := []bms.Event{
		{Time: 0.5, Channel: bms.ChannelBackground, Key: "A"},
		{Time: 0.25, Channel: bms.ChannelKey1, Key: "B"},
		{Time: 0.5, Channel: bms.ChannelKey1, Key: "C"},
	}
	assert.Equal(t, []string{"B", "A", "C"}, keys(MergeByTime(in)))
	assert.Equal(t, "A", in[0].Key)
}
