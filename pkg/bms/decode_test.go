package bms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "Shift-JIS",
			input: append([]byte("#TITLE "), 0x83, 0x65, 0x83, 0x58, 0x83, 0x67), // テスト
			want:  "#TITLE テスト",
		},
		{
			name:  "UTF-8 BOMあり",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("#TITLE テスト")...),
			want:  "#TITLE テスト",
		},
		{
			name:  "ASCII",
			input: []byte("#BPM 120"),
			want:  "#BPM 120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBytes(t *testing.T) {
	data := append([]byte("#ARTIST "), 0x83, 0x65, 0x83, 0x58, 0x83, 0x67)
	data = append(data, []byte("\r\n#00011:01\r\n")...)

	chart, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "テスト", chart.Metadata().Artist)
	assert.Equal(t, 1, chart.NoteCount())
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		code string
		want Channel
		ok   bool
	}{
		{"01", ChannelBackground, true},
		{"03", ChannelTempo, true},
		{"04", ChannelBGA, true},
		{"11", ChannelKey1, true},
		{"19", ChannelKey9, true},
		{"02", 0, false},
		{"51", 0, false},
		{"1", 0, false},
		{"AB", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseChannel(tt.code)
		assert.Equal(t, tt.ok, ok, "ParseChannel(%q)", tt.code)
		assert.Equal(t, tt.want, got, "ParseChannel(%q)", tt.code)
	}
}

func TestChannel_String(t *testing.T) {
	assert.Equal(t, "BGM", ChannelBackground.String())
	assert.Equal(t, "KEY1", ChannelKey1.String())
	assert.Equal(t, "KEY9", ChannelKey9.String())
	assert.Equal(t, "CH51", Channel(51).String())
	assert.Equal(t, "04", ChannelBGA.Code())
	assert.Len(t, PlayChannels(), 9)
}
