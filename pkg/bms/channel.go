package bms

import (
	"fmt"
	"strconv"
)

// Channel は譜面のレーンを表します。値はBMSのチャンネル番号そのものです。
type Channel int

const (
	ChannelBackground Channel = 1 // BGM
	ChannelTempo      Channel = 3 // BPM変更
	ChannelBGA        Channel = 4 // BGA画像
	ChannelKey1       Channel = 11
	ChannelKey2       Channel = 12
	ChannelKey3       Channel = 13
	ChannelKey4       Channel = 14
	ChannelKey5       Channel = 15
	ChannelKey6       Channel = 16
	ChannelKey7       Channel = 17
	ChannelKey8       Channel = 18
	ChannelKey9       Channel = 19
)

var playChannels = []Channel{
	ChannelKey1, ChannelKey2, ChannelKey3, ChannelKey4, ChannelKey5,
	ChannelKey6, ChannelKey7, ChannelKey8, ChannelKey9,
}

// PlayChannels は1P側の演奏レーンを番号順に返します
func PlayChannels() []Channel {
	chs := make([]Channel, len(playChannels))
	copy(chs, playChannels)
	return chs
}

// ParseChannel は2桁のチャンネル番号を解釈します。未対応のチャンネルは false を返します。
func ParseChannel(code string) (Channel, bool) {
	if len(code) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false
	}
	ch := Channel(n)
	if !ch.Valid() {
		return 0, false
	}
	return ch, true
}

// Valid は対応しているチャンネルかどうかを返します
func (c Channel) Valid() bool {
	switch c {
	case ChannelBackground, ChannelTempo, ChannelBGA:
		return true
	}
	return c.IsPlayable()
}

// IsPlayable は演奏レーンかどうかを返します
func (c Channel) IsPlayable() bool {
	return c >= ChannelKey1 && c <= ChannelKey9
}

// Code は2桁のチャンネル番号を返します
func (c Channel) Code() string {
	return fmt.Sprintf("%02d", int(c))
}

func (c Channel) String() string {
	switch c {
	case ChannelBackground:
		return "BGM"
	case ChannelTempo:
		return "BPM"
	case ChannelBGA:
		return "BGA"
	}
	if c.IsPlayable() {
		return fmt.Sprintf("KEY%d", int(c-ChannelKey1)+1)
	}
	return fmt.Sprintf("CH%s", c.Code())
}
