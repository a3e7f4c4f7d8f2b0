// Package models はwebbmsコマンドで使用するデータモデルを定義します
package models

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EntryInfo はアーカイブ内のエントリ情報を表します
type EntryInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// TempoInfo はBPM変更の表示用情報です
type TempoInfo struct {
	Time  float64 `json:"time"`
	BPM   int     `json:"bpm,omitempty"`
	Scale float64 `json:"scale,omitempty"`
}

// ChartInfo は譜面の概要を表します
type ChartInfo struct {
	SessionID string      `json:"session_id"`
	Archive   string      `json:"archive"`
	Chart     string      `json:"chart"`
	Title     string      `json:"title"`
	Artist    string      `json:"artist"`
	Genre     string      `json:"genre"`
	BPM       int         `json:"bpm"`
	PlayLevel int         `json:"play_level"`
	Rank      int         `json:"rank"`
	Total     int         `json:"total"`
	StageFile string      `json:"stage_file,omitempty"`
	Bars      int         `json:"bars"`
	Notes     int         `json:"notes"`
	Sounds    int         `json:"sounds"`
	Images    int         `json:"images"`
	Missing   []string    `json:"missing,omitempty"` // 解決できなかったWAV ID
	Tempo     []TempoInfo `json:"tempo"`
}

// Note は1ティックで発火したイベントです
type Note struct {
	Time    float64 `json:"time"`
	Channel string  `json:"channel"`
	Key     string  `json:"key"`
	Entry   string  `json:"entry,omitempty"` // 空の場合はリソース未解決
	Image   bool    `json:"image,omitempty"`
}

// TickState は再生ループが各ティックで表示面に渡す状態です
type TickState struct {
	Position float64
	BPM      int
	Scale    float64
	Notes    []Note
}

// SortedKeys はマップのキーを昇順で返します
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
