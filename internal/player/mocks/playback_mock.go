package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/shiroemons/go-webbms/internal/player/models"
)

// MockArchiveFinder はArchiveFinderのモック実装です
type MockArchiveFinder struct {
	FoundFile string
	Error     error
}

// Find はモック実装です
func (m *MockArchiveFinder) Find() (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	return m.FoundFile, nil
}

// MockAudioSink はAudioSinkのモック実装です。読み込みと発音を記録します。
type MockAudioSink struct {
	mu sync.Mutex

	Loaded    map[string][]byte
	Played    []string
	LoadError error
}

// NewMockAudioSink は新しいMockAudioSinkを作成します
func NewMockAudioSink() *MockAudioSink {
	return &MockAudioSink{Loaded: make(map[string][]byte)}
}

// Load はモック実装です
func (m *MockAudioSink) Load(id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return m.LoadError
	}
	m.Loaded[id] = data
	return nil
}

// Play はモック実装です
func (m *MockAudioSink) Play(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Played = append(m.Played, id)
}

// MockSurface はSurfaceのモック実装です
type MockSurface struct {
	Resumed int
	Paused  int
	States  []models.TickState
}

// Resume はモック実装です
func (m *MockSurface) Resume() {
	m.Resumed++
}

// Update はモック実装です
func (m *MockSurface) Update(state models.TickState) {
	m.States = append(m.States, state)
}

// Pause はモック実装です
func (m *MockSurface) Pause() {
	m.Paused++
}

// MockLogger はLoggerのモック実装です
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
}

// Printf はモック実装です
func (m *MockLogger) Printf(format string, a ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, fmt.Sprintf(format, a...))
}

// MockTicker はTickerのモック実装です。Ch に送った時刻がそのまま届きます。
type MockTicker struct {
	Ch      chan time.Time
	Stopped bool
}

// NewMockTicker は base から step 間隔の時刻を n 個送ってから閉じるMockTickerを作成します
func NewMockTicker(base time.Time, step time.Duration, n int) *MockTicker {
	ch := make(chan time.Time, n)
	for i := 1; i <= n; i++ {
		ch <- base.Add(time.Duration(i) * step)
	}
	close(ch)
	return &MockTicker{Ch: ch}
}

// C はモック実装です
func (m *MockTicker) C() <-chan time.Time {
	return m.Ch
}

// Stop はモック実装です
func (m *MockTicker) Stop() {
	m.Stopped = true
}
