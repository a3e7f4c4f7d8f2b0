package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shiroemons/go-webbms/internal/player/config"
	"github.com/shiroemons/go-webbms/internal/player/interfaces"
	"github.com/shiroemons/go-webbms/internal/player/models"
)

// Play は譜面を再生します。
// 一定間隔のティックごとに経過時間だけタイムラインを進め、発火した音声を sink に、状態を surface に渡します。
// 譜面の終端か Limit に達すると nil を返し、ctx がキャンセルされた場合は ctx.Err() を返します。
func (a *App) Play(ctx context.Context) error {
	_, sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	if err := sess.PreloadSounds(a.sink); err != nil {
		fmt.Fprintf(a.errOut, "警告: %v\n", err)
	}

	interval := a.config.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	ticker := a.newTicker(interval)
	defer ticker.Stop()

	a.surface.Resume()
	defer a.surface.Pause()

	last := a.now()
	var played time.Duration
	for {
		var now time.Time
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-ticker.C():
			if !ok {
				return nil
			}
			now = t
		}

		elapsed := now.Sub(last)
		last = now
		played += elapsed

		state := sess.Tick(elapsed)
		for _, n := range state.Notes {
			if n.Image {
				continue
			}
			if n.Entry == "" {
				a.logger.Printf("[%s] 警告: WAV%s を再生できません\n", sess.ID(), n.Key)
				continue
			}
			a.sink.Play(n.Key)
		}
		a.surface.Update(state)

		if sess.Finished() {
			a.logger.Printf("[%s] 譜面の終端に達しました（%v）\n", sess.ID(), played)
			return nil
		}
		if a.config.Limit > 0 && played >= a.config.Limit {
			a.logger.Printf("[%s] 再生時間の上限に達しました（%v）\n", sess.ID(), played)
			return nil
		}
	}
}

// timeTicker は time.Ticker を interfaces.Ticker として扱います
type timeTicker struct {
	t *time.Ticker
}

func newTimeTicker(d time.Duration) interfaces.Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

func (t *timeTicker) C() <-chan time.Time {
	return t.t.C
}

func (t *timeTicker) Stop() {
	t.t.Stop()
}

// NullSink は音声を出力しないAudioSinkです
type NullSink struct{}

// Load は何もしません
func (NullSink) Load(id string, data []byte) error { return nil }

// Play は何もしません
func (NullSink) Play(id string) {}

// TextSurface は発火したイベントを1行ずつテキストで表示するSurfaceです
type TextSurface struct {
	w io.Writer
}

// NewTextSurface は新しいTextSurfaceを作成します
func NewTextSurface(w io.Writer) *TextSurface {
	return &TextSurface{w: w}
}

// Resume は再生開始を表示します
func (s *TextSurface) Resume() {
	fmt.Fprintln(s.w, "再生を開始します")
}

// Update はイベントが発火したティックだけを表示します
func (s *TextSurface) Update(state models.TickState) {
	if len(state.Notes) == 0 {
		return
	}

	parts := make([]string, 0, len(state.Notes))
	for _, n := range state.Notes {
		entry := n.Entry
		if entry == "" {
			entry = "-"
		}
		parts = append(parts, fmt.Sprintf("%s:%s(%s)", n.Channel, n.Key, entry))
	}
	fmt.Fprintf(s.w, "%8.3f  BPM %3d  %s\n", state.Position, state.BPM, strings.Join(parts, " "))
}

// Pause は再生停止を表示します
func (s *TextSurface) Pause() {
	fmt.Fprintln(s.w, "再生を停止しました")
}
