// Package session はアーカイブ、譜面、タイムラインを束ねた再生セッションを提供します
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shiroemons/go-webbms/internal/player/archive"
	playererrors "github.com/shiroemons/go-webbms/internal/player/errors"
	"github.com/shiroemons/go-webbms/internal/player/interfaces"
	"github.com/shiroemons/go-webbms/internal/player/models"
	"github.com/shiroemons/go-webbms/pkg/bms"
	"github.com/shiroemons/go-webbms/pkg/timeline"
	"github.com/shiroemons/go-webbms/pkg/ziparc"
)

// Options はSessionの設定オプション
type Options struct {
	// ArchiveName は表示用のアーカイブ名です
	ArchiveName string
	// Logger が nil の場合はログを出力しません
	Logger interfaces.Logger
	// Engine が nil の場合は1小節のリードインと既定のチャンネルを使います
	Engine *timeline.Options
}

// Fired は1回の Advance で通過したイベントと、解決済みのエントリ名です
type Fired struct {
	Event bms.Event
	Entry string // 未解決の場合は空
}

// Session は1つの譜面の再生状態を保持します。並行呼び出しには対応しません。
type Session struct {
	id          uuid.UUID
	archiveName string
	chartName   string
	archive     *ziparc.Archive
	chart       *bms.Chart
	engine      *timeline.Engine
	sounds      map[string]string
	images      map[string]string
	logger      interfaces.Logger
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Load はアーカイブのバイト列からセッションを作成します。
// chartName が空の場合は譜面ファイルを自動検出します。
func Load(buf []byte, chartName string, opts Options) (*Session, error) {
	a, err := ziparc.Parse(buf)
	if err != nil {
		return nil, playererrors.NewArchiveError(playererrors.OpParse, opts.ArchiveName,
			fmt.Errorf("%w: %w", playererrors.ErrInvalidArchive, err))
	}
	return FromArchive(a, chartName, opts)
}

// FromArchive は解析済みのアーカイブからセッションを作成します
func FromArchive(a *ziparc.Archive, chartName string, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	name, err := archive.SelectChart(a, chartName)
	if err != nil {
		return nil, playererrors.WithArchive(err, opts.ArchiveName)
	}

	data, ok := a.ContentBuffer(name)
	if !ok {
		return nil, playererrors.NewEntryError(playererrors.OpRead, opts.ArchiveName, name, playererrors.ErrChartNotFound)
	}
	chart, err := bms.ParseBytes(data)
	if err != nil {
		return nil, playererrors.NewParseError(opts.ArchiveName, name, fmt.Errorf("%w: %w: %w", playererrors.ErrParseFailure, ErrDecodeChart, err))
	}

	var engine *timeline.Engine
	if opts.Engine != nil {
		engine = timeline.NewWithOptions(chart, chart.InitialBPM(), *opts.Engine)
	} else {
		engine = timeline.New(chart, chart.InitialBPM())
	}

	index := lowerIndex(a.Names())
	s := &Session{
		id:          uuid.New(),
		archiveName: opts.ArchiveName,
		chartName:   name,
		archive:     a,
		chart:       chart,
		engine:      engine,
		sounds:      resolveAll(chart.WAVTable(), index, soundFallback),
		images:      resolveAll(chart.BMPTable(), index, imageFallback),
		logger:      logger,
	}

	logger.Printf("[%s] 譜面 %s を読み込みました（%d 小節, %d ノーツ, 音声 %d/%d, 画像 %d/%d）\n",
		s.id, name, chart.BarCount(), chart.NoteCount(),
		len(s.sounds), len(chart.WAVTable()), len(s.images), len(chart.BMPTable()))
	for _, id := range s.MissingSounds() {
		wav, _ := chart.WAV(id)
		logger.Printf("[%s] 警告: WAV%s %s がアーカイブにありません\n", s.id, id, wav)
	}

	return s, nil
}

// ID はセッションIDを返します
func (s *Session) ID() string {
	return s.id.String()
}

// ChartName は使用している譜面のエントリ名を返します
func (s *Session) ChartName() string {
	return s.chartName
}

// Chart は解析済みの譜面を返します
func (s *Session) Chart() *bms.Chart {
	return s.chart
}

// Archive はアーカイブを返します
func (s *Session) Archive() *ziparc.Archive {
	return s.archive
}

// ResolveSound はWAV IDに対応するアーカイブのエントリ名を返します
func (s *Session) ResolveSound(id string) (string, bool) {
	name, ok := s.sounds[strings.ToUpper(id)]
	return name, ok
}

// ResolveImage はBMP IDに対応するアーカイブのエントリ名を返します
func (s *Session) ResolveImage(id string) (string, bool) {
	name, ok := s.images[strings.ToUpper(id)]
	return name, ok
}

// SoundMap は解決できた全てのWAV IDとエントリ名の対応を返します
func (s *Session) SoundMap() map[string]string {
	return cloneMap(s.sounds)
}

// ImageMap は解決できた全てのBMP IDとエントリ名の対応を返します
func (s *Session) ImageMap() map[string]string {
	return cloneMap(s.images)
}

// MissingSounds は定義されているがアーカイブに見つからないWAV IDを昇順で返します
func (s *Session) MissingSounds() []string {
	var missing []string
	for _, id := range models.SortedKeys(s.chart.WAVTable()) {
		if _, ok := s.sounds[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// SoundData はWAV IDに対応する音声データを返します
func (s *Session) SoundData(id string) ([]byte, bool) {
	name, ok := s.ResolveSound(id)
	if !ok {
		return nil, false
	}
	return s.archive.ContentBuffer(name)
}

// ImageData はBMP IDに対応する画像データを返します
func (s *Session) ImageData(id string) ([]byte, bool) {
	name, ok := s.ResolveImage(id)
	if !ok {
		return nil, false
	}
	return s.archive.ContentBuffer(name)
}

// Advance は経過時間だけタイムラインを進め、通過したイベントを時刻順に返します。
// 同じ時刻のイベントはチャンネル順です。
func (s *Session) Advance(elapsed time.Duration) []Fired {
	events := timeline.MergeByTime(s.engine.Advance(elapsed))
	if len(events) == 0 {
		return nil
	}

	fired := make([]Fired, len(events))
	for i, e := range events {
		fired[i] = Fired{Event: e}
		if e.Kind == bms.KindImage {
			fired[i].Entry = s.images[e.Key]
		} else {
			fired[i].Entry = s.sounds[e.Key]
		}
	}
	return fired
}

// Tick は Advance を行い、表示面に渡す状態を返します
func (s *Session) Tick(elapsed time.Duration) models.TickState {
	fired := s.Advance(elapsed)
	state := s.engine.State()

	tick := models.TickState{
		Position: state.Position,
		BPM:      state.BPM,
		Scale:    state.Scale,
	}
	for _, f := range fired {
		tick.Notes = append(tick.Notes, models.Note{
			Time:    f.Event.Time,
			Channel: f.Event.Channel.String(),
			Key:     f.Event.Key,
			Entry:   f.Entry,
			Image:   f.Event.Kind == bms.KindImage,
		})
	}
	return tick
}

// State は現在のタイムラインの状態を返します
func (s *Session) State() timeline.State {
	return s.engine.State()
}

// Finished は譜面の最後の小節を過ぎたかを返します
func (s *Session) Finished() bool {
	return s.engine.Finished(s.chart.BarCount())
}

// PreloadSounds は解決できた全ての音声を sink に読み込みます。
// 読み込みに失敗したIDがあっても残りの読み込みは続け、最後にまとめてエラーを返します。
func (s *Session) PreloadSounds(sink interfaces.AudioSink) error {
	var failed []string
	for _, id := range models.SortedKeys(s.sounds) {
		data, ok := s.archive.ContentBuffer(s.sounds[id])
		if !ok {
			failed = append(failed, id)
			continue
		}
		if err := sink.Load(id, data); err != nil {
			s.logger.Printf("[%s] WAV%s (%s) の読み込みに失敗しました: %v\n", s.id, id, s.sounds[id], err)
			failed = append(failed, id)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrPreloadSounds, strings.Join(failed, ", "))
	}
	s.logger.Printf("[%s] %d 個の音声を読み込みました\n", s.id, len(s.sounds))
	return nil
}

// Info は譜面の概要を返します
func (s *Session) Info() models.ChartInfo {
	meta := s.chart.Metadata()
	info := models.ChartInfo{
		SessionID: s.ID(),
		Archive:   s.archiveName,
		Chart:     s.chartName,
		Title:     meta.Title,
		Artist:    meta.Artist,
		Genre:     meta.Genre,
		BPM:       s.chart.InitialBPM(),
		PlayLevel: meta.PlayLevel,
		Rank:      meta.Rank,
		Total:     meta.Total,
		StageFile: meta.StageFile,
		Bars:      s.chart.BarCount(),
		Notes:     s.chart.NoteCount(),
		Sounds:    len(s.sounds),
		Images:    len(s.images),
		Missing:   s.MissingSounds(),
		Tempo:     []models.TempoInfo{},
	}
	for _, c := range s.chart.TempoChanges() {
		info.Tempo = append(info.Tempo, models.TempoInfo{Time: c.Time, BPM: c.BPM, Scale: c.Scale})
	}
	return info
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
