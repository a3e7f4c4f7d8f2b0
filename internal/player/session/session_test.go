package session

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	playererrors "github.com/shiroemons/go-webbms/internal/player/errors"
	"github.com/shiroemons/go-webbms/internal/player/mocks"
	"github.com/shiroemons/go-webbms/pkg/bms"
	"github.com/shiroemons/go-webbms/pkg/timeline"
)

func loadSample(t *testing.T, files []mocks.ArchiveFile, opts Options) *Session {
	t.Helper()
	buf, err := mocks.BuildArchive(files)
	if err != nil {
		t.Fatalf("BuildArchive failed: %v", err)
	}
	s, err := Load(buf, "", opts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func TestLoad(t *testing.T) {
	logger := &mocks.MockLogger{}
	s := loadSample(t, mocks.SampleFiles(), Options{ArchiveName: "sample.zip", Logger: logger})

	if _, err := uuid.Parse(s.ID()); err != nil {
		t.Errorf("ID() is not a UUID: %v", err)
	}
	if s.ChartName() != "sample.bms" {
		t.Errorf("ChartName() = %s", s.ChartName())
	}
	if got := s.Chart().Metadata().Title; got != "Sample" {
		t.Errorf("Title = %s", got)
	}
	if st := s.State(); st.Position != -1 || st.BPM != 120 || st.Scale != 1 {
		t.Errorf("unexpected initial state: %+v", st)
	}

	// WAVZZ の警告が出力される
	found := false
	for _, msg := range logger.Messages {
		if strings.Contains(msg, "WAVZZ missing.wav") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a warning for WAVZZ, got %v", logger.Messages)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		buf       func(t *testing.T) []byte
		chart     string
		wantError error
	}{
		{
			name:      "ZIPではない",
			buf:       func(t *testing.T) []byte { return []byte("plain text") },
			wantError: playererrors.ErrInvalidArchive,
		},
		{
			name: "指定した譜面が無い",
			buf: func(t *testing.T) []byte {
				b, err := mocks.BuildArchive(mocks.SampleFiles())
				if err != nil {
					t.Fatal(err)
				}
				return b
			},
			chart:     "another.bme",
			wantError: playererrors.ErrChartNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.buf(t), tt.chart, Options{})
			if !errors.Is(err, tt.wantError) {
				t.Errorf("Expected error %v, got %v", tt.wantError, err)
			}
		})
	}
}

func TestLoad_ErrorLocation(t *testing.T) {
	buf, err := mocks.BuildArchive(mocks.SampleFiles())
	if err != nil {
		t.Fatalf("BuildArchive failed: %v", err)
	}

	_, err = Load(buf, "another.bme", Options{ArchiveName: "sample.zip"})

	var loadErr *playererrors.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected LoadError, got %v", err)
	}
	if loadErr.Archive != "sample.zip" || loadErr.Entry != "another.bme" {
		t.Errorf("Archive/Entry = %q/%q", loadErr.Archive, loadErr.Entry)
	}
	if !strings.Contains(err.Error(), "sample.zip:another.bme") {
		t.Errorf("error does not name the archive and entry: %v", err)
	}
}

func TestSession_Resolve(t *testing.T) {
	s := loadSample(t, mocks.SampleFiles(), Options{})

	tests := []struct {
		name   string
		image  bool
		id     string
		want   string
		wantOK bool
	}{
		{name: "そのまま一致", id: "01", want: "kick.wav", wantOK: true},
		{name: "大文字小文字を無視", id: "02", want: "snare.wav", wantOK: true},
		{name: "oggで代替", id: "03", want: "hat.ogg", wantOK: true},
		{name: "アーカイブに無いWAV", id: "zz", wantOK: false},
		{name: "未定義のID", id: "AA", wantOK: false},
		{name: "bmpをpngで代替", image: true, id: "01", want: "bg.png", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var ok bool
			if tt.image {
				got, ok = s.ResolveImage(tt.id)
			} else {
				got, ok = s.ResolveSound(tt.id)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("resolve(%s) = (%s, %v), want (%s, %v)", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	want := map[string]string{"01": "kick.wav", "02": "snare.wav", "03": "hat.ogg"}
	if got := s.SoundMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("SoundMap() = %v, want %v", got, want)
	}
	if got := s.MissingSounds(); !reflect.DeepEqual(got, []string{"ZZ"}) {
		t.Errorf("MissingSounds() = %v", got)
	}

	data, ok := s.SoundData("03")
	if !ok || string(data) != "OggShat" {
		t.Errorf("SoundData(03) = %q, %v", data, ok)
	}
	if _, ok := s.ImageData("02"); ok {
		t.Error("ImageData(02) should not resolve")
	}
}

func TestResolve_Fallback(t *testing.T) {
	index := lowerIndex([]string{"snd/Kick.OGG", "voice.ogg", "bg.jpg", "Dup.wav", "dup.WAV"})

	tests := []struct {
		ref      string
		fallback fallbackFunc
		want     string
		wantOK   bool
	}{
		{`snd\kick.wav`, soundFallback, "snd/Kick.OGG", true},
		{"voice", soundFallback, "voice.ogg", true},
		{"dup.wav", soundFallback, "dup.WAV", true},
		{"bg.bmp", imageFallback, "bg.jpg", true},
		{"bg.png", imageFallback, "", false},
		{"none.wav", soundFallback, "", false},
	}

	for _, tt := range tests {
		got, ok := resolve(tt.ref, index, tt.fallback)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("resolve(%s) = (%s, %v), want (%s, %v)", tt.ref, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSession_ResolveShiftJISNames(t *testing.T) {
	// 「音.wav」「背景.bmp」を Shift_JIS で書いた譜面とエントリ名
	sound := "\x89\xb9.wav"
	image := "\x94w\x8ci.bmp"
	chart := "#BPM 120\r\n#WAV01 " + sound + "\r\n#BMP01 " + image + "\r\n#00011:01\r\n"

	s := loadSample(t, []mocks.ArchiveFile{
		{Name: "a.bms", Data: []byte(chart)},
		{Name: sound, Data: []byte("RIFFoto")},
		{Name: image, Data: []byte("BMhaikei")},
	}, Options{})

	data, ok := s.SoundData("01")
	if !ok || string(data) != "RIFFoto" {
		t.Errorf("SoundData(01) = %q, %v", data, ok)
	}
	data, ok = s.ImageData("01")
	if !ok || string(data) != "BMhaikei" {
		t.Errorf("ImageData(01) = %q, %v", data, ok)
	}
	if missing := s.MissingSounds(); len(missing) != 0 {
		t.Errorf("MissingSounds() = %v", missing)
	}
}

func TestSession_Advance(t *testing.T) {
	s := loadSample(t, mocks.SampleFiles(), Options{})

	// リードインの1小節（120BPMで2秒）
	fired := s.Advance(2 * time.Second)
	if len(fired) != 2 {
		t.Fatalf("Expected 2 events at bar 0, got %+v", fired)
	}
	if fired[0].Event.Channel != bms.ChannelBackground || fired[0].Entry != "kick.wav" {
		t.Errorf("unexpected first event: %+v", fired[0])
	}
	if fired[1].Event.Channel != bms.ChannelKey1 || fired[1].Entry != "snare.wav" {
		t.Errorf("unexpected second event: %+v", fired[1])
	}

	// BGAは既定のチャンネルに含まれない
	for _, f := range fired {
		if f.Event.Kind == bms.KindImage {
			t.Errorf("image event should not fire by default: %+v", f)
		}
	}

	tick := s.Tick(time.Second)
	if len(tick.Notes) != 1 || tick.Notes[0].Key != "02" || tick.Notes[0].Channel != "KEY1" {
		t.Errorf("unexpected tick notes: %+v", tick.Notes)
	}
	if tick.Position != 0.5 {
		t.Errorf("Position = %v, want 0.5", tick.Position)
	}

	// 1小節目の頭でBPMが240に変わり、未解決のZZが発火する
	fired = s.Advance(time.Second)
	if len(fired) != 1 || fired[0].Event.Key != "ZZ" || fired[0].Entry != "" {
		t.Errorf("unexpected events: %+v", fired)
	}
	if s.State().BPM != 240 {
		t.Errorf("BPM = %d, want 240", s.State().BPM)
	}

	if s.Finished() {
		t.Error("Finished() should be false inside the chart")
	}
	s.Advance(time.Second)
	if !s.Finished() {
		t.Error("Finished() should be true after the last bar")
	}
}

func TestSession_EngineOptions(t *testing.T) {
	s := loadSample(t, mocks.SampleFiles(), Options{
		Engine: &timeline.Options{Channels: []bms.Channel{bms.ChannelBGA}, LeadIn: timeline.DefaultLeadIn},
	})

	fired := s.Advance(2 * time.Second)
	if len(fired) != 1 || fired[0].Event.Kind != bms.KindImage || fired[0].Entry != "bg.png" {
		t.Errorf("unexpected events: %+v", fired)
	}
}

func TestSession_PreloadSounds(t *testing.T) {
	s := loadSample(t, mocks.SampleFiles(), Options{})

	sink := mocks.NewMockAudioSink()
	if err := s.PreloadSounds(sink); err != nil {
		t.Fatalf("PreloadSounds failed: %v", err)
	}
	if len(sink.Loaded) != 3 || string(sink.Loaded["01"]) != "RIFFkick" {
		t.Errorf("unexpected loaded sounds: %v", sink.Loaded)
	}

	failing := mocks.NewMockAudioSink()
	failing.LoadError = errors.New("decode failed")
	err := s.PreloadSounds(failing)
	if !errors.Is(err, ErrPreloadSounds) {
		t.Fatalf("Expected ErrPreloadSounds, got %v", err)
	}
	if !strings.Contains(err.Error(), "01, 02, 03") {
		t.Errorf("error should list failed IDs: %v", err)
	}
}

func TestSession_Info(t *testing.T) {
	s := loadSample(t, mocks.SampleFiles(), Options{ArchiveName: "sample.zip"})

	info := s.Info()
	if info.Archive != "sample.zip" || info.Chart != "sample.bms" || info.SessionID != s.ID() {
		t.Errorf("unexpected identity: %+v", info)
	}
	if info.Bars != 2 || info.Notes != 3 || info.Sounds != 3 || info.Images != 1 {
		t.Errorf("unexpected counts: %+v", info)
	}
	if len(info.Tempo) != 1 || info.Tempo[0].BPM != 240 || info.Tempo[0].Time != 1 {
		t.Errorf("unexpected tempo: %+v", info.Tempo)
	}
	if !reflect.DeepEqual(info.Missing, []string{"ZZ"}) {
		t.Errorf("Missing = %v", info.Missing)
	}
}
