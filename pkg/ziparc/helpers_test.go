package ziparc

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"
)

type testFile struct {
	name    string
	data    []byte
	comment string
}

// buildArchive は無圧縮エントリだけを持つZIPを作成します
func buildArchive(t *testing.T, files []testFile, archiveComment string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.name,
			Method:   zip.Store,
			Comment:  f.comment,
			Modified: time.Date(2016, 4, 1, 12, 0, 0, 0, time.UTC), // 拡張フィールドが付与される
		}
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("CreateHeader(%s) failed: %v", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			t.Fatalf("Write(%s) failed: %v", f.name, err)
		}
	}
	if archiveComment != "" {
		if err := w.SetComment(archiveComment); err != nil {
			t.Fatalf("SetComment failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return buf.Bytes()
}
