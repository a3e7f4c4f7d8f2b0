package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shiroemons/go-webbms/internal/player/fileutil"
	"github.com/shiroemons/go-webbms/internal/player/interfaces"
	"github.com/shiroemons/go-webbms/pkg/ziparc"
)

// 抽出ジョブ
type extractJob struct {
	entry   ziparc.Entry
	outPath string
}

// 抽出結果
type extractResult struct {
	entryName string
	err       error
}

// ExtractResult はExtractFilesの結果です
type ExtractResult struct {
	Extracted []string // 書き出したエントリ名（名前順）
	NotFound  []string // 指定されたがアーカイブに無かった名前
}

// Extractor はアーカイブのエントリを並列にファイルへ書き出します
type Extractor struct {
	fs      interfaces.FileSystem
	logger  interfaces.Logger
	workers int
}

// NewExtractor は新しいExtractorを作成します
func NewExtractor(fs interfaces.FileSystem, logger interfaces.Logger, workers int) *Extractor {
	if workers <= 0 {
		workers = 4
	}
	return &Extractor{fs: fs, logger: logger, workers: workers}
}

// ExtractFiles は targets に一致するエントリを outDir に書き出します。
// targets が空の場合は全エントリを対象にします。名前の一致は大文字小文字を区別しません。
// 最初に発生した書き込みエラーを返しますが、他のエントリの抽出は続行します。
func (e *Extractor) ExtractFiles(ctx context.Context, a *ziparc.Archive, outDir string, targets []string) (ExtractResult, error) {
	var result ExtractResult

	entries, notFound := selectEntries(a, targets)
	result.NotFound = notFound

	if err := e.fs.MkdirAll(outDir, 0755); err != nil {
		return result, fmt.Errorf("%w: %s: %w", fileutil.ErrCreateDirectory, outDir, err)
	}

	jobs := make(chan extractJob, e.workers*2)
	results := make(chan extractResult, e.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- extractResult{entryName: job.entry.Name, err: e.writeEntry(a, job)}
			}
		}()
	}

	// 結果処理用のgoroutine
	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			if r.err != nil {
				e.logger.Printf("抽出に失敗しました: %s - %v\n", r.entryName, r.err)
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: %s: %w", ErrExtractFailed, r.entryName, r.err)
				}
				continue
			}
			result.Extracted = append(result.Extracted, r.entryName)
			e.logger.Printf("成功: %s\n", r.entryName)
		}
	}()

	var ctxErr error
enqueue:
	for _, entry := range entries {
		outPath, err := fileutil.SafeJoin(outDir, entry.Name)
		if err != nil {
			results <- extractResult{entryName: entry.Name, err: err}
			continue
		}
		// ディレクトリのエントリは作成だけ行い、抽出結果には含めない
		if isDirectoryEntry(entry.Name) {
			if err := e.fs.MkdirAll(outPath, 0755); err != nil {
				results <- extractResult{entryName: entry.Name, err: err}
			}
			continue
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break enqueue
		case jobs <- extractJob{entry: entry, outPath: outPath}:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	sort.Strings(result.Extracted)
	if ctxErr != nil {
		return result, ctxErr
	}
	return result, firstErr
}

// writeEntry は1つのエントリを書き出します
func (e *Extractor) writeEntry(a *ziparc.Archive, job extractJob) error {
	data, ok := a.ContentBuffer(job.entry.Name)
	if !ok {
		return ziparc.ErrEntryNotFound
	}
	if dir := filepath.Dir(job.outPath); dir != "." {
		if err := e.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return e.fs.WriteFile(job.outPath, data, 0644)
}

// isDirectoryEntry は名前が / (または \) で終わるディレクトリのエントリかを返します
func isDirectoryEntry(name string) bool {
	return strings.HasSuffix(strings.ReplaceAll(name, "\\", "/"), "/")
}

// selectEntries は抽出対象のエントリと見つからなかった名前を返します
func selectEntries(a *ziparc.Archive, targets []string) ([]ziparc.Entry, []string) {
	if len(targets) == 0 {
		return a.Entries(), nil
	}

	var entries []ziparc.Entry
	var notFound []string
	seen := make(map[string]bool)
	for _, target := range targets {
		entry, ok := a.LookupFold(target)
		if !ok {
			notFound = append(notFound, target)
			continue
		}
		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true
		entries = append(entries, entry)
	}
	return entries, notFound
}
