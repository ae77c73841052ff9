package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"hl7play/internal/source"
	"hl7play/internal/trace"
)

// listDocuments возвращает отсортированный список файлов с известным расширением
func listDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := ModeForPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// TokenizeDir токенизирует все документы в директории параллельно.
// Ошибки загрузки отдельных файлов попадают в TokenizeResult.Err;
// функция возвращает ошибку только при отмене или ошибке обхода.
func TokenizeDir(ctx context.Context, dir string, jobs int) (*source.FileSet, []TokenizeResult, error) {
	files, err := listDocuments(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен: загружаем заранее, последовательно
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "tokenize", 0)
	defer span.End("")

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]TokenizeResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, bad := loadErrors[path]; bad {
				results[i] = TokenizeResult{Path: path, FileSet: fileSet, Err: loadErr}
				return nil
			}
			mode, _ := ModeForPath(path)
			results[i] = tokenizeLoaded(tracer, fileSet, fileIDs[path], path, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	span.WithExtra("files", fmt.Sprint(len(files)))
	return fileSet, results, nil
}
