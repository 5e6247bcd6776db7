package cache

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/penwyp/go-hours-report/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Entry is the persisted form of one parsed input file.
type Entry struct {
	FilePath    string         `json:"filePath"`
	ModTime     int64          `json:"modTime"`
	Size        int64          `json:"size"`
	Fingerprint string         `json:"fingerprint"`
	CachedAt    time.Time      `json:"cachedAt"`
	Records     []model.Record `json:"records"`
}

type CacheResult struct {
	Entry      *Entry
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(filePath string) CacheResult
	Set(filePath string, records []model.Record) error
	Clear() error
	Preload() error
}

// FileCache keeps parsed records in memory and as one JSON file per input
// file under baseDir.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

// cacheKey derives a stable file name from the absolute input path,
// e.g. "/data/hours.xlsx" -> "hours-1a2b3c4d".
func cacheKey(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	name := filepath.Base(abs)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return fmt.Sprintf("%s-%08x", name, crc32.ChecksumIEEE([]byte(abs)))
}

func (c *FileCache) cachePath(key string) string {
	return filepath.Join(c.baseDir, key+".json")
}

func (c *FileCache) Get(filePath string) CacheResult {
	key := cacheKey(filePath)

	c.mu.RLock()
	memEntry, exists := c.memoryCache[key]
	c.mu.RUnlock()

	if exists {
		if ret := validateEntry(memEntry); ret.cached {
			return CacheResult{Entry: memEntry, Found: true, MissReason: MissReasonNone}
		} else {
			c.mu.Lock()
			delete(c.memoryCache, key)
			c.mu.Unlock()
			return CacheResult{MissReason: ret.reason}
		}
	}

	return c.getFromFile(key)
}

func (c *FileCache) getFromFile(key string) CacheResult {
	entry, err := readEntry(c.cachePath(key))
	if os.IsNotExist(err) {
		return CacheResult{MissReason: MissReasonNotFound}
	}
	if err != nil {
		util.LogDebugf("Cache file %s unreadable: %v", key, err)
		return CacheResult{MissReason: MissReasonError}
	}

	if ret := validateEntry(entry); !ret.cached {
		return CacheResult{MissReason: ret.reason}
	}

	c.mu.Lock()
	c.memoryCache[key] = entry
	c.mu.Unlock()

	return CacheResult{Entry: entry, Found: true, MissReason: MissReasonNone}
}

func readEntry(path string) (*Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := sonic.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

type validateResult struct {
	cached bool
	reason CacheMissReason
}

// validateEntry compares the cached file identity with the file on disk.
// Size and mtime are checked first; the fingerprint catches same-size
// rewrites within the same second.
func validateEntry(entry *Entry) validateResult {
	currentInfo, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: %v", entry.FilePath, err)
		return validateResult{cached: false, reason: MissReasonError}
	}

	if currentInfo.Size != entry.Size {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.Size, currentInfo.Size)
		return validateResult{cached: false, reason: MissReasonSize}
	}
	if currentInfo.ModTime != entry.ModTime {
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.FilePath, entry.ModTime, currentInfo.ModTime)
		return validateResult{cached: false, reason: MissReasonModTime}
	}
	if currentInfo.Fingerprint != entry.Fingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.FilePath, entry.Fingerprint, currentInfo.Fingerprint)
		return validateResult{cached: false, reason: MissReasonFingerprint}
	}

	return validateResult{cached: true, reason: MissReasonNone}
}

func (c *FileCache) Set(filePath string, records []model.Record) error {
	fileInfo, err := util.GetFileInfo(filePath)
	if err != nil {
		return err
	}

	entry := &Entry{
		FilePath:    filePath,
		ModTime:     fileInfo.ModTime,
		Size:        fileInfo.Size,
		Fingerprint: fileInfo.Fingerprint,
		CachedAt:    time.Now().UTC(),
		Records:     append([]model.Record(nil), records...),
	}

	raw, err := sonic.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	key := cacheKey(filePath)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(c.cachePath(key), raw, 0644); err != nil {
		return err
	}
	c.memoryCache[key] = entry

	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".json" {
			os.Remove(path)
		}
		return nil
	})
}

func (c *FileCache) Preload() error {
	cacheFiles, err := c.listCacheFiles()
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}

	if len(cacheFiles) == 0 {
		util.LogDebug("Cache directory is empty, skipping preload")
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(cacheFiles) {
		numWorkers = len(cacheFiles)
	}

	util.LogDebugf("Preloading %d cache files with %d workers", len(cacheFiles), numWorkers)

	filesChan := make(chan string, len(cacheFiles))
	resultsChan := make(chan preloadResult, len(cacheFiles))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go preloadWorker(filesChan, resultsChan, &wg)
	}

	for _, file := range cacheFiles {
		filesChan <- file
	}
	close(filesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded, invalid, errs := 0, 0, 0

	for result := range resultsChan {
		switch {
		case result.err != nil:
			errs++
			util.LogWarnf("Failed to preload cache file %s: %v", result.cacheFile, result.err)
		case validateEntry(result.entry).cached:
			c.mu.Lock()
			c.memoryCache[result.key] = result.entry
			c.mu.Unlock()
			loaded++
		default:
			invalid++
		}
	}

	util.LogDebugf("Cache preload complete: %d loaded, %d invalid, %d errors (total %d)",
		loaded, invalid, errs, len(cacheFiles))
	return nil
}

type preloadResult struct {
	cacheFile string
	key       string
	entry     *Entry
	err       error
}

func preloadWorker(filesChan <-chan string, resultsChan chan<- preloadResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for cacheFile := range filesChan {
		result := preloadResult{
			cacheFile: cacheFile,
			key:       strings.TrimSuffix(filepath.Base(cacheFile), ".json"),
		}
		result.entry, result.err = readEntry(cacheFile)
		if result.err == nil && cacheKey(result.entry.FilePath) != result.key {
			result.err = fmt.Errorf("cache file does not belong to %s", result.entry.FilePath)
		}
		resultsChan <- result
	}
}

func (c *FileCache) listCacheFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	memoryCount = len(c.memoryCache)
	c.mu.RUnlock()

	files, _ := c.listCacheFiles()
	return memoryCount, len(files)
}
