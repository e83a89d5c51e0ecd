package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/zeebo/xxh3"

	"github.com/codexplain/codexplain/analyzer"
)

// KeyConfig is the non-secret configuration subset that scopes a cache
// record. Explanations are never served across a different mode, level,
// provider, or model. API keys and base URLs never appear here.
type KeyConfig struct {
	Mode     string `json:"mode"`
	Level    string `json:"level"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Record is the persisted unit, one JSON document per cache key.
type Record struct {
	FileHash    string    `json:"fileHash"`
	FileSize    int64     `json:"fileSize"`
	Mtime       int64     `json:"mtime"` // epoch millis
	Explanation string    `json:"explanation"`
	Timestamp   string    `json:"timestamp"` // RFC3339
	Config      KeyConfig `json:"config"`
}

// Cache persists explanations keyed by (path, config) fingerprints.
// It is a pure optimization: every failure degrades to a miss or a
// skipped write, never to a pipeline error. There is no cross-process
// locking; concurrent runs race last-writer-wins on the same key.
type Cache struct {
	dir   string
	mutex sync.Mutex
}

// New creates the cache directory if needed and returns a Cache over it.
func New(dir string) (*Cache, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(cwd, ".codexplain-cache")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key derives the deterministic, non-cryptographic cache key for a path
// and run configuration. Collisions are tolerable: a false hit only risks
// a stale explanation, and the hash/mtime validation on top bounds that.
func Key(path string, cfg KeyConfig) string {
	sum := xxh3.HashString(path + "-" + cfg.Mode + "-" + cfg.Level + "-" + cfg.Provider + "-" + cfg.Model)
	return fmt.Sprintf("%016x", sum)
}

func (c *Cache) recordPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Lookup returns the cached explanation for (path, cfg) if the underlying
// file is unchanged. Validation runs cheapest first:
//
//  1. stored mtime and size both match the current stat → hit, no reads
//  2. size matches but mtime differs → read content once, compare hashes;
//     on match refresh the stored mtime and hit
//  3. anything else → miss
func (c *Cache) Lookup(path string, cfg KeyConfig) (string, bool) {
	key := Key(path, cfg)
	record, err := c.readRecord(key)
	if err != nil {
		if !os.IsNotExist(err) {
			pterm.Debug.Printfln("cache: unreadable record for %s: %v", path, err)
		}
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil {
		pterm.Debug.Printfln("cache: stat failed for %s: %v", path, err)
		return "", false
	}

	mtime := info.ModTime().UnixMilli()
	if record.FileSize == info.Size() && record.Mtime == mtime {
		return record.Explanation, true
	}

	if record.FileSize != info.Size() {
		return "", false
	}

	// Same size, different mtime: the file may have been touched without a
	// content change. One content read decides it.
	content, err := os.ReadFile(path)
	if err != nil {
		pterm.Debug.Printfln("cache: read failed for %s: %v", path, err)
		return "", false
	}
	if analyzer.HashContent(string(content)) != record.FileHash {
		return "", false
	}

	// Refresh the stored mtime so the next lookup takes the fast path.
	record.Mtime = mtime
	if err := c.writeRecord(key, record); err != nil {
		pterm.Warning.Printfln("cache: failed to refresh record for %s: %v", path, err)
	}
	return record.Explanation, true
}

// Store writes a full record for (path, cfg), overwriting any prior record
// for the key. Failures are logged and skipped; the caller never sees them.
func (c *Cache) Store(path string, cfg KeyConfig, explanation string) {
	info, err := os.Stat(path)
	if err != nil {
		pterm.Debug.Printfln("cache: skipping store for %s: %v", path, err)
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		pterm.Warning.Printfln("cache: skipping store for %s: %v", path, err)
		return
	}

	record := &Record{
		FileHash:    analyzer.HashContent(string(content)),
		FileSize:    info.Size(),
		Mtime:       info.ModTime().UnixMilli(),
		Explanation: explanation,
		Timestamp:   time.Now().Format(time.RFC3339),
		Config:      cfg,
	}
	if err := c.writeRecord(Key(path, cfg), record); err != nil {
		pterm.Warning.Printfln("cache: failed to store record for %s: %v", path, err)
	}
}

func (c *Cache) readRecord(key string) (*Record, error) {
	data, err := os.ReadFile(c.recordPath(key))
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("malformed record: %w", err)
	}
	return &record, nil
}

func (c *Cache) writeRecord(key string, record *Record) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return os.WriteFile(c.recordPath(key), data, 0644)
}

// Clear removes every record in the cache directory.
func (c *Cache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to delete cache file: %w", err)
		}
	}
	return nil
}

// Stats reports the record count and total size of the cache directory.
func (c *Cache) Stats() (files int, totalSize int64, err error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files++
		totalSize += info.Size()
	}
	return files, totalSize, nil
}
