// --- START OF FINAL REVISED FILE pkg/converter/cache/cache.go ---
// Package cache records which Oryx source archives have already been
// converted, so an unchanged download is not converted, compiled and flashed
// twice. Only archive digests are stored, never classification decisions.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// --- Constants ---

// CacheFileName is the standard name for the archive index file.
const CacheFileName = ".keymapconverter.cache"

// CacheSchemaVersion represents the current version of the cache file structure.
// Increment this if the CacheEntry struct or serialization format changes incompatibly.
const CacheSchemaVersion = "1.1"

const (
	// DefaultCacheFormat specifies the default serialization format.
	DefaultCacheFormat = "gob"
	// CacheFormatGob represents the gob serialization format.
	CacheFormatGob = "gob"
	// CacheFormatJSON represents the JSON serialization format.
	CacheFormatJSON = "json"
)

// --- Error Variables ---

// ErrCacheLoad indicates an error occurred while opening the index file.
// Decode failures and version mismatches are treated as an empty index instead.
var ErrCacheLoad = errors.New("failed to load cache index")

// ErrCachePersist indicates an error occurred while persisting the index file.
var ErrCachePersist = errors.New("failed to persist cache index")

// --- Data Structures ---

// RunSettings is the work a conversion was asked to do. A stored archive only
// counts as converted for the same settings.
type RunSettings struct {
	ExportDir    string   `json:"exportDir" gob:"exportDir"`       // absolute export directory
	Strict       bool     `json:"strict" gob:"strict"`             // strict macro policy
	Steps        []string `json:"steps" gob:"steps"`               // optional steps that were enabled, in pipeline order
	TemplatePath string   `json:"templatePath" gob:"templatePath"` // custom catalog template, empty for the built-in one
}

// Equal reports whether s and o request the same work.
func (s RunSettings) Equal(o RunSettings) bool {
	return s.ExportDir == o.ExportDir && s.Strict == o.Strict &&
		s.TemplatePath == o.TemplatePath && slices.Equal(s.Steps, o.Steps)
}

// CacheEntry is the stored state of one converted archive.
type CacheEntry struct {
	ArchiveHash      string      `json:"archiveHash" gob:"archiveHash"`           // SHA-256 of the archive
	ProcessedAt      time.Time   `json:"processedAt" gob:"processedAt"`           // when the conversion finished
	Settings         RunSettings `json:"settings" gob:"settings"`                 // what the conversion was asked to do
	Matched          int         `json:"matched" gob:"matched"`                   // macro slots replaced by catalog entries
	Literal          int         `json:"literal" gob:"literal"`                   // macro slots kept literal
	SchemaVersion    string      `json:"schemaVersion" gob:"schemaVersion"`       // must match CacheSchemaVersion
	ConverterVersion string      `json:"converterVersion" gob:"converterVersion"` // version of the tool that created this entry
}

// CacheFileHeader contains metadata about the cache file itself.
type CacheFileHeader struct {
	SchemaVersion    string `json:"schemaVersion" gob:"schemaVersion"`
	ConverterVersion string `json:"converterVersion" gob:"converterVersion"`
}

type jsonCacheFile struct {
	Header CacheFileHeader       `json:"header"`
	Index  map[string]CacheEntry `json:"index"`
}

// --- Interfaces ---

// CacheManager loads, queries, updates and persists the archive index.
//
// Stability: Public Stable API - Implementations can be provided externally.
// Check and Update must be safe for concurrent use.
type CacheManager interface {
	// Load reads the index at cachePath. A missing, corrupt or version
	// mismatched file yields an empty index and a nil error; only I/O errors
	// opening an existing file are returned (wrapping ErrCacheLoad).
	Load(cachePath string) error

	// Check reports whether archiveName was already converted with the same
	// content hash and the same settings, returning the stored entry on a hit.
	Check(archiveName string, archiveHash string, settings RunSettings) (isHit bool, entry CacheEntry)

	// Update records a converted archive in memory.
	Update(archiveName string, entry CacheEntry) error

	// Persist writes the index atomically (temp file then rename). Errors wrap
	// ErrCachePersist.
	Persist(cachePath string) error
}

// --- FileCacheManager Implementation ---

// fileCacheManager implements the CacheManager interface using a local file.
type fileCacheManager struct {
	index            map[string]CacheEntry // archive base name -> entry
	mu               sync.RWMutex
	logger           *slog.Logger
	schemaVersion    string
	converterVersion string
	format           string // "gob" or "json"
}

// NewFileCacheManager creates a new file-based cache manager. cacheFormat is
// "gob" (default) or "json".
func NewFileCacheManager(loggerHandler slog.Handler, converterVersion string, cacheFormat string) CacheManager { // minimal comment
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	format := strings.ToLower(cacheFormat)
	if format != CacheFormatJSON && format != CacheFormatGob {
		format = DefaultCacheFormat
	}
	logger := slog.New(loggerHandler).With(
		slog.String("component", "cacheManager"),
		slog.String("format", format),
	)
	if converterVersion == "" {
		converterVersion = "dev"
	}
	return &fileCacheManager{
		index:            make(map[string]CacheEntry),
		logger:           logger,
		schemaVersion:    CacheSchemaVersion,
		converterVersion: converterVersion,
		format:           format,
	}
}

// versionsCompatible treats "dev" on either side as compatible.
func (c *fileCacheManager) versionsCompatible(other string) bool {
	return c.converterVersion == "dev" || other == "dev" || other == c.converterVersion
}

// Load implements the CacheManager interface.
func (c *fileCacheManager) Load(cachePath string) error { // minimal comment
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]CacheEntry)

	file, err := os.Open(cachePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Info("Cache file not found, initializing empty cache index.", "path", cachePath)
			return nil
		}
		c.logger.Error("Critical cache load error", "path", cachePath, "error", err.Error())
		return fmt.Errorf("%w: failed to open cache file '%s': %w", ErrCacheLoad, cachePath, err)
	}
	defer file.Close()

	var header CacheFileHeader
	var loaded map[string]CacheEntry
	var decodeErr error
	if c.format == CacheFormatJSON {
		var data jsonCacheFile
		if decodeErr = json.NewDecoder(file).Decode(&data); decodeErr == nil {
			header, loaded = data.Header, data.Index
		}
	} else {
		decoder := gob.NewDecoder(file)
		if decodeErr = decoder.Decode(&header); decodeErr == nil {
			decodeErr = decoder.Decode(&loaded)
		}
	}
	if decodeErr != nil {
		c.logger.Warn("Failed to decode cache file (corrupted or wrong format?), treating as empty.",
			"path", cachePath, "error", decodeErr.Error())
		return nil
	}
	if header.SchemaVersion != c.schemaVersion || !c.versionsCompatible(header.ConverterVersion) {
		c.logger.Warn("Cache file version mismatch, invalidating cache.",
			"path", cachePath, "file_schema", header.SchemaVersion, "file_converter", header.ConverterVersion)
		return nil
	}
	if loaded != nil {
		c.index = loaded
	}
	c.logger.Info("Cache loaded successfully from file.", "path", cachePath, "entries_loaded", len(c.index))
	return nil
}

// Check implements the CacheManager interface.
func (c *fileCacheManager) Check(archiveName string, archiveHash string, settings RunSettings) (bool, CacheEntry) { // minimal comment
	c.mu.RLock()
	entry, found := c.index[archiveName]
	c.mu.RUnlock()

	logArgs := []any{slog.String("archive", archiveName), slog.String("hash", archiveHash)}
	switch {
	case !found:
		c.logger.Debug("Cache check: Miss (entry not found)", logArgs...)
		return false, CacheEntry{}
	case entry.SchemaVersion != c.schemaVersion || !c.versionsCompatible(entry.ConverterVersion):
		c.logger.Debug("Cache check: Miss (version mismatch in entry)", logArgs...)
		return false, CacheEntry{}
	case entry.ArchiveHash != archiveHash:
		c.logger.Debug("Cache check: Miss (hash mismatch)", append(logArgs, slog.String("entry_hash", entry.ArchiveHash))...)
		return false, CacheEntry{}
	case !entry.Settings.Equal(settings):
		c.logger.Debug("Cache check: Miss (settings changed)", append(logArgs,
			slog.String("entry_export_dir", entry.Settings.ExportDir), slog.Any("entry_steps", entry.Settings.Steps))...)
		return false, CacheEntry{}
	}
	c.logger.Debug("Cache check: Hit", logArgs...)
	return true, entry
}

// Update implements the CacheManager interface.
func (c *fileCacheManager) Update(archiveName string, entry CacheEntry) error { // minimal comment
	if archiveName == "" || entry.ArchiveHash == "" {
		return fmt.Errorf("cache update requires an archive name and hash")
	}
	entry.SchemaVersion = c.schemaVersion
	entry.ConverterVersion = c.converterVersion

	c.mu.Lock()
	c.index[archiveName] = entry
	c.mu.Unlock()

	c.logger.Debug("Cache index updated in memory", slog.String("archive", archiveName))
	return nil
}

// Persist implements the CacheManager interface.
func (c *fileCacheManager) Persist(cachePath string) error { // minimal comment
	c.mu.RLock()
	indexCopy := make(map[string]CacheEntry, len(c.index))
	for k, v := range c.index {
		indexCopy[k] = v
	}
	c.mu.RUnlock()

	cacheDir := filepath.Dir(cachePath)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("%w: failed to ensure cache directory exists '%s': %w", ErrCachePersist, cacheDir, err)
	}
	tempFile, err := os.CreateTemp(cacheDir, filepath.Base(cachePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary cache file in '%s': %w", ErrCachePersist, cacheDir, err)
	}
	tempFilePath := tempFile.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tempFile.Close()
		}
		if _, statErr := os.Stat(tempFilePath); statErr == nil {
			_ = os.Remove(tempFilePath)
		}
	}()

	header := CacheFileHeader{SchemaVersion: c.schemaVersion, ConverterVersion: c.converterVersion}
	var encodeErr error
	if c.format == CacheFormatJSON {
		encoder := json.NewEncoder(tempFile)
		encoder.SetIndent("", "  ")
		encodeErr = encoder.Encode(jsonCacheFile{Header: header, Index: indexCopy})
	} else {
		encoder := gob.NewEncoder(tempFile)
		if encodeErr = encoder.Encode(header); encodeErr == nil {
			encodeErr = encoder.Encode(indexCopy)
		}
	}
	if encodeErr != nil {
		c.logger.Error("Cache persist encoding error", "path", cachePath, "error", encodeErr.Error())
		return fmt.Errorf("%w: failed to encode cache (%s): %w", ErrCachePersist, c.format, encodeErr)
	}

	closed = true
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temporary cache file '%s': %w", ErrCachePersist, tempFilePath, err)
	}
	if err := os.Rename(tempFilePath, cachePath); err != nil {
		c.logger.Error("Cache persist atomic rename error", "path", cachePath, "error", err.Error())
		return fmt.Errorf("%w: failed to rename '%s' to '%s': %w", ErrCachePersist, tempFilePath, cachePath, err)
	}

	c.logger.Info("Cache persisted successfully to file.", "path", cachePath, "entries_saved", len(indexCopy))
	return nil
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// --- END OF FINAL REVISED FILE pkg/converter/cache/cache.go ---
