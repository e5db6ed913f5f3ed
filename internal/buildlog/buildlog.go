// Package buildlog records a local history of compilations: source
// path, content hash, output path, function count, exported symbols,
// and duration. It is developer tooling around the compiler, not part
// of the compilation pipeline itself — a logging failure is never
// fatal to a build.
package buildlog

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one row of the build ledger.
type Entry struct {
	ID           uint `gorm:"primaryKey"`
	SourcePath   string
	SourceHash   string
	OutputPath   string
	FunctionCount int
	Symbols      string // comma-joined exported function names
	DurationMS   int64
	CreatedAt    time.Time
}

// Log opens (creating if needed) the SQLite build ledger at path and
// returns a handle. Pass "" to use the default location.
func Log(path string) (*gorm.DB, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// DefaultPath returns ~/.cache/curlc/builds.db, or the path named by
// CURLC_BUILD_LOG if set.
func DefaultPath() (string, error) {
	if p := os.Getenv("CURLC_BUILD_LOG"); p != "" {
		return p, nil
	}
	home, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "curlc", "builds.db"), nil
}

// Record appends one ledger entry.
func Record(db *gorm.DB, sourcePath, outputPath string, funcCount int, symbols []string, duration time.Duration) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)

	entry := Entry{
		SourcePath:    sourcePath,
		SourceHash:    hex.EncodeToString(sum[:]),
		OutputPath:    outputPath,
		FunctionCount: funcCount,
		Symbols:       strings.Join(symbols, ","),
		DurationMS:    duration.Milliseconds(),
		CreatedAt:     time.Now(),
	}
	return db.Create(&entry).Error
}

// Recent returns the n most recent ledger entries, newest first.
func Recent(db *gorm.DB, n int) ([]Entry, error) {
	var entries []Entry
	err := db.Order("id desc").Limit(n).Find(&entries).Error
	return entries, err
}
