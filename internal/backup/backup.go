// Package backup handles the startup safety net: a timestamped copy of
// the database file and a sqlite integrity check. Failures are logged,
// never fatal.
package backup

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	backupPrefix = "inventory_backup_"
	keepBackups  = 10
)

// Run copies the database file into backupDir with a timestamped name,
// keeping only the most recent backups. A missing database file means a
// first run; nothing to back up.
func Run(dbPath, backupDir string) {
	if _, err := os.Stat(dbPath); err != nil {
		return
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		log.Printf("unable to create backup dir %s: %v", backupDir, err)
		return
	}
	stamp := time.Now().Format("20060102_150405")
	dst := filepath.Join(backupDir, fmt.Sprintf("%s%s.db", backupPrefix, stamp))
	if err := copyFile(dbPath, dst); err != nil {
		log.Printf("backup failed: %v", err)
		return
	}
	log.Printf("backup created: %s", dst)
	prune(backupDir, keepBackups)
}

// IntegrityCheck runs PRAGMA integrity_check and logs the result.
func IntegrityCheck(db *sqlx.DB) {
	var result string
	if err := db.Get(&result, `PRAGMA integrity_check`); err != nil {
		log.Printf("integrity check error: %v", err)
		return
	}
	if result != "ok" {
		log.Printf("CRITICAL: database integrity check failed: %s", result)
		return
	}
	log.Printf("database integrity check: ok")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// prune removes all but the newest keep backups. Timestamped names sort
// chronologically, so lexical order is enough.
func prune(dir string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("unable to prune backups: %v", err)
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			log.Printf("unable to remove old backup %s: %v", name, err)
		}
	}
}
