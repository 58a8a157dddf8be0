// Package scanner walks a project tree and detects which web-platform
// features its scripts and stylesheets use, via per-language regex banks.
// Detection is static and best-effort: it reads text, not syntax trees.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canscope/canscope/internal/utils"
)

// LangClass is the coarse language classification that picks a rule bank.
type LangClass string

const (
	LangScript LangClass = "script"
	LangStyle  LangClass = "style"
)

var extClass = map[string]LangClass{
	".js":   LangScript,
	".jsx":  LangScript,
	".ts":   LangScript,
	".tsx":  LangScript,
	".css":  LangStyle,
	".scss": LangStyle,
	".sass": LangStyle,
	".less": LangStyle,
}

// DefaultExcludeDirs are pruned entirely during traversal.
var DefaultExcludeDirs = []string{"node_modules", ".git", "dist", "build", "vendor", "coverage"}

// Match is one pattern hit inside a file.
type Match struct {
	Pattern string
	Text    string
	Line    int
}

// FileRecord holds the detection outcome for one file.
type FileRecord struct {
	Path     string
	Class    LangClass
	Features []string
	Matches  map[string][]Match
}

// FileHit locates a feature's matches in one file.
type FileHit struct {
	File    string
	Matches []Match
}

// Result is the outcome of a tree scan. Files contains only files with at
// least one detected feature; FeatureIndex is the inverse mapping, each hit
// list in file-encounter order. Built fresh per scan, never persisted.
type Result struct {
	Files        []FileRecord
	FeatureIndex map[string][]FileHit
	FilesScanned int
	FilesMatched int
}

// Features returns the distinct detected feature ids, sorted by first
// encounter across the scan.
func (r *Result) Features() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range r.Files {
		for _, feat := range f.Features {
			if !seen[feat] {
				seen[feat] = true
				out = append(out, feat)
			}
		}
	}
	return out
}

// Options bounds a tree scan. MaxDepth < 0 means unbounded; 0 scans only the
// root directory's own files. Nil ExcludeDirs means DefaultExcludeDirs.
// IncludeFiles names files (by base name) scanned even when their extension
// is not in the supported set.
type Options struct {
	MaxDepth     int
	ExcludeDirs  []string
	IncludeFiles []string
}

// ScanTree scans the directory tree rooted at root. Unreadable entries are
// logged and skipped; they never abort the rest of the traversal.
func ScanTree(root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	excluded := map[string]bool{}
	dirs := opts.ExcludeDirs
	if dirs == nil {
		dirs = DefaultExcludeDirs
	}
	for _, d := range dirs {
		excluded[d] = true
	}
	included := map[string]bool{}
	for _, f := range opts.IncludeFiles {
		included[f] = true
	}

	res := &Result{FeatureIndex: map[string][]FileHit{}}
	scanDir(root, 0, opts.MaxDepth, excluded, included, res)
	res.FilesMatched = len(res.Files)
	return res, nil
}

func scanDir(dir string, depth, maxDepth int, excluded, included map[string]bool, res *Result) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		utils.Log.Warnf("Skipping unreadable directory %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if excluded[entry.Name()] {
				continue
			}
			if maxDepth >= 0 && depth+1 > maxDepth {
				continue
			}
			scanDir(path, depth+1, maxDepth, excluded, included, res)
			continue
		}

		if _, ok := extClass[strings.ToLower(filepath.Ext(entry.Name()))]; !ok && !included[entry.Name()] {
			continue
		}

		rec, err := ScanFile(path)
		if err != nil {
			utils.Log.Warnf("Skipping unreadable file %s: %v", path, err)
			continue
		}
		res.FilesScanned++
		if len(rec.Features) == 0 {
			continue
		}
		res.Files = append(res.Files, *rec)
		for _, feat := range rec.Features {
			res.FeatureIndex[feat] = append(res.FeatureIndex[feat], FileHit{
				File:    path,
				Matches: rec.Matches[feat],
			})
		}
	}
}

// ScanFile runs the extension-appropriate rule bank over one file's content.
func ScanFile(path string) (*FileRecord, error) {
	class, ok := extClass[strings.ToLower(filepath.Ext(path))]
	if !ok {
		// Include-listed files without a known extension get the script bank.
		class = LangScript
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(raw)

	rules := scriptRules
	if class == LangStyle {
		rules = styleRules
	}

	rec := &FileRecord{Path: path, Class: class, Matches: map[string][]Match{}}
	for _, rule := range rules {
		var matches []Match
		for _, pattern := range rule.Patterns {
			loc := pattern.FindStringIndex(content)
			if loc == nil {
				continue
			}
			matches = append(matches, Match{
				Pattern: pattern.String(),
				Text:    content[loc[0]:loc[1]],
				Line:    1 + strings.Count(content[:loc[0]], "\n"),
			})
		}
		if len(matches) > 0 {
			rec.Features = append(rec.Features, rule.Feature)
			rec.Matches[rule.Feature] = matches
		}
	}
	return rec, nil
}
