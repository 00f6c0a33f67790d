package services

import (
	"os"
	"path/filepath"
	"strings"

	"dirpurge/internal/providers"

	"github.com/spf13/afero"
)

type PurgeServiceInterface interface {
	PurgeFiles(root string, exts []string, patterns []string) error
}

// PurgeService runs one purge pass over a root directory: root-level files
// by extension first, then whole directories by name pattern.
type PurgeService struct {
	fs      afero.Fs
	deleter *Deleter
	tree    *TreePurger
	logger  providers.Logger
}

func NewPurgeService(fs afero.Fs, deleter *Deleter, tree *TreePurger, logger providers.Logger) *PurgeService {
	return &PurgeService{fs: fs, deleter: deleter, tree: tree, logger: logger}
}

// PurgeFiles deletes the files directly under root whose extension is in
// exts, then recursively purges the directories under root whose name
// matches any of patterns. Extension matching never descends into
// subdirectories. The first aborting failure stops the pass and is returned.
func (p *PurgeService) PurgeFiles(root string, exts []string, patterns []string) error {
	for _, ext := range exts {
		matches, err := p.children(root, "*."+escapeGlob(ext))
		if err != nil {
			return err
		}
		p.logger.Debugf(providers.TypePurge, "Extension %q matched %d entries in %s", ext, len(matches), root)

		for _, match := range matches {
			if match.IsDir() {
				continue
			}
			if _, err := p.deleter.PurgeFile(filepath.Join(root, match.Name())); err != nil {
				return err
			}
		}
	}

	for _, pattern := range patterns {
		matches, err := p.children(root, pattern)
		if err != nil {
			return err
		}
		p.logger.Debugf(providers.TypePurge, "Pattern %q matched %d entries in %s", pattern, len(matches), root)

		for _, match := range matches {
			if !match.IsDir() {
				continue
			}
			if err := p.tree.PurgeDir(filepath.Join(root, match.Name())); err != nil {
				return err
			}
		}
	}

	return nil
}

// children lists the entries of root whose name matches pattern, sorted by
// name. The entries describe the names themselves, so a symlink is never
// reported as a directory.
func (p *PurgeService) children(root string, pattern string) ([]os.FileInfo, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, wrap(err, pattern, ReasonInvalidInput)
	}

	entries, err := afero.ReadDir(p.fs, root)
	if err != nil {
		return nil, wrap(err, root, ReasonStat)
	}

	matches := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if ok, _ := filepath.Match(pattern, entry.Name()); ok {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// escapeGlob quotes glob metacharacters so s matches only itself.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
