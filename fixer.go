package epublang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Resolution describes how a book's language was decided.
type Resolution struct {
	// Declared is the first dc:language of the packaging document.
	Declared string `json:"declared"`

	// Candidate is the best-match tag before normalization.
	Candidate string `json:"candidate"`

	// Language is the tag to write into the packaging document.
	Language string `json:"language"`

	// Substituted reports whether NormalizeLanguage rewrote Candidate.
	Substituted bool `json:"substituted"`

	// Changed reports whether Language differs from Declared (ignoring case).
	Changed bool `json:"changed"`
}

// Fixer decides and applies the language tag of a book prepared for Kindle
// conversion. The zero value logs nothing and keeps the declared tag family
// without surveying content documents; use NewFixer for the usual defaults.
type Fixer struct {
	// Logger receives the substitution and change records. Nil discards them.
	Logger *slog.Logger

	// FixLanguageSuffix enables replacing the declared tag with the dominant
	// content-document tag of the same base language.
	FixLanguageSuffix bool
}

// NewFixer returns a Fixer with content surveying enabled.
func NewFixer(logger *slog.Logger) *Fixer {
	return &Fixer{Logger: logger, FixLanguageSuffix: true}
}

var discardLogger = slog.New(slog.DiscardHandler)

func (f *Fixer) logger() *slog.Logger {
	if f == nil || f.Logger == nil {
		return discardLogger
	}
	return f.Logger
}

// Resolve chooses the language for a book declaring declared whose content
// documents declare counts. The best-match candidate passes through
// NormalizeLanguage; each substitution and the overall change are logged
// once, in that order.
func (f *Fixer) Resolve(declared string, counts LanguageCounts) Resolution {
	log := f.logger()
	res := Resolution{Declared: strings.TrimSpace(declared)}

	res.Candidate = SelectLanguage(res.Declared, counts, f != nil && f.FixLanguageSuffix)
	res.Language = NormalizeLanguage(res.Candidate)

	if res.Language != res.Candidate {
		res.Substituted = true
		log.Info(fmt.Sprintf("Changed language from %q to %q for Kindle traditional Chinese typography", res.Candidate, res.Language),
			"from", res.Candidate,
			"to", res.Language,
		)
	}

	if res.Language != "" && !strings.EqualFold(res.Language, res.Declared) {
		res.Changed = true
		log.Info(fmt.Sprintf("Changed EPUB language from '%s' to '%s'", res.Declared, res.Language),
			"from", res.Declared,
			"to", res.Language,
		)
	}
	return res
}

// ResolveBook surveys book and resolves its language.
func (f *Fixer) ResolveBook(book *Book) Resolution {
	var counts LanguageCounts
	if f != nil && f.FixLanguageSuffix {
		counts = book.ContentLanguages()
	}
	return f.Resolve(book.Metadata().PrimaryLanguage(), counts)
}

// FixBook resolves the language of book and writes the fixed copy to w.
// The book is copied even when its language is already correct; in that
// case the packaging document is left byte-identical.
func (f *Fixer) FixBook(book *Book, w io.Writer) (Resolution, error) {
	res := f.ResolveBook(book)
	for _, warning := range book.Warnings() {
		f.logger().Warn("epub warning", "warning", warning)
	}
	lang := ""
	if res.Changed {
		lang = res.Language
	}
	if err := book.WriteWithLanguage(w, lang); err != nil {
		return res, err
	}
	return res, nil
}

// FixFile opens the ePub at in, fixes its language and writes the result to
// out. The output is assembled in a temporary file next to out and renamed
// into place, so a failed run never leaves a partial book behind.
// ctx is checked before the output is committed.
func (f *Fixer) FixFile(ctx context.Context, in, out string) (Resolution, error) {
	if same, err := samePath(in, out); err != nil {
		return Resolution{}, err
	} else if same {
		return Resolution{}, ErrSameFile
	}

	book, err := Open(in)
	if err != nil {
		return Resolution{}, err
	}
	defer book.Close()

	dir := filepath.Dir(out)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		return Resolution{}, fmt.Errorf("epublang: create temp output: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	res, err := f.FixBook(book, tmp)
	if err == nil {
		if chmodErr := tmp.Chmod(0o644); chmodErr != nil {
			err = fmt.Errorf("epublang: chmod temp output: %w", chmodErr)
		}
	}
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("epublang: close temp output: %w", closeErr)
	}
	if err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := os.Rename(tmpName, out); err != nil {
		return res, fmt.Errorf("epublang: commit output: %w", err)
	}
	committed = true

	f.logger().Info("wrote epub", "path", out, "language", res.Language)
	return res, nil
}

// samePath reports whether a and b name the same file. A missing b is never
// the same as a.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("epublang: resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("epublang: resolve %s: %w", b, err)
	}
	if absA == absB {
		return true, nil
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}
