// Package epublang prepares the language metadata of ePub files for Kindle
// (KFX) conversion.
//
// Kindle applies Traditional Chinese typography (centred punctuation and
// the traditional font family) only when a book's language is "zh-hant".
// Books produced in Taiwan usually tag their content documents "zh-TW"
// instead, so the conversion falls back to generic Chinese rendering.
// [NormalizeLanguage] holds the rule that closes that gap:
//
//	epublang.NormalizeLanguage("zh-TW")  // "zh-hant"
//	epublang.NormalizeLanguage("en-US")  // "en-US"
//
// # Reading a book
//
// Use [Open] to open a file by path, or [NewReader] to read from an [io.ReaderAt]:
//
//	book, err := epublang.Open("book.epub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer book.Close()
//
// [Book.Metadata] returns the declared dc:language values and the
// primary-writing-mode. [Book.ContentLanguages] returns the frequency table
// of the languages declared by the spine's content documents.
//
// # Fixing a book
//
// A [Fixer] picks the best-match tag with [SelectLanguage], passes it through
// [NormalizeLanguage], logs the decision and writes a copy of the book with
// the new dc:language:
//
//	fixer := epublang.NewFixer(slog.Default())
//	res, err := fixer.FixFile(ctx, "book.epub", "book_kfx_ready.epub")
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - [ErrDRMProtected] – the file is DRM encrypted
//   - [ErrInvalidEPub] – no packaging document could be located
//   - [ErrFileNotFound] – a requested file is not in the archive
//   - [ErrSameFile] – a fix would overwrite its own input
package epublang
