// Command epublang prepares ePub language metadata for Kindle conversion.
//
//	epublang normalize zh-TW          # prints zh-hant
//	epublang inspect book.epub        # declared and content languages
//	epublang fix book.epub            # writes book_kfx_ready.epub
//	epublang config init              # writes ~/.config/epublang/config.toml
package main
