package epublang

import "errors"

// Sentinel errors returned by the epublang package.
var (
	// ErrDRMProtected indicates the ePub file is protected by DRM
	// (e.g., Adobe ADEPT, Apple FairPlay, Readium LCP) and cannot be rewritten.
	ErrDRMProtected = errors.New("epublang: file is DRM protected")

	// ErrInvalidEPub indicates the file is not a valid ePub
	// (e.g., missing container.xml and no .opf file found).
	ErrInvalidEPub = errors.New("epublang: invalid ePub file")

	// ErrFileNotFound indicates the requested file does not exist
	// in the ePub archive.
	ErrFileNotFound = errors.New("epublang: file not found in archive")

	// ErrSameFile indicates the output path of a fix resolves to the input file.
	ErrSameFile = errors.New("epublang: output would overwrite the input file")
)
