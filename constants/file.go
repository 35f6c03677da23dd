package constants

import "strings"

// MIMEPDF is the only document type the extraction collaborators accept today.
const MIMEPDF = "application/pdf"

// AllowedExtensions holds the file extensions accepted for contract uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether a normalized extension is accepted for upload.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
