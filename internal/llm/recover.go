package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Ordered fallback chain for turning raw model output into a decoded JSON
// value. Every repair is a pure text transform; the only thing that ever
// decides success is the strict decoder. The chain never fabricates structure:
// either some repaired text parses whole, or the result is "not recoverable".

var (
	// Bare integer labels before a colon in the three positions where models
	// hallucinate an index key that was never requested.
	reIdxAfterBracket = regexp.MustCompile(`(\[)\s*\d+\s*:`)
	reIdxAfterComma   = regexp.MustCompile(`,\s*\d+\s*:`)
	reIdxAfterBrace   = regexp.MustCompile(`\{\s*\d+\s*:`)
)

// quoteLookahead bounds how far NormalizeQuotes scans for a double quote
// before deciding the payload is single-quoted pseudo-JSON.
const quoteLookahead = 200

// Recover attempts to decode raw model output as JSON, applying targeted
// repairs when the text is a near-miss. Returns the decoded value and true on
// success, or (nil, false) when nothing parseable can be found. It never
// panics and never returns a partially-parsed value.
func Recover(raw string) (any, bool) {
	// 1) direct parse
	if v, err := decodeStrict(raw); err == nil {
		return v, true
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}

	// 2) + 3) textual repairs
	text = StripIndexKeys(text)
	text = NormalizeQuotes(text)

	// re-attempt on the repaired text before cutting at boundaries, so a
	// fully-repaired array is returned as an array rather than collapsed to
	// its first object span
	if v, err := decodeStrict(text); err == nil {
		return v, true
	}

	// 4) boundary extraction
	candidate, ok := ExtractCandidate(text)
	if !ok {
		return nil, false
	}
	if v, err := decodeStrict(candidate); err == nil {
		return v, true
	}

	// 5) definitive failure; no best-effort reconstruction beyond this point
	return nil, false
}

// RecoverBytes is Recover for callers holding the response body as bytes.
func RecoverBytes(raw []byte) (any, bool) {
	return Recover(string(raw))
}

// StripIndexKeys removes bare numeric labels before a colon when they
// immediately follow '[', ',' or '{', e.g. `[0:{...}]` -> `[{...}]`.
// Known failure mode: a legitimate string VALUE like "2023: revenue" is safe
// (it is quoted), but an unquoted numeric key a caller actually wanted is
// stripped too — the prompt never asks for numeric keys, so that trade is
// accepted.
func StripIndexKeys(text string) string {
	text = reIdxAfterBracket.ReplaceAllString(text, "$1")
	text = reIdxAfterComma.ReplaceAllString(text, ",")
	text = reIdxAfterBrace.ReplaceAllString(text, "{")
	return text
}

// NormalizeQuotes replaces every single quote with a double quote, but only
// when the text contains single quotes and no double quote appears within the
// first 200 bytes. An early double quote signals the payload is already
// double-quoted JSON, where apostrophes deeper in string values are
// legitimate and must be left alone.
// Known failure mode: single-quoted pseudo-JSON whose string values contain
// apostrophes ends up with mismatched quotes and fails the decode; that is
// the documented, intentional limitation.
func NormalizeQuotes(text string) string {
	if !strings.Contains(text, "'") {
		return text
	}
	head := text
	if len(head) > quoteLookahead {
		head = head[:quoteLookahead]
	}
	if strings.Contains(head, `"`) {
		return text
	}
	return strings.ReplaceAll(text, "'", `"`)
}

// ExtractCandidate cuts the first-'{'-to-last-'}' span out of the text, or
// failing that the first-'['-to-last-']' span. The object span wins when both
// exist because the documented top-level shape is an object.
// Known failure mode: trailing commentary that itself contains a closing
// brace widens the span and breaks the decode; the last close bracket is
// taken unconditionally for compatibility with prior outputs.
func ExtractCandidate(text string) (string, bool) {
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start != -1 && end > start {
		return text[start : end+1], true
	}
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start != -1 && end > start {
		return text[start : end+1], true
	}
	return "", false
}

func decodeStrict(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}
