package engine

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// textRenderer handles plain text, markdown, JSON, and any other text/*
// subtype: the content is decoded to UTF-8 and passed through.
type textRenderer struct{}

func (t *textRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return decodeText(data), nil
}

// decodeText decodes raw bytes to UTF-8, detecting the charset when the
// content is not already clean UTF-8.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		if !hasHighBytes(data) {
			return string(data)
		}
		if s := string(data); !strings.ContainsRune(s, '�') {
			return s
		}
	}

	detector := chardet.NewTextDetector()
	results, err := detector.DetectAll(data)
	if err == nil {
		bestScore := -1 << 31
		best := ""
		for _, res := range results {
			enc := lookupEncoding(res.Charset)
			if enc == nil {
				continue
			}
			decoded, err := enc.NewDecoder().Bytes(data)
			if err != nil {
				continue
			}
			text := string(decoded)
			if score := scoreDecoded(text, res.Confidence); score > bestScore {
				bestScore = score
				best = text
			}
		}
		if best != "" {
			return best
		}
	}

	return string(data)
}

func hasHighBytes(data []byte) bool {
	for _, b := range data {
		if b > 0x7F {
			return true
		}
	}
	return false
}

// scoreDecoded rates how plausible a decoded candidate looks. Replacement
// and control characters count against it; coherent CJK and Latin runs
// count for it. Chardet often misidentifies CJK as a Latin codepage, so
// kana and fullwidth forms get a strong bonus.
func scoreDecoded(text string, confidence int) int {
	score := confidence
	for _, r := range text {
		switch {
		case r == '�':
			score -= 10
		case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
			score -= 5
		case r >= 0x3040 && r <= 0x30FF: // kana
			score += 5
		case r >= 0xFF00 && r <= 0xFFEF: // fullwidth forms
			score += 5
		case r >= 0x4E00 && r <= 0x9FFF: // CJK ideographs
			score += 2
		case r >= 'A' && r <= 'z':
			score++
		}
	}
	return score
}

// lookupEncoding maps charset names reported by chardet (and charset hints
// from callers) to Go encoding implementations.
func lookupEncoding(charset string) encoding.Encoding {
	key := strings.ToLower(charset)
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	switch key {
	case "utf8", "utf8bom", "ascii", "usascii":
		return unicode.UTF8
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "iso88591", "latin1":
		return charmap.ISO8859_1
	case "iso88592":
		return charmap.ISO8859_2
	case "iso88595":
		return charmap.ISO8859_5
	case "iso88597":
		return charmap.ISO8859_7
	case "iso88599":
		return charmap.ISO8859_9
	case "iso885915":
		return charmap.ISO8859_15
	case "windows1250", "cp1250":
		return charmap.Windows1250
	case "windows1251", "cp1251":
		return charmap.Windows1251
	case "windows1252", "cp1252":
		return charmap.Windows1252
	case "windows1254", "cp1254":
		return charmap.Windows1254
	case "koi8r":
		return charmap.KOI8R
	case "shiftjis", "sjis", "cp932", "windows31j":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "iso2022jp":
		return japanese.ISO2022JP
	case "euckr", "cp949":
		return korean.EUCKR
	case "gb2312", "gbk", "cp936", "gb18030":
		return simplifiedchinese.GBK
	case "big5", "cp950":
		return traditionalchinese.Big5
	}
	return nil
}
