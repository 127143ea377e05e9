package subtitle

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharset is assumed when the file has no byte order mark.
const DefaultCharset = "utf-8"

// LookupCharset resolves a charset label such as "utf-8", "gbk", "gb18030"
// or "big5".
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCharset
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts subtitle bytes to UTF-8. A UTF-8 or UTF-16 byte order mark
// wins over charset; the mark itself is removed.
func Decode(data []byte, charset string) (string, error) {
	fallback, err := LookupCharset(charset)
	if err != nil {
		return "", err
	}

	dec := unicode.BOMOverride(fallback.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(out), nil
}
