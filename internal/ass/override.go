package ass

import (
	"strings"
)

// tagNames lists override tag names, longest first so that prefix matching
// picks \fscx over \fs and \bord over \b.
var tagNames = []string{
	"xbord", "ybord", "xshad", "yshad", "iclip",
	"alpha", "fscx", "fscy", "bord", "shad", "blur", "clip", "move", "fade",
	"fsp", "frx", "fry", "frz", "fax", "fay", "fad", "org", "pos", "pbo",
	"fn", "fs", "fe", "fr", "be", "an", "kf", "ko",
	"1c", "2c", "3c", "4c", "1a", "2a", "3a", "4a",
	"b", "i", "u", "s", "c", "a", "k", "K", "q", "r", "t", "p",
}

// SplitRuns splits dialogue text at {...} override blocks. Each run carries
// the tags of the block(s) directly before it; text before the first block
// forms a run without tags. Escapes such as \N are kept in run text.
func SplitRuns(text string) []Run {
	var runs []Run
	var pending []Tag
	hasPending := false

	var b strings.Builder
	flush := func() {
		if b.Len() == 0 && !hasPending {
			return
		}
		runs = append(runs, Run{Text: b.String(), Tags: pending})
		b.Reset()
		pending = nil
		hasPending = false
	}

	for i := 0; i < len(text); {
		c := text[i]
		if c == '\\' && i+1 < len(text) && (text[i+1] == '{' || text[i+1] == '}') {
			b.WriteString(text[i : i+2])
			i += 2
			continue
		}
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}

		end := strings.IndexByte(text[i+1:], '}')
		if end < 0 {
			// unterminated block is literal text
			b.WriteString(text[i:])
			break
		}
		block := text[i+1 : i+1+end]
		i += end + 2

		if b.Len() > 0 {
			flush()
		}
		pending = append(pending, ParseTags(block)...)
		hasPending = true
	}
	flush()
	return runs
}

// ParseTags parses the content of one override block, e.g.
// `\fnArial\fs20\pos(10,20)`. Text outside tags (comments) is ignored.
func ParseTags(block string) []Tag {
	var tags []Tag
	pos := 0
	for pos < len(block) {
		if block[pos] != '\\' {
			pos++
			continue
		}
		pos++
		start := pos
		depth := 0
	scan:
		for pos < len(block) {
			switch block[pos] {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			case '\\':
				if depth == 0 {
					break scan
				}
			}
			pos++
		}
		if tag, ok := parseTag(block[start:pos]); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseTag(raw string) (Tag, bool) {
	if raw == "" {
		return Tag{}, false
	}
	for _, name := range tagNames {
		if strings.HasPrefix(raw, name) {
			return Tag{Name: name, Value: tagValue(raw[len(name):])}, true
		}
	}
	// unknown tag: leading letters form the name
	n := 0
	for n < len(raw) && isLetter(raw[n]) {
		n++
	}
	if n == 0 {
		return Tag{}, false
	}
	return Tag{Name: raw[:n], Value: tagValue(raw[n:])}, true
}

func tagValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		v = v[1 : len(v)-1]
	}
	return strings.TrimPrefix(v, "@")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// StripOverrides removes override blocks and turns \N, \n into newlines and
// \h into a space.
func StripOverrides(text string) string {
	var b strings.Builder
	for _, run := range SplitRuns(text) {
		b.WriteString(run.Text)
	}
	r := strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ", `\{`, "{", `\}`, "}")
	return strings.TrimSpace(r.Replace(b.String()))
}
