package artifact

import (
	"path"
	"regexp"
	"strings"
)

const (
	artifactOpenTag  = "<ComponentArtifact"
	artifactCloseTag = "</ComponentArtifact>"
	fileOpenTag      = "<ComponentFile"
	fileCloseTag     = "</ComponentFile>"
	errorOpenTag     = "<TryCatchError>"
	errorCloseTag    = "</TryCatchError>"
	idOpenTag        = "<NewComponentId>"
	idCloseTag       = "</NewComponentId>"
)

var knownTags = []string{
	artifactOpenTag, artifactCloseTag,
	fileOpenTag, fileCloseTag,
	errorOpenTag, errorCloseTag,
	idOpenTag, idCloseTag,
}

// fenceRe matches the single-file shorthand ```language:fileName ... ```.
var fenceRe = regexp.MustCompile("(?m)^```(\\w+):(.+?)\\n((?s:.*?))```$")

// Parse extracts blocks and the terminal signal from the full buffer received
// so far. It never fails: malformed or truncated tags degrade to partial or
// empty results, and a later call with more text supersedes the earlier one.
func Parse(buffer string) Result {
	text, sig := extractSignals(buffer)
	text = stripArtifactWrapper(text)
	return Result{Blocks: scanBlocks(text), Signal: sig}
}

// extractSignals removes closed error and id tags from s. The error tag wins
// when both are present. A tag that is opened but not closed yet produces no
// signal; the text after it is held back until the close arrives.
func extractSignals(s string) (string, *Signal) {
	s, msg, failed := cutSignal(s, errorOpenTag, errorCloseTag)
	s, id, hasID := cutSignal(s, idOpenTag, idCloseTag)
	id = strings.TrimSpace(id)
	switch {
	case failed:
		return s, &Signal{Kind: SignalGenerationError, Value: msg}
	case hasID && id != "":
		return s, &Signal{Kind: SignalNewArtifactID, Value: id}
	}
	return s, nil
}

func cutSignal(s, open, close string) (rest, inner string, found bool) {
	var b strings.Builder
	for {
		i := strings.Index(s, open)
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		body := s[i+len(open):]
		j := strings.Index(body, close)
		if j < 0 {
			break
		}
		if !found {
			inner, found = body[:j], true
		}
		s = body[j+len(close):]
	}
	return b.String(), inner, found
}

// stripArtifactWrapper drops <ComponentArtifact ...> and its closing tag,
// each with one trailing newline.
func stripArtifactWrapper(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, artifactOpenTag)
		if i < 0 {
			break
		}
		_, end, st := readOpenTag(s, i+len(artifactOpenTag))
		if st == tagPartial {
			s = s[:i]
			break
		}
		if st == tagInvalid {
			b.WriteString(s[:i+len(artifactOpenTag)])
			s = s[i+len(artifactOpenTag):]
			continue
		}
		b.WriteString(s[:i])
		s = strings.TrimPrefix(s[end:], "\n")
	}
	b.WriteString(s)
	out := strings.ReplaceAll(b.String(), artifactCloseTag+"\n", "")
	return strings.ReplaceAll(out, artifactCloseTag, "")
}

func scanBlocks(s string) []Block {
	var blocks []Block
	pos, last := 0, 0
	for {
		i := strings.Index(s[pos:], fileOpenTag)
		if i < 0 {
			break
		}
		start := pos + i
		attrs, end, st := readOpenTag(s, start+len(fileOpenTag))
		if st == tagPartial {
			s = s[:start]
			break
		}
		name := attrs["fileName"]
		if st == tagInvalid || name == "" {
			pos = start + len(fileOpenTag)
			continue
		}

		blocks = appendText(blocks, s[last:start])
		content, consumed := fileBody(s[end:])
		blocks = append(blocks, Block{
			Kind:        KindFile,
			FileName:    name,
			Language:    languageOf(name),
			Content:     content,
			IsEntryFile: attrs["isEntryFile"] == "true",
		})
		pos = end + consumed
		last = pos
	}

	rest := s[last:]
	rest = rest[:len(rest)-partialTagSuffix(rest)]
	return appendTrailing(blocks, rest)
}

// fileBody returns the content of a file whose open tag ended right before
// body, and how many bytes of body the file occupies including its close tag.
// The content stops at the close tag, the next file tag or the end of body.
func fileBody(body string) (string, int) {
	stop, consumed := len(body), len(body)
	closeAt := strings.Index(body, fileCloseTag)
	nextAt := nextFileTag(body)
	switch {
	case closeAt >= 0 && (nextAt < 0 || closeAt < nextAt):
		stop, consumed = closeAt, closeAt+len(fileCloseTag)
	case nextAt >= 0:
		stop, consumed = nextAt, nextAt
	default:
		stop -= partialTagSuffix(body)
	}
	return strings.TrimLeft(body[:stop], "\n"), consumed
}

// nextFileTag finds the next <ComponentFile tag, skipping longer names such
// as <ComponentFileList that may appear inside generated code.
func nextFileTag(s string) int {
	off := 0
	for {
		i := strings.Index(s[off:], fileOpenTag)
		if i < 0 {
			return -1
		}
		at := off + i
		after := at + len(fileOpenTag)
		if after == len(s) || s[after] == '>' || isSpace(s[after]) {
			return at
		}
		off = after
	}
}

func appendText(blocks []Block, raw string) []Block {
	if t := strings.TrimSpace(raw); t != "" {
		blocks = append(blocks, Block{Kind: KindText, Language: "text", Content: t})
	}
	return blocks
}

// appendTrailing handles the text after the last file tag. It is first tried
// as the fenced single-file shorthand, then kept as plain text.
func appendTrailing(blocks []Block, raw string) []Block {
	t := strings.TrimSpace(raw)
	if t == "" {
		return blocks
	}
	loc := fenceRe.FindStringSubmatchIndex(t)
	if loc == nil {
		return appendText(blocks, t)
	}
	blocks = appendText(blocks, t[:loc[0]])
	blocks = append(blocks, Block{
		Kind:     KindFile,
		Language: t[loc[2]:loc[3]],
		FileName: strings.TrimSpace(t[loc[4]:loc[5]]),
		Content:  strings.TrimSpace(t[loc[6]:loc[7]]),
	})
	return appendText(blocks, t[loc[1]:])
}

// partialTagSuffix returns the length of a trailing fragment of s that could
// still grow into a recognized tag, e.g. "</Compo".
func partialTagSuffix(s string) int {
	i := strings.LastIndexByte(s, '<')
	if i < 0 {
		return 0
	}
	tail := s[i:]
	for _, tag := range knownTags {
		if len(tail) < len(tag) && strings.HasPrefix(tag, tail) {
			return len(tail)
		}
	}
	return 0
}

func languageOf(fileName string) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		return "text"
	}
	return ext
}

type tagState int

const (
	tagComplete tagState = iota
	tagPartial
	tagInvalid
)

// readOpenTag reads the attribute list of a tag whose name ends at from.
// It returns the index right after '>' for a complete tag. tagPartial means
// the buffer ends inside the tag.
func readOpenTag(s string, from int) (map[string]string, int, tagState) {
	i := from
	if i >= len(s) {
		return nil, 0, tagPartial
	}
	if s[i] != '>' && !isSpace(s[i]) {
		return nil, 0, tagInvalid
	}
	attrs := make(map[string]string)
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return nil, 0, tagPartial
		}
		if s[i] == '>' {
			return attrs, i + 1, tagComplete
		}

		start := i
		for i < len(s) && isNameByte(s[i]) {
			i++
		}
		switch {
		case i >= len(s):
			return nil, 0, tagPartial
		case i == start || s[i] != '=':
			return nil, 0, tagInvalid
		}
		name := s[start:i]

		i++
		if i >= len(s) {
			return nil, 0, tagPartial
		}
		if s[i] != '"' {
			return nil, 0, tagInvalid
		}
		i++
		j := strings.IndexByte(s[i:], '"')
		if j < 0 {
			return nil, 0, tagPartial
		}
		attrs[name] = s[i : i+j]
		i += j + 1
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':'
}
