// Package artifact decodes the tagged text stream emitted by the component
// generation service into file blocks and a terminal signal.
//
// The stream looks like:
//
//	<ComponentArtifact name="Button">
//	<ComponentFile fileName="App.tsx" isEntryFile="true">
//	...
//	</ComponentFile>
//	</ComponentArtifact>
//	<NewComponentId>65f0c1</NewComponentId>
//
// Parse is a pure function of the whole buffer. Callers re-run it on the
// cumulative text after every chunk instead of feeding deltas.
package artifact

import "strings"

// Kind tells a file block apart from free text.
type Kind int

const (
	KindText Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "text"
}

// Block is one parsed unit of the stream: either a file or plain text that
// sat outside any recognized tag.
type Block struct {
	Kind        Kind
	FileName    string
	Language    string
	Content     string
	IsEntryFile bool
}

// IsFile reports whether the block carries a file.
func (b Block) IsFile() bool { return b.Kind == KindFile }

// SignalKind identifies the terminal signal embedded in a stream.
type SignalKind int

const (
	SignalNewArtifactID SignalKind = iota + 1
	SignalGenerationError
)

// Signal is the terminal outcome found in the buffer, if any.
type Signal struct {
	Kind  SignalKind
	Value string
}

// Result is everything Parse extracts from one buffer.
type Result struct {
	Blocks []Block
	Signal *Signal
}

// ArtifactID returns the new artifact id, or "" when the buffer carries
// none or carries an error instead.
func (r Result) ArtifactID() string {
	if r.Signal == nil || r.Signal.Kind != SignalNewArtifactID {
		return ""
	}
	return r.Signal.Value
}

// ErrorMessage returns the embedded generation error, or "".
func (r Result) ErrorMessage() string {
	if r.Signal == nil || r.Signal.Kind != SignalGenerationError {
		return ""
	}
	return r.Signal.Value
}

// Failed reports whether the buffer carries a generation error.
func (r Result) Failed() bool {
	return r.Signal != nil && r.Signal.Kind == SignalGenerationError
}

// Files returns only the file blocks. Plain text is useful while streaming
// but is dropped from the final output.
func (r Result) Files() []Block {
	var files []Block
	for _, b := range r.Blocks {
		if b.IsFile() {
			files = append(files, b)
		}
	}
	return files
}

// EntryFile returns the block flagged as entry file.
func (r Result) EntryFile() (Block, bool) {
	for _, b := range r.Blocks {
		if b.IsFile() && b.IsEntryFile {
			return b, true
		}
	}
	return Block{}, false
}

// Markdown renders the blocks the way the detail view shows them: free text
// as is, files under a heading with a fenced `language:fileName` block.
func (r Result) Markdown() string {
	parts := make([]string, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		if !b.IsFile() || b.FileName == "" || b.Language == "text" {
			parts = append(parts, b.Content)
			continue
		}
		parts = append(parts, "### "+b.FileName+"\n\n```"+b.Language+":"+b.FileName+"\n"+b.Content+"\n```")
	}
	return strings.Join(parts, "\n\n")
}
