package gitlib

import (
	"bytes"

	git2go "github.com/libgit2/git2go/v34"
)

// Blob wraps a libgit2 blob.
type Blob struct {
	blob *git2go.Blob
}

// Hash returns the blob hash.
func (b *Blob) Hash() Hash {
	return HashFromOid(b.blob.Id())
}

// Size returns the blob size in bytes.
func (b *Blob) Size() int64 {
	return b.blob.Size()
}

// Contents returns the blob contents.
func (b *Blob) Contents() []byte {
	return b.blob.Contents()
}

// IsBinary reports whether libgit2 classifies the blob as binary.
func (b *Blob) IsBinary() bool {
	return b.blob.IsBinary()
}

// LineCount returns the number of lines in the blob. A trailing fragment
// without a newline counts as a line; binary blobs count as zero.
func (b *Blob) LineCount() int {
	if b.IsBinary() {
		return 0
	}

	data := b.Contents()
	if len(data) == 0 {
		return 0
	}

	count := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		count++
	}

	return count
}

// Free releases the blob resources.
func (b *Blob) Free() {
	if b.blob != nil {
		b.blob.Free()
		b.blob = nil
	}
}
