package vmt

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// RewriteTexturePaths normalizes every line that looks like a texture path
// (see IsTexturePath). Every output line ends with "\n". The second result
// reports whether the output differs from data.
func RewriteTexturePaths(data []byte) ([]byte, bool) {
	var buf bytes.Buffer
	buf.Grow(len(data) + 16)
	// bytes.Buffer writes do not fail.
	_ = EncodeRewrite(&buf, bytes.NewReader(data))

	out := buf.Bytes()
	return out, !bytes.Equal(out, data)
}

// EncodeRewrite copies r to w line by line, normalizing texture path lines.
func EncodeRewrite(w io.Writer, r io.Reader) error {
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if IsTexturePath(line) {
				line = NormalizeTextureLine(line)
			}
			if _, werr := bw.WriteString(line); werr != nil {
				return werr
			}
			if werr := bw.WriteByte('\n'); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}
