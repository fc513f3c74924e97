package program

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// DocComments returns the JSDoc blocks attached to node, in source order.
// Attached blocks are the comments immediately preceding node among its
// siblings; the run stops at the first sibling that is not a comment.
// Plain `//` and `/* */` comments in the run are skipped.
func (u *Unit) DocComments(node *sitter.Node) []string {
	var docs []string
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		if text, ok := JSDocText(u.Text(prev)); ok {
			docs = append(docs, text)
		}
	}
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	return docs
}

// JSDocText extracts the description of a `/** ... */` block: comment
// delimiters and leading asterisks are removed, text from the first @tag on
// is dropped and the result is trimmed. ok is false for anything that is not
// a JSDoc block.
func JSDocText(raw string) (text string, ok bool) {
	if len(raw) < 5 || !strings.HasPrefix(raw, "/**") || !strings.HasSuffix(raw, "*/") {
		return "", false
	}
	body := raw[3 : len(raw)-2]

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "@") {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}
