package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument     = errors.New("document is empty")
	ErrMalformedDocument = errors.New("malformed document")
)

// Node is one element of a blog post body tree. Bodies are stored as the
// serialized tree, never as pre-rendered HTML, so an old post re-renders
// under whatever allow-list is current without being re-edited.
type Node struct {
	Type     string            `json:"type"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

func Parse(data []byte) (*Node, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	if root.Type == "" {
		return nil, fmt.Errorf("%w: root node has no type", ErrMalformedDocument)
	}

	return &root, nil
}

func (n *Node) Marshal() ([]byte, error) {
	if n == nil {
		return nil, ErrEmptyDocument
	}
	return json.Marshal(n)
}

// Attr returns the named attribute or "" when absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}
