package schema

import (
	"fmt"
	"strings"

	"github.com/dchest/siphash"

	"github.com/tuannm99/savereader/internal/alias/bx"
)

// Node describes one field of a schema level.
// Children is non-nil iff Kind == KindStruct.
type Node struct {
	Key         string
	Cardinality Cardinality
	Kind        Kind
	Children    []Node
}

// Header is the top-level field list of a table. It is built once and
// shared read-only by every record decode of that table.
type Header []Node

// Source is the part of the stream the header parser needs.
type Source interface {
	ReadByte() (byte, error)
	ReadString() (string, error)
}

// ParseHeader reads a complete schema, all nested levels included.
//
// Each level is read in two phases: the flat sibling list up to its 0
// terminator first, then the child level of every Struct sibling in
// sibling order. Nested levels therefore follow the parent terminator
// back to back.
func ParseHeader(src Source) (Header, error) {
	nodes, err := parseLevel(src, nil)
	if err != nil {
		return nil, err
	}
	return Header(nodes), nil
}

func parseLevel(src Source, path []string) ([]Node, error) {
	var nodes []Node
	for {
		b, err := src.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("schema: read tag at %s: %w", levelName(path), err)
		}
		tag, ok, err := DecodeTag(b)
		if err != nil {
			return nil, fmt.Errorf("schema: %s: %w", levelName(path), err)
		}
		if !ok {
			break
		}
		key, err := src.ReadString()
		if err != nil {
			return nil, fmt.Errorf("schema: read field name at %s: %w", levelName(path), err)
		}
		nodes = append(nodes, Node{Key: key, Cardinality: tag.Cardinality, Kind: tag.Kind})
	}

	for i := range nodes {
		if nodes[i].Kind != KindStruct {
			continue
		}
		children, err := parseLevel(src, append(path, nodes[i].Key))
		if err != nil {
			return nil, err
		}
		if children == nil {
			children = []Node{}
		}
		nodes[i].Children = children
	}
	return nodes, nil
}

func levelName(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}

// Tag returns the tag n was decoded from.
func (n Node) Tag() Tag { return Tag{Cardinality: n.Cardinality, Kind: n.Kind} }

// Find looks a top-level field up by key.
func (h Header) Find(key string) (Node, bool) {
	for _, n := range h {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// AppendBinary appends the wire encoding of h: the level itself, its
// terminator, then every struct child level in order.
func (h Header) AppendBinary(dst []byte) []byte {
	return appendLevel(dst, h)
}

func appendLevel(dst []byte, nodes []Node) []byte {
	for _, n := range nodes {
		dst = append(dst, n.Tag().Byte())
		dst = bx.AppendGamma(dst, uint64(len(n.Key)))
		dst = append(dst, n.Key...)
	}
	dst = append(dst, 0)
	for _, n := range nodes {
		if n.Kind == KindStruct {
			dst = appendLevel(dst, n.Children)
		}
	}
	return dst
}

// Fingerprint is a 128-bit siphash of the canonical header encoding, used
// to tell table layouts apart across files.
func (h Header) Fingerprint() string {
	lo, hi := siphash.Hash128(0, 0, h.AppendBinary(nil))
	return fmt.Sprintf("%016x%016x", hi, lo)
}

// String renders h as an indented field list.
func (h Header) String() string {
	var sb strings.Builder
	dumpLevel(&sb, h, 0)
	return sb.String()
}

func dumpLevel(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Key)
		sb.WriteString(": ")
		if n.Cardinality == List {
			sb.WriteString("[]")
		}
		sb.WriteString(n.Kind.String())
		sb.WriteByte('\n')
		if n.Kind == KindStruct {
			dumpLevel(sb, n.Children, depth+1)
		}
	}
}
