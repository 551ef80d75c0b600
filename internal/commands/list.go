package commands

import (
	"context"
	"fmt"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/resx"
)

// Filter selects entries by name with gitignore-style patterns. An empty Include selects all entries.
type Filter struct {
	Include []string
	Exclude []string
}

func (f Filter) matcher() func(name string) bool {
	var inc, exc *ignore.GitIgnore
	if len(f.Include) > 0 {
		inc = ignore.CompileIgnoreLines(f.Include...)
	}
	if len(f.Exclude) > 0 {
		exc = ignore.CompileIgnoreLines(f.Exclude...)
	}
	return func(name string) bool {
		if inc != nil && !inc.MatchesPath(name) {
			return false
		}
		return exc == nil || !exc.MatchesPath(name)
	}
}

// EntryInfo describes an entry without its value
type EntryInfo struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Kind     string         `json:"kind"`
	Comment  string         `json:"comment,omitempty"`
	FileRef  string         `json:"fileRef,omitempty"`
	Position model.Position `json:"position"`
	Metadata bool           `json:"metadata,omitempty"`
}

func NewEntryInfo(n *resx.Node, metadata bool) EntryInfo {
	info := EntryInfo{
		Name:     n.Name(),
		Type:     n.ValueTypeName(nil),
		Kind:     n.Kind().String(),
		Comment:  n.Comment(),
		Position: n.Position(),
		Metadata: metadata,
	}
	if ref := n.FileRef(); ref != nil {
		info.FileRef = ref.String()
	}
	return info
}

// List returns the entries of r matching filter in document order. With metadata set, the metadata entries
// follow the data entries.
func List(ctx context.Context, r *resx.Reader, filter Filter, metadata bool) ([]EntryInfo, error) {
	nodes, err := nodes(r, metadata)
	if err != nil {
		return nil, err
	}
	match := filter.matcher()
	res := make([]EntryInfo, 0, len(nodes))
	for _, e := range nodes {
		if !match(e.node.Name()) {
			continue
		}
		res = append(res, NewEntryInfo(e.node, e.metadata))
	}
	return res, nil
}

type taggedNode struct {
	node     *resx.Node
	metadata bool
}

func nodes(r *resx.Reader, metadata bool) ([]taggedNode, error) {
	entries, err := r.Entries()
	if err != nil {
		return nil, err
	}
	var res []taggedNode
	for _, e := range entries {
		if e.Node == nil {
			return nil, fmt.Errorf("reader is not in node mode")
		}
		res = append(res, taggedNode{node: e.Node})
	}
	if !metadata {
		return res, nil
	}
	meta, err := r.Metadata()
	if err != nil {
		return nil, err
	}
	for _, e := range meta {
		if e.Node == nil {
			return nil, fmt.Errorf("reader is not in node mode")
		}
		res = append(res, taggedNode{node: e.Node, metadata: true})
	}
	return res, nil
}
