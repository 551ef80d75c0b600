package commands

import (
	"context"
	"fmt"

	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/resx"
)

// Find returns the node of the named data entry, or of the named metadata entry if metadata is set
func Find(r *resx.Reader, name string, metadata bool) (*resx.Node, error) {
	var entries []resx.Entry
	var err error
	if metadata {
		entries, err = r.Metadata()
	} else {
		entries, err = r.Entries()
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			if e.Node == nil {
				return nil, fmt.Errorf("reader is not in node mode")
			}
			return e.Node, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", model.ErrEntryNotFound, name)
}

// Value is a materialized entry value
type Value struct {
	EntryInfo
	Value any
}

// Get materializes the value of the named entry
func Get(ctx context.Context, r *resx.Reader, name string, metadata bool) (*Value, error) {
	n, err := Find(r, name, metadata)
	if err != nil {
		return nil, err
	}
	v, err := n.Value(nil)
	if err != nil {
		return nil, err
	}
	return &Value{EntryInfo: NewEntryInfo(n, metadata), Value: v}, nil
}
