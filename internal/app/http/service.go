package http

import (
	"context"
	"errors"
	"sync"

	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/resx"
)

//go:generate mockery --name HandlerService --outpkg mocks --output mocks
type HandlerService interface {
	ListEntries(ctx context.Context, filter commands.Filter, metadata bool) ([]commands.EntryInfo, error)
	GetEntry(ctx context.Context, name string, metadata bool) (*commands.EntryInfo, error)
	GetValue(ctx context.Context, name string, metadata bool) (*commands.Value, error)
	SearchEntries(ctx context.Context, query string) ([]commands.SearchHit, error)
	CheckHealth(ctx context.Context) error
}

type defaultHandlerService struct {
	reader *resx.Reader

	indexOnce sync.Once
	index     *commands.EntryIndex
	indexErr  error
}

// NewDefaultHandlerService returns a service answering from the container read by r. The reader must be in node mode.
func NewDefaultHandlerService(r *resx.Reader) (*defaultHandlerService, error) {
	if r == nil {
		return nil, errors.New("no container reader given")
	}
	return &defaultHandlerService{reader: r}, nil
}

func (dhs *defaultHandlerService) ListEntries(ctx context.Context, filter commands.Filter, metadata bool) ([]commands.EntryInfo, error) {
	return commands.List(ctx, dhs.reader, filter, metadata)
}

func (dhs *defaultHandlerService) GetEntry(ctx context.Context, name string, metadata bool) (*commands.EntryInfo, error) {
	n, err := commands.Find(dhs.reader, name, metadata)
	if err != nil {
		return nil, err
	}
	info := commands.NewEntryInfo(n, metadata)
	return &info, nil
}

func (dhs *defaultHandlerService) GetValue(ctx context.Context, name string, metadata bool) (*commands.Value, error) {
	return commands.Get(ctx, dhs.reader, name, metadata)
}

// SearchEntries builds the search index on first use
func (dhs *defaultHandlerService) SearchEntries(ctx context.Context, query string) ([]commands.SearchHit, error) {
	dhs.indexOnce.Do(func() {
		dhs.index, dhs.indexErr = commands.NewEntryIndex(ctx, dhs.reader)
	})
	if dhs.indexErr != nil {
		return nil, dhs.indexErr
	}
	return dhs.index.Search(ctx, query)
}

// CheckHealth reports whether the container could be parsed
func (dhs *defaultHandlerService) CheckHealth(ctx context.Context) error {
	_, err := dhs.reader.Entries()
	return err
}

func (dhs *defaultHandlerService) Close() error {
	var err error
	if dhs.index != nil {
		err = dhs.index.Close()
	}
	return errors.Join(err, dhs.reader.Close())
}
