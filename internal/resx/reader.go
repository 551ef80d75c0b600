package resx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/wot-oss/resx/internal/codec"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/sources"
	"github.com/wot-oss/resx/internal/types"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	elemAssembly = "assembly"
	elemData     = "data"
	elemMetadata = "metadata"
	elemValue    = "value"
	elemComment  = "comment"
	attrName     = "name"
	attrAlias    = "alias"
	attrType     = "type"
	attrMimeType = "mimetype"
)

// Entry is a named entry of a container. In node mode, Node is set and Value is nil; otherwise Value holds
// the decoded value.
type Entry struct {
	Name  string
	Node  *Node
	Value any
}

type config struct {
	resolver   types.TypeResolver
	universe   *types.Universe
	candidates []types.Identity
	loader     types.Loader
	cache      *types.Cache
	objects    codec.ObjectCodec
	opener     Opener
	converter  TypeNameConverter
	basePath   string
	useNodes   bool
}

type ReaderOption func(*config)

// WithResolver sets the resolver used for all type names. It replaces the resolver built from
// WithUniverse, WithCandidates, WithLoader and WithCache.
func WithResolver(r types.TypeResolver) ReaderOption {
	return func(c *config) {
		c.resolver = r
	}
}

func WithUniverse(u *types.Universe) ReaderOption {
	return func(c *config) {
		c.universe = u
	}
}

// WithCandidates sets the candidate assemblies searched for partially qualified type names
func WithCandidates(ids ...types.Identity) ReaderOption {
	return func(c *config) {
		c.candidates = ids
	}
}

func WithLoader(l types.Loader) ReaderOption {
	return func(c *config) {
		c.loader = l
	}
}

// WithCache shares a type cache between readers
func WithCache(cache *types.Cache) ReaderOption {
	return func(c *config) {
		c.cache = cache
	}
}

func WithObjectCodec(oc codec.ObjectCodec) ReaderOption {
	return func(c *config) {
		c.objects = oc
	}
}

// WithFileOpener sets how files referenced by entries are opened
func WithFileOpener(o Opener) ReaderOption {
	return func(c *config) {
		c.opener = o
	}
}

func WithReaderTypeNameConverter(tc TypeNameConverter) ReaderOption {
	return func(c *config) {
		c.converter = tc
	}
}

// WithBasePath sets the path relative file references are resolved against
func WithBasePath(p string) ReaderOption {
	return func(c *config) {
		c.basePath = p
	}
}

// WithNodes makes the reader return nodes with deferred decoding instead of decoded values
func WithNodes(useNodes bool) ReaderOption {
	return func(c *config) {
		c.useNodes = useNodes
	}
}

// Reader reads the entries of a container. The container is parsed on the first call to Entries, Metadata
// or Aliases; parsing either succeeds completely or fails without exposing any entries.
type Reader struct {
	mu sync.Mutex

	open   func() (io.ReadCloser, error)
	closer io.Closer
	cfg    config

	dirty    bool
	parsed   bool
	parseErr error

	aliases  *types.AliasTable
	data     []Entry
	metadata []Entry
}

// NewReader returns a reader parsing the container read from r. If r is an io.Closer, it is closed by Close.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	rd := newReader(func() (io.ReadCloser, error) { return io.NopCloser(r), nil }, opts)
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// FromString returns a reader parsing the container contents
func FromString(contents string, opts ...ReaderOption) *Reader {
	return NewReader(strings.NewReader(contents), opts...)
}

// OpenFile returns a reader parsing the named container file. The file is opened when parsing starts and
// closed when it ends.
func OpenFile(name string, opts ...ReaderOption) *Reader {
	return newReader(func() (io.ReadCloser, error) { return os.Open(name) }, opts)
}

// FromSource returns a reader parsing the named container of src. Unless another opener is set, referenced
// files are opened from src as well.
func FromSource(ctx context.Context, src sources.Source, name string, opts ...ReaderOption) *Reader {
	srcOpener := func(p string) (io.ReadCloser, error) {
		return src.Open(ctx, p)
	}
	opts = append([]ReaderOption{WithFileOpener(srcOpener)}, opts...)
	return newReader(func() (io.ReadCloser, error) { return src.Open(ctx, name) }, opts)
}

func newReader(open func() (io.ReadCloser, error), opts []ReaderOption) *Reader {
	r := &Reader{open: open, aliases: types.NewAliasTable()}
	for _, o := range opts {
		o(&r.cfg)
	}
	return r
}

// SetBasePath changes the base path. It fails with model.ErrInvalidOperation once reading has started.
func (r *Reader) SetBasePath(p string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dirty {
		return fmt.Errorf("%w: cannot change the base path after reading started", model.ErrInvalidOperation)
	}
	r.cfg.basePath = p
	return nil
}

// SetUseNodes switches between node and value mode. It fails with model.ErrInvalidOperation once reading has started.
func (r *Reader) SetUseNodes(useNodes bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dirty {
		return fmt.Errorf("%w: cannot change the node mode after reading started", model.ErrInvalidOperation)
	}
	r.cfg.useNodes = useNodes
	return nil
}

func (r *Reader) BasePath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.basePath
}

// Entries returns the data entries in document order. Of several entries with the same name, the last one wins:
// it keeps the first one's slot in the order and reports its own position.
func (r *Reader) Entries() ([]Entry, error) {
	if err := r.ensureParsed(); err != nil {
		return nil, err
	}
	return append([]Entry(nil), r.data...), nil
}

// Metadata returns the metadata entries in document order
func (r *Reader) Metadata() ([]Entry, error) {
	if err := r.ensureParsed(); err != nil {
		return nil, err
	}
	return append([]Entry(nil), r.metadata...), nil
}

// Aliases returns the assembly aliases declared in the container
func (r *Reader) Aliases() (*types.AliasTable, error) {
	if err := r.ensureParsed(); err != nil {
		return nil, err
	}
	return r.aliases, nil
}

// Close closes the stream the reader was created with, if it is closable
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

func (r *Reader) ensureParsed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = true
	if r.parsed {
		return r.parseErr
	}
	r.parsed = true
	r.parseErr = r.parse()
	return r.parseErr
}

func (r *Reader) newEnv() *env {
	u := r.cfg.universe
	if u == nil {
		u = types.DefaultUniverse()
	}
	resolver := r.cfg.resolver
	if resolver == nil {
		opts := []types.ResolverOption{types.WithUniverse(u), types.WithCandidates(r.cfg.candidates...)}
		if r.cfg.loader != nil {
			opts = append(opts, types.WithLoader(r.cfg.loader))
		}
		if r.cfg.cache != nil {
			opts = append(opts, types.WithCache(r.cfg.cache))
		}
		resolver = types.NewResolver(opts...)
	}
	var decOpts []codec.DecoderOption
	if r.cfg.objects != nil {
		decOpts = append(decOpts, codec.WithObjectCodec(r.cfg.objects))
	}
	return &env{
		universe:  u,
		resolver:  resolver,
		decoder:   codec.NewDecoder(decOpts...),
		files:     NewFileLoader(r.cfg.opener),
		converter: r.cfg.converter,
	}
}

func (r *Reader) parse() error {
	rc, err := r.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	p := &parser{
		d:        xml.NewDecoder(rc),
		env:      r.newEnv(),
		aliases:  types.NewAliasTable(),
		basePath: r.cfg.basePath,
		useNodes: r.cfg.useNodes,
		data:     newEntryList(),
		metadata: newEntryList(),
	}
	p.d.CharsetReader = charsetReader
	if err := p.run(); err != nil {
		return err
	}
	r.aliases = p.aliases
	r.data = p.data.entries
	r.metadata = p.metadata.entries
	return nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

type entryList struct {
	entries []Entry
	index   map[string]int
}

func newEntryList() *entryList {
	return &entryList{index: make(map[string]int)}
}

func (l *entryList) put(e Entry) {
	if i, ok := l.index[e.Name]; ok {
		l.entries[i] = e
		return
	}
	l.index[e.Name] = len(l.entries)
	l.entries = append(l.entries, e)
}

type parser struct {
	d        *xml.Decoder
	env      *env
	aliases  *types.AliasTable
	basePath string
	useNodes bool
	data     *entryList
	metadata *entryList
}

func (p *parser) pos() model.Position {
	line, col := p.d.InputPos()
	return model.Position{Line: line, Column: col}
}

func (p *parser) token() (xml.Token, model.Position, error) {
	pos := p.pos()
	tok, err := p.d.Token()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, pos, syntaxError(err, pos)
	}
	return tok, pos, err
}

func (p *parser) skip(pos model.Position) error {
	if err := p.d.Skip(); err != nil {
		return syntaxError(err, pos)
	}
	return nil
}

// syntaxError wraps XML syntax errors as ErrInvalidFormat. Errors of the underlying stream are passed on unchanged.
func syntaxError(err error, pos model.Position) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return model.NewInvalidFormatError(pos, "%w", err)
	}
	return err
}

func (p *parser) run() error {
	for {
		tok, pos, err := p.token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case elemAssembly:
			err = p.parseAssembly(se, pos)
		case elemData:
			err = p.parseData(se, pos, p.data)
		case elemMetadata:
			err = p.parseData(se, pos, p.metadata)
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) parseAssembly(se xml.StartElement, pos model.Position) error {
	name, _ := attr(se, attrName)
	id, err := types.ParseIdentity(name)
	if err != nil {
		return model.NewInvalidFormatError(pos, "%w", err)
	}
	alias, _ := attr(se, attrAlias)
	if alias == "" {
		alias = id.Name
	}
	p.aliases.Push(alias, id)
	return nil
}

func (p *parser) parseData(se xml.StartElement, pos model.Position, list *entryList) error {
	rec := &model.Record{Position: pos}
	rec.Name, _ = attr(se, attrName)
	if typeName, ok := attr(se, attrType); ok {
		rec.TypeName = p.rewriteAlias(typeName)
	}
	rec.MimeType, _ = attr(se, attrMimeType)

	if err := p.readEntryContent(rec); err != nil {
		return err
	}
	if rec.Name == "" {
		return model.NewInvalidFormatError(pos, "%s element without name", se.Name.Local)
	}

	node, err := newRecordNode(rec, p.basePath, p.env)
	if err != nil {
		return err
	}
	if p.useNodes {
		list.put(Entry{Name: rec.Name, Node: node})
		return nil
	}
	v, err := node.Value(nil)
	if err != nil {
		return err
	}
	list.put(Entry{Name: rec.Name, Value: v})
	return nil
}

// readEntryContent reads the children of a data element up to and including its end element
func (p *parser) readEntryContent(rec *model.Record) error {
	for {
		tok, _, err := p.token()
		if errors.Is(err, io.EOF) {
			return model.NewInvalidFormatError(rec.Position, "unexpected end of container in entry %q", rec.Name)
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case elemValue:
				text, err := p.readText()
				if err != nil {
					return err
				}
				rec.Payload = text
				rec.HasPayload = true
			case elemComment:
				text, err := p.readText()
				if err != nil {
					return err
				}
				if strings.TrimSpace(text) == "" {
					text = ""
				}
				rec.Comment = text
			default:
				if err := p.skip(rec.Position); err != nil {
					return err
				}
			}
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				rec.Payload = text
				rec.HasPayload = true
			}
		}
	}
}

// readText returns the text content of the current element, whitespace included, and consumes its end element
func (p *parser) readText() (string, error) {
	var b strings.Builder
	for {
		tok, pos, err := p.token()
		if errors.Is(err, io.EOF) {
			return "", model.NewInvalidFormatError(pos, "unexpected end of container")
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if err := p.skip(pos); err != nil {
				return "", err
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

// rewriteAlias replaces an assembly alias in a type name of the form "Type, Alias" by the assembly identity
// declared for it. Type names with undeclared aliases are returned unchanged.
func (p *parser) rewriteAlias(typeName string) string {
	typePart, alias := types.SplitTypeName(typeName)
	if alias == "" {
		return typeName
	}
	id, ok := p.aliases.Resolve(alias)
	if !ok {
		return typeName
	}
	return typePart + ", " + id.String()
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}
