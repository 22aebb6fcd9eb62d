// Package fsrepo stores content as a directory tree. Every node is a
// directory holding its properties in a flat .content.yaml mapping.
package fsrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/abdidvp/contentmod/internal/domain"
)

// NodeFile holds the properties of the node whose directory contains it.
const NodeFile = ".content.yaml"

// Committer records a changed node file in version control.
type Committer interface {
	CommitFile(file, message string) (string, error)
}

// Repository implements domain.QueryBackend over a directory tree.
type Repository struct {
	root      string
	committer Committer
	logger    *zap.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithCommitter commits every node change through c.
func WithCommitter(c Committer) Option {
	return func(r *Repository) { r.committer = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

func New(root string, opts ...Option) *Repository {
	r := &Repository{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the content root directory.
func (r *Repository) Root() string { return r.root }

// Search walks the subtree below q.PathPrefix. A missing base node yields an
// empty result.
func (r *Repository) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	base := domain.NormalizePath(q.PathPrefix)
	if base == "" {
		return nil, fmt.Errorf("empty path prefix")
	}
	prefix := q.Prefix()

	var matches []*node
	err := r.walk(ctx, base, func(p string, props map[string]any) error {
		if s, ok := props[q.PropertyName].(string); ok && strings.HasPrefix(s, prefix) {
			matches = append(matches, &node{repo: r, path: p, props: props})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].path < matches[j].path })
	result := &domain.SearchResult{TotalMatches: len(matches)}
	if q.MaxResults > 0 && len(matches) > q.MaxResults {
		matches = matches[:q.MaxResults]
	}
	for _, m := range matches {
		result.Nodes = append(result.Nodes, m)
	}
	return result, nil
}

// Walk visits every node of the repository with its properties.
func (r *Repository) Walk(ctx context.Context, fn func(path string, props map[string]any) error) error {
	return r.walk(ctx, "/", fn)
}

// WriteNode creates or replaces the properties of the node at p.
func (r *Repository) WriteNode(p string, props map[string]any) error {
	file := r.nodeFile(domain.NormalizePath(p))
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	return writeProps(file, props)
}

func (r *Repository) walk(ctx context.Context, base string, fn func(string, map[string]any) error) error {
	dir := r.nodeDir(base)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		props, err := readProps(filepath.Join(p, NodeFile))
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		return fn(domain.NormalizePath(filepath.ToSlash(rel)), props)
	})
}

func (r *Repository) nodeDir(p string) string {
	return filepath.Join(r.root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

func (r *Repository) nodeFile(p string) string {
	return filepath.Join(r.nodeDir(p), NodeFile)
}

func readProps(file string) (map[string]any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	props := map[string]any{}
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return props, nil
}

func writeProps(file string, props map[string]any) error {
	data, err := yaml.Marshal(props)
	if err != nil {
		return err
	}
	return writeFile(file, data)
}

// editProps rewrites only the scalar values of the named keys in file.
// Comments, key order and the text of every other value stay as they are.
func editProps(file string, values map[string]string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("%s: node file is not a mapping", file)
	}
	for name, value := range values {
		setScalar(doc.Content[0], name, value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return writeFile(file, buf.Bytes())
}

func setScalar(mapping *yaml.Node, name, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != name {
			continue
		}
		v := mapping.Content[i+1]
		style := v.Style &^ yaml.TaggedStyle
		if v.Kind != yaml.ScalarNode {
			style = 0
		}
		*v = yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         "!!str",
			Value:       value,
			Style:       style,
			HeadComment: v.HeadComment,
			LineComment: v.LineComment,
			FootComment: v.FootComment,
		}
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

// writeFile replaces file atomically.
func writeFile(file string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), NodeFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), file)
}

type node struct {
	repo   *Repository
	path   string
	props  map[string]any
	staged map[string]string
}

func (n *node) Path() string { return n.path }

func (n *node) Property(name string) (string, error) {
	if v, ok := n.staged[name]; ok {
		return v, nil
	}
	v, ok := n.props[name]
	if !ok {
		return "", domain.ErrPropertyNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", domain.ErrPropertyNotString
	}
	return s, nil
}

func (n *node) SetProperty(name, value string) error {
	if n.staged == nil {
		n.staged = make(map[string]string)
	}
	n.staged[name] = value
	return nil
}

// Commit rewrites the staged values in the node file. Everything else in the
// file, including properties changed since the search, is left untouched.
func (n *node) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(n.staged) == 0 {
		return nil
	}

	file := n.repo.nodeFile(n.path)
	if err := editProps(file, n.staged); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	names := make([]string, 0, len(n.staged))
	for k, v := range n.staged {
		n.props[k] = v
		names = append(names, k)
	}
	n.staged = nil

	if n.repo.committer == nil {
		return nil
	}
	sort.Strings(names)
	msg := fmt.Sprintf("contentmod: update %s on %s", strings.Join(names, ", "), n.path)
	hash, err := n.repo.committer.CommitFile(file, msg)
	if err != nil {
		return fmt.Errorf("git commit of %s: %w", path.Join(n.path, NodeFile), err)
	}
	n.repo.logger.Debug("node committed to git", zap.String("path", n.path), zap.String("hash", hash))
	return nil
}
