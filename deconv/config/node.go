package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// section is a YAML mapping being consumed key by key.
type section struct {
	path []string
	keys map[string]*yaml.Node
	used map[string]bool
}

func newSection(path []string, n *yaml.Node) (*section, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return &section{path: path, keys: map[string]*yaml.Node{}, used: map[string]bool{}}, nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: expected a mapping, got %s", ErrWrongType, kindName(n))}
	}

	s := &section{path: path, keys: make(map[string]*yaml.Node, len(n.Content)/2), used: map[string]bool{}}
	for i := 0; i+1 < len(n.Content); i += 2 {
		s.keys[n.Content[i].Value] = n.Content[i+1]
	}
	return s, nil
}

func (s *section) at(key string) []string {
	return append(slices.Clone(s.path), key)
}

func (s *section) errorf(key string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Path: s.at(key), Err: err}
}

func (s *section) lookup(key string) (*yaml.Node, bool) {
	n, ok := s.keys[key]
	if ok {
		s.used[key] = true
	}
	return n, ok
}

func (s *section) has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *section) require(key string) (*yaml.Node, error) {
	n, ok := s.lookup(key)
	if !ok {
		return nil, &Error{Path: s.at(key), Err: ErrMissingKey}
	}
	return n, nil
}

func decodeScalar[T any](s *section, key string, n *yaml.Node, typeName string) (T, error) {
	var v T
	if n.Kind != yaml.ScalarNode {
		return v, s.errorf(key, fmt.Errorf("%w: expected %s, got %s", ErrWrongType, typeName, kindName(n)))
	}
	if err := n.Decode(&v); err != nil {
		return v, s.errorf(key, fmt.Errorf("%w: expected %s, got %q", ErrWrongType, typeName, n.Value))
	}
	return v, nil
}

func (s *section) float(key string) (float64, error) {
	n, err := s.require(key)
	if err != nil {
		return 0, err
	}
	return decodeScalar[float64](s, key, n, "a number")
}

func (s *section) floatOr(key string, def float64) (float64, error) {
	if !s.has(key) {
		return def, nil
	}
	return s.float(key)
}

func (s *section) int(key string) (int, error) {
	n, err := s.require(key)
	if err != nil {
		return 0, err
	}
	return decodeScalar[int](s, key, n, "an integer")
}

func (s *section) intOr(key string, def int) (int, error) {
	if !s.has(key) {
		return def, nil
	}
	return s.int(key)
}

func (s *section) uint64(key string) (uint64, error) {
	n, err := s.require(key)
	if err != nil {
		return 0, err
	}
	return decodeScalar[uint64](s, key, n, "a non-negative integer")
}

func (s *section) string(key string) (string, error) {
	n, err := s.require(key)
	if err != nil {
		return "", err
	}
	return decodeScalar[string](s, key, n, "a string")
}

func (s *section) stringOr(key, def string) (string, error) {
	if !s.has(key) {
		return def, nil
	}
	return s.string(key)
}

func (s *section) boolOr(key string, def bool) (bool, error) {
	if !s.has(key) {
		return def, nil
	}
	n, _ := s.lookup(key)
	return decodeScalar[bool](s, key, n, "a boolean")
}

func (s *section) sub(key string) (*section, error) {
	n, err := s.require(key)
	if err != nil {
		return nil, err
	}
	return newSection(s.at(key), n)
}

// only returns the single key of a mapping that must hold exactly one.
func (s *section) only() (string, *section, error) {
	if len(s.keys) != 1 {
		names := make([]string, 0, len(s.keys))
		for k := range s.keys {
			names = append(names, k)
		}
		sort.Strings(names)
		return "", nil, &Error{Path: s.path, Err: fmt.Errorf("%w, got %d %v", ErrVariantCount, len(names), names)}
	}
	for k := range s.keys {
		sub, err := s.sub(k)
		return k, sub, err
	}
	panic("unreachable")
}

// done reports the first key that was never read.
func (s *section) done() error {
	var unused []string
	for k := range s.keys {
		if !s.used[k] {
			unused = append(unused, k)
		}
	}
	if len(unused) == 0 {
		return nil
	}
	sort.Strings(unused)
	return &Error{Path: s.at(unused[0]), Err: ErrUnknownKey}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return fmt.Sprintf("scalar %q", n.Value)
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "nothing"
	}
}
