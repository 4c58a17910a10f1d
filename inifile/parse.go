// Package inifile parses the propq.ini configuration file: named
// [section] headers followed by key = value lines, with # and ;
// comments. Typed lookups cover the numeric knobs run configuration
// needs.
package inifile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// File is a parsed INI file.
type File struct {
	Sections []Section
}

// Section is a named group of key-value pairs, order preserved.
type Section struct {
	Name   string
	Values []KeyValue
}

// KeyValue is one key = value line.
type KeyValue struct {
	Key   string
	Value string
}

// Parse reads an INI file from the reader. Keys seen before any section
// header and lines without '=' are ignored.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	var current *Section

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.ToLower(strings.Trim(line, "[]"))
			f.Sections = append(f.Sections, Section{Name: name})
			current = &f.Sections[len(f.Sections)-1]
			continue
		}

		if current == nil {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		current.Values = append(current.Values, KeyValue{
			Key:   strings.ToLower(strings.TrimSpace(key)),
			Value: strings.TrimSpace(value),
		})
	}

	return f, scanner.Err()
}

// ParseFile reads and parses an INI file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Section returns the named section (case-insensitive), or nil.
func (f *File) Section(name string) *Section {
	name = strings.ToLower(name)
	for i := range f.Sections {
		if f.Sections[i].Name == name {
			return &f.Sections[i]
		}
	}
	return nil
}

// Get returns the last value for a key in a section, or "".
func (f *File) Get(section, key string) string {
	s := f.Section(section)
	if s == nil {
		return ""
	}
	return s.Get(key)
}

// Get returns the last value for a key (case-insensitive), or "".
func (s *Section) Get(key string) string {
	key = strings.ToLower(key)
	var result string
	for _, kv := range s.Values {
		if kv.Key == key {
			result = kv.Value
		}
	}
	return result
}

// GetInt returns the key's value as an int, or the fallback when the key
// is absent or malformed.
func (s *Section) GetInt(key string, fallback int) int {
	v := s.Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetInt64 returns the key's value as an int64, or the fallback.
func (s *Section) GetInt64(key string, fallback int64) int64 {
	v := s.Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// GetFloat returns the key's value as a float64, or the fallback.
func (s *Section) GetFloat(key string, fallback float64) float64 {
	v := s.Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

// HasKey reports whether the section contains the key.
func (s *Section) HasKey(key string) bool {
	key = strings.ToLower(key)
	for _, kv := range s.Values {
		if kv.Key == key {
			return true
		}
	}
	return false
}
