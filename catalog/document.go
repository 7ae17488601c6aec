package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	// ErrMalformedCatalog is returned when a catalog document does not match the schema.
	ErrMalformedCatalog = errors.New("catalog: malformed catalog document")

	// ErrUnknownFormat is returned for catalog files with an unsupported extension.
	ErrUnknownFormat = errors.New("catalog: unknown document format")
)

// Format identifies the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Document is the decoded catalog document.
type Document struct {
	Types []DocumentType `json:"types" yaml:"types"`
}

// DocumentType is one entry of the document's "types" list.
type DocumentType struct {
	Name    string           `json:"name"    yaml:"name"`
	Members []DocumentMember `json:"members" yaml:"members"`
}

// DocumentMember is one member of a DocumentType. Params may be absent.
type DocumentMember struct {
	Name       string          `json:"name"       yaml:"name"`
	MemberType string          `json:"membertype" yaml:"membertype"`
	Type       string          `json:"type"       yaml:"type"`
	Static     bool            `json:"static"     yaml:"static"`
	Params     []DocumentParam `json:"params"     yaml:"params"`
}

// DocumentParam is one method parameter.
type DocumentParam struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Decode reads a catalog document. Empty input yields an empty document.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read document: %w", err)
	}

	return decodeBytes(data, format)
}

func decodeBytes(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}

	return doc, nil
}

// BuildBytes decodes data and builds a snapshot fingerprinted with its hash.
func BuildBytes(data []byte, format Format) (*Snapshot, error) {
	doc, err := decodeBytes(data, format)
	if err != nil {
		return nil, err
	}

	snap, err := Build(doc)
	if err != nil {
		return nil, err
	}

	snap.Fingerprint = xxhash.Sum64(data)

	return snap, nil
}

// Build converts a decoded document into a snapshot, normalizing primitive
// aliases and rejecting unknown member tags. A nil document builds an empty
// snapshot.
func Build(doc *Document) (*Snapshot, error) {
	snap := &Snapshot{byName: map[string]int{}}
	if doc == nil {
		return snap, nil
	}

	snap.types = make([]TypeEntry, 0, len(doc.Types))

	for ti, dt := range doc.Types {
		if dt.Name == "" {
			return nil, fmt.Errorf("%w: type #%d has no name", ErrMalformedCatalog, ti)
		}

		entry := TypeEntry{
			Name:    NormalizeType(dt.Name),
			Members: make([]MemberEntry, 0, len(dt.Members)),
		}

		for _, dm := range dt.Members {
			member, err := buildMember(dm)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", dt.Name, err)
			}

			entry.Members = append(entry.Members, member)
		}

		if _, dup := snap.byName[entry.Name]; !dup {
			snap.byName[entry.Name] = len(snap.types)
		}

		snap.types = append(snap.types, entry)
	}

	return snap, nil
}

func buildMember(dm DocumentMember) (MemberEntry, error) {
	if dm.Name == "" {
		return MemberEntry{}, fmt.Errorf("%w: member without name", ErrMalformedCatalog)
	}

	kind, err := ParseMemberKind(dm.MemberType)
	if err != nil {
		return MemberEntry{}, fmt.Errorf("member %s: %w", dm.Name, err)
	}

	params := make([]ParamEntry, 0, len(dm.Params))
	for _, dp := range dm.Params {
		if dp.Name == "" || dp.Type == "" {
			return MemberEntry{}, fmt.Errorf("%w: member %s has a parameter without name or type",
				ErrMalformedCatalog, dm.Name)
		}

		params = append(params, ParamEntry{
			Name:         dp.Name,
			DeclaredType: NormalizeType(dp.Type),
		})
	}

	return MemberEntry{
		Name:         dm.Name,
		Kind:         kind,
		Params:       params,
		DeclaredType: NormalizeType(dm.Type),
		Static:       dm.Static,
	}, nil
}
