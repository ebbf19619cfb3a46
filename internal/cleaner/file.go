package cleaner

import (
	"emailcleaner/pkg/serrors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReferenceFile is the on-disk representation of reference data:
//
//	domains:
//	  - gmail.com
//	typos:
//	  gmial.com: gmail.com
type ReferenceFile struct {
	Domains []string          `yaml:"domains"`
	Typos   map[string]string `yaml:"typos"`
}

// DecodeReferenceFile parses reference data from r.
func DecodeReferenceFile(r io.Reader) (*ReferenceFile, error) {
	var f ReferenceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, serrors.Wrap(serrors.ErrConfiguration, err, "could not decode reference file")
	}

	return &f, nil
}

// LoadReferenceFile reads reference data from the YAML file at path.
func LoadReferenceFile(path string) (*ReferenceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrConfiguration, err, "could not open reference file")
	}
	defer f.Close()

	ref, err := DecodeReferenceFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ref, nil
}

// Canonical returns a copy with every domain and typo lowercased and stripped of
// surrounding dots, the form the reference table stores them in.
func (f *ReferenceFile) Canonical() *ReferenceFile {
	out := &ReferenceFile{
		Domains: make([]string, len(f.Domains)),
		Typos:   make(map[string]string, len(f.Typos)),
	}
	for i, d := range f.Domains {
		out.Domains[i] = canonicalDomain(d)
	}
	for typo, d := range f.Typos {
		out.Typos[canonicalDomain(typo)] = canonicalDomain(d)
	}

	return out
}
