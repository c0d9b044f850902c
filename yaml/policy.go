// Package yaml loads extractor policies from YAML files.
//
// A policy file looks like:
//
//	version: 1
//	policies:
//	  favorites:
//	    shortfall: malformed
//	  limits:
//	    shortfall: not_applicable
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ehviewer/ehparse"
	"gopkg.in/yaml.v3"
)

const (
	// MaxPolicyFileSize is the largest policy file Load accepts.
	MaxPolicyFileSize = 64 * 1024

	// SupportedVersion is the policy file format version.
	SupportedVersion = 1
)

// PolicyFile is the on-disk form of ehparse.Policies.
type PolicyFile struct {
	Version  int                             `yaml:"version"`
	Policies map[ehparse.Kind]ehparse.Policy `yaml:"policies"`
}

// Validate checks the version, the kinds and every policy.
func (f *PolicyFile) Validate() error {
	if f.Version != SupportedVersion {
		return ehparse.Errorf(ehparse.EINVALID, "unsupported policy file version %d (want %d)", f.Version, SupportedVersion)
	}
	known := make(map[ehparse.Kind]bool)
	for _, k := range ehparse.Kinds() {
		known[k] = true
	}
	for kind, p := range f.Policies {
		if !known[kind] {
			return ehparse.Errorf(ehparse.EINVALID, "unknown page kind %q", kind)
		}
		if err := p.Validate(); err != nil {
			return ehparse.Errorf(ehparse.EINVALID, "%s: %s", kind, ehparse.ErrorMessage(err))
		}
	}
	return nil
}

// Load reads a policy file from path.
func Load(path string) (ehparse.Policies, error) {
	f, err := os.Open(path)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, ehparse.Errorf(ehparse.EINVALID, "failed to open policy file: %s: %v", pathErr.Op, pathErr.Err)
		}
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to open policy file: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to stat policy file: %v", err)
	}
	if !info.Mode().IsRegular() {
		return nil, ehparse.Errorf(ehparse.EINVALID, "policy file must be a regular file")
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxPolicyFileSize+1))
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to read policy file: %v", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a policy file. Unknown fields are rejected.
func LoadBytes(data []byte) (ehparse.Policies, error) {
	if len(data) == 0 {
		return nil, ehparse.Errorf(ehparse.EINVALID, "policy file is empty")
	}
	if len(data) > MaxPolicyFileSize {
		return nil, ehparse.Errorf(ehparse.EINVALID, "policy file too large: %d bytes (max %d)", len(data), MaxPolicyFileSize)
	}

	var pf PolicyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to parse YAML: %v", err)
	}
	if err := pf.Validate(); err != nil {
		return nil, err
	}

	policies := make(ehparse.Policies, len(pf.Policies))
	for kind, p := range pf.Policies {
		policies[kind] = p
	}
	return policies, nil
}

// Marshal renders policies as a policy file.
func Marshal(policies ehparse.Policies) ([]byte, error) {
	data, err := yaml.Marshal(&PolicyFile{Version: SupportedVersion, Policies: policies})
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINTERNAL, "failed to render policies: %v", err)
	}
	return data, nil
}
