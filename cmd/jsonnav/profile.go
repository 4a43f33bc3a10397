package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/lattice-substrate/json-nav/naverr"
	"github.com/lattice-substrate/json-nav/navpath"
)

// profile lists the fields the fields command prints.
//
//	fields:
//	  - label: Chain ID
//	    path: chain_id
//	  - label: Memo
//	    path: memo
//	    optional: true
type profile struct {
	Fields []profileField `yaml:"fields"`
}

type profileField struct {
	Label    string `yaml:"label"`
	Path     string `yaml:"path"`
	Optional bool   `yaml:"optional,omitempty"`

	parsed navpath.Path
}

func loadProfile(name string) (*profile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, naverr.Wrap(naverr.InternalIO, -1, fmt.Sprintf("read profile %q", name), err)
	}
	return parseProfile(data)
}

func parseProfile(data []byte) (*profile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, naverr.New(naverr.CLIUsage, -1, "profile is empty")
	}
	var p profile
	if err := yaml.UnmarshalWithOptions(data, &p, yaml.DisallowUnknownField()); err != nil {
		return nil, naverr.Wrap(naverr.CLIUsage, -1, "decode profile", err)
	}
	if len(p.Fields) == 0 {
		return nil, naverr.New(naverr.CLIUsage, -1, "profile lists no fields")
	}
	for i := range p.Fields {
		f := &p.Fields[i]
		if f.Label == "" {
			f.Label = f.Path
		}
		parsed, err := navpath.Parse(f.Path)
		if err != nil {
			return nil, fmt.Errorf("profile field %q: %w", f.Label, err)
		}
		f.parsed = parsed
	}
	return &p, nil
}
