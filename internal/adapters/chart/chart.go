// Package chart reads charts of accounts from YAML files.
package chart

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/general_ledger/internal/dto"
)

// File is the on-disk layout of a chart:
//
//	accounts:
//	  - code: "1000"
//	    name: Cash
//	    type: ASSET
//	  - code: "1010"
//	    name: Petty cash
//	    type: ASSET
//	    parent: "1000"
type File struct {
	Accounts []dto.CreateAccountRequest `yaml:"accounts"`
}

// Load decodes a chart from r. Parents must be listed before their children.
func Load(r io.Reader) ([]dto.CreateAccountRequest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("chart is empty")
		}
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Accounts))
	for i, a := range f.Accounts {
		if a.Code == "" {
			return nil, fmt.Errorf("account #%d has no code", i+1)
		}
		if _, dup := seen[a.Code]; dup {
			return nil, fmt.Errorf("account code %s listed twice", a.Code)
		}
		if a.ParentCode != "" {
			if _, ok := seen[a.ParentCode]; !ok {
				return nil, fmt.Errorf("account %s: parent %s must be listed before it", a.Code, a.ParentCode)
			}
		}
		seen[a.Code] = struct{}{}
	}
	return f.Accounts, nil
}

// LoadFile decodes the chart stored at path.
func LoadFile(path string) ([]dto.CreateAccountRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chart: %w", err)
	}
	defer f.Close()
	return Load(f)
}
