package model

import (
	"os"

	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Policy maps source repositories to mirror targets. Without a rule
// for a source, DefaultTarget applies.
type Policy struct {
	DefaultTarget string       `toml:"default_target"`
	Rules         []PolicyRule `toml:"rule"`
}

// PolicyRule routes releases of one source repository to a target.
type PolicyRule struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

// ParsePolicy parses a TOML policy document.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse mirror policy")
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadPolicy reads and parses a TOML policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read mirror policy file", goerr.V("path", path))
	}
	return ParsePolicy(data)
}

// Validate checks that all repository notations in the policy parse.
func (p *Policy) Validate() error {
	if p.DefaultTarget != "" {
		if _, err := ParseRepo(p.DefaultTarget); err != nil {
			return err
		}
	}
	for _, r := range p.Rules {
		if _, err := ParseRepo(r.Source); err != nil {
			return err
		}
		if _, err := ParseRepo(r.Target); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the mirror target for a source repository.
func (p *Policy) Resolve(source RepoRef) (RepoRef, error) {
	for _, r := range p.Rules {
		if r.Source == source.String() {
			return ParseRepo(r.Target)
		}
	}

	if p.DefaultTarget != "" {
		return ParseRepo(p.DefaultTarget)
	}

	return RepoRef{}, goerr.Wrap(types.ErrNoTarget, "no policy rule matches", goerr.V("source", source.String()))
}
