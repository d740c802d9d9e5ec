package config

import (
	"time"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Mirror holds mirror routing configuration
type Mirror struct {
	TargetRepo string
	Timezone   string
	PolicyPath string
}

// Flags returns CLI flags for mirror configuration
func (c *Mirror) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "target",
			Usage:       "Default mirror target repository (owner/name)",
			Destination: &c.TargetRepo,
			Sources:     cli.EnvVars("DROVER_TARGET"),
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA time zone for the date tag",
			Value:       "UTC",
			Destination: &c.Timezone,
			Sources:     cli.EnvVars("DROVER_TIMEZONE"),
		},
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Path to TOML mirror policy file",
			Destination: &c.PolicyPath,
			Sources:     cli.EnvVars("DROVER_POLICY"),
		},
	}
}

// Location resolves the configured time zone
func (c *Mirror) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid time zone", goerr.V("timezone", c.Timezone))
	}
	return loc, nil
}

// Policy builds the routing policy from the policy file and/or the
// default target flag. The flag overrides the file's default target.
func (c *Mirror) Policy() (*model.Policy, error) {
	policy := &model.Policy{}

	if c.PolicyPath != "" {
		loaded, err := model.LoadPolicy(c.PolicyPath)
		if err != nil {
			return nil, err
		}
		policy = loaded
	}

	if c.TargetRepo != "" {
		if _, err := model.ParseRepo(c.TargetRepo); err != nil {
			return nil, err
		}
		policy.DefaultTarget = c.TargetRepo
	}

	return policy, nil
}
