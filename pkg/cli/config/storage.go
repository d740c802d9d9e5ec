package config

import "github.com/urfave/cli/v3"

// Storage holds webhook payload archival configuration
type Storage struct {
	Bucket string
}

// Flags returns CLI flags for Cloud Storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket for webhook payload archival (disabled when empty)",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("DROVER_ARCHIVE_BUCKET"),
		},
	}
}

// Enabled reports whether payload archival is configured
func (c *Storage) Enabled() bool {
	return c.Bucket != ""
}
