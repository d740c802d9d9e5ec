package config

import "github.com/urfave/cli/v3"

// Firestore holds mirror record store configuration
type Firestore struct {
	ProjectID  string
	DatabaseID string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID for the mirror record store (in-memory store when empty)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("DROVER_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID (default database when empty)",
			Destination: &c.DatabaseID,
			Sources:     cli.EnvVars("DROVER_FIRESTORE_DATABASE_ID"),
		},
	}
}

// Enabled reports whether Firestore persistence is configured
func (c *Firestore) Enabled() bool {
	return c.ProjectID != ""
}
