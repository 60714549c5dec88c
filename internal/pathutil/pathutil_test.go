package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPathsEnvironment(t *testing.T) {
	cases := []struct {
		Name   string
		Env    string
		Config string
		Bolt   string
		Log    string
	}{
		{"default", "", "config.yml", "orient.db", "orient.log"},
		{"blank", "  ", "config.yml", "orient.db", "orient.log"},
		{"development", "dev", "config_dev.yml", "orient_dev.db", "orient_dev.log"},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			p := newPaths(tc.Env)

			assert.Equal(t, tc.Config, p.configFileName)
			assert.Equal(t, tc.Bolt, p.boltFileName)
			assert.Equal(t, tc.Log, p.logFileName)
		})
	}
}
