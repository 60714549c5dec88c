// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const envVar = "ORIENT_ENV"

// Paths holds all application path configurations.
type Paths struct {
	appDir         string
	configFileName string
	boltFileName   string
	sqliteFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dataDir        string
	logFilePath    string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

// Initialize must be called once at program startup.
func Initialize() error {
	once.Do(func() {
		paths = newPaths(os.Getenv(envVar))
		initErr = paths.computePaths()
	})

	return initErr
}

func newPaths(env string) *Paths {
	p := &Paths{
		appDir:         "orient",
		configFileName: "config.yml",
		boltFileName:   "orient.db",
		sqliteFileName: "orient.sqlite",
		logFileName:    "orient.log",
	}

	if env = strings.TrimSpace(env); env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.boltFileName = fmt.Sprintf("orient_%s.db", env)
		p.sqliteFileName = fmt.Sprintf("orient_%s.sqlite", env)
		p.logFileName = fmt.Sprintf("orient_%s.log", env)
	}

	return p
}

func must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func ConfigFilePath() string {
	return must().configFilePath
}

// StoreFilePath returns the default database file for a store driver.
func StoreFilePath(driver string) string {
	p := must()

	if driver == "sqlite" {
		return filepath.Join(p.dataDir, p.sqliteFileName)
	}

	return filepath.Join(p.dataDir, p.boltFileName)
}

func LogFilePath() string {
	return must().logFilePath
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.appDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	p.dataDir, err = xdg.DataFile(p.appDir)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(p.dataDir, 0o750); err != nil {
		return err
	}

	p.logFilePath = filepath.Join(p.dataDir, "log", p.logFileName)

	return nil
}
