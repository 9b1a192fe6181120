package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultInputFile    = "../about/Data.xlsx"
	DefaultOutputFile   = "./ratoolkit_output.html"
	DefaultBackupDir    = "./ratoolkit_backups"
	DefaultBackupPrefix = "raBACKUP"
	DefaultHomeDir      = "Riot Acts Toolkit"
)

type Config struct {
	InputFile    string
	OutputFile   string
	BackupDir    string
	BackupPrefix string
	// AllowNewOutput lets a conversion create the output file instead of
	// requiring it to exist already.
	AllowNewOutput bool
	// HomeDir is the directory name the toolkit expects to be run from.
	HomeDir string
}

// Load reads an optional .env file from the working directory and then
// builds the configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		InputFile:      getEnv("RATOOLKIT_INPUT", DefaultInputFile),
		OutputFile:     getEnv("RATOOLKIT_OUTPUT", DefaultOutputFile),
		BackupDir:      getEnv("RATOOLKIT_BACKUP_DIR", DefaultBackupDir),
		BackupPrefix:   getEnv("RATOOLKIT_BACKUP_PREFIX", DefaultBackupPrefix),
		AllowNewOutput: getBool("RATOOLKIT_ALLOW_NEW_OUTPUT", false),
		HomeDir:        getEnv("RATOOLKIT_HOME_DIR", DefaultHomeDir),
	}
}

// InHomeDir reports whether the working directory is the toolkit's home.
func (c *Config) InHomeDir() bool {
	wd, err := os.Getwd()
	if err != nil {
		return false
	}
	return filepath.Base(wd) == c.HomeDir
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
