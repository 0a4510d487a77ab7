package commands

import (
	devenv "cyclestats/dev/env"
	"cyclestats/lib/configutil"
	configsqlite "cyclestats/lib/configutil/sqlite"
	"cyclestats/lib/serviceutil"
)

type WikipediaConfig struct {
	// OriginalDir receives harvested tables.
	OriginalDir string `json:"original_dir"`
	// CleanedDir is where the cache command loads tables from.
	CleanedDir  string   `json:"cleaned_dir"`
	URLTemplate string   `json:"url_template"`
	TableClass  string   `json:"table_class"`
	Topics      []string `json:"topics"`
}

type ProcyclingstatsConfig struct {
	BaseUrl string `json:"base_url"`
}

type Config struct {
	Wikipedia       WikipediaConfig       `json:"wikipedia"`
	Procyclingstats ProcyclingstatsConfig `json:"procyclingstats"`
	// StagesDB is where harvested stages are saved, nothing is saved when
	// it is empty and --db is not given.
	StagesDB configsqlite.Struct `json:"stages_db"`
}

var defaultConfig = Config{
	Wikipedia: WikipediaConfig{
		OriginalDir: "<dev_state>/wikipedia/original",
		CleanedDir:  "<dev_state>/wikipedia/cleaned",
		Topics: []string{
			"Tour de Francia",
			"Giro de Italia",
			"Vuelta a España",
		},
	},
}

func loadConfig() Config {
	cfg, err := configutil.ReadWithDefaults(configPath, defaultConfig)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func resolvePath(path string) string {
	resolved, err := devenv.ResolvePath(path)
	if err != nil {
		serviceutil.Fatal("failed to resolve path", err)
	}
	return resolved
}
