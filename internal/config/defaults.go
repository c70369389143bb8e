package config

const (
	defaultServiceDir    = "~/mewc/service"
	defaultOutputTable   = "~/mewc/table/mewc_species_table"
	defaultDataTablesDir = "~/mewc/data_tables"
	defaultLogDir        = "~/.local/share/mewc-table/logs"
	defaultLogFormat     = "auto"
	defaultLogLevel      = "info"

	defaultIndepEventIntervalMinutes  = 5
	defaultLowConfidenceProbThreshold = 0.2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ServiceDir:    defaultServiceDir,
			OutputTable:   defaultOutputTable,
			DataTablesDir: defaultDataTablesDir,
			LogDir:        defaultLogDir,
		},
		Events: Events{
			IndepEventIntervalMinutes:  defaultIndepEventIntervalMinutes,
			LowConfidenceProbThreshold: defaultLowConfidenceProbThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
