package config

const (
	defaultConfigPath    = "~/.config/crqa/config.toml"
	defaultDataDir       = "~/.local/share/crqa"
	defaultLogDir        = "~/.local/share/crqa/logs"
	defaultRadius        = 0.5
	defaultEmbed         = 1
	defaultMinLine       = 2
	defaultTheilerWindow = 1
	defaultMatch         = "categorical"
	defaultNorm          = "euclidean"
	defaultLAMDirection  = "vertical"
	defaultProfileMaxLag = 5
	defaultNAString      = "NA"
	defaultPrecision     = 6
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Analysis: Analysis{
			Radius:        defaultRadius,
			Delay:         0,
			Embed:         defaultEmbed,
			MinDiagLine:   defaultMinLine,
			MinVertLine:   defaultMinLine,
			TheilerWindow: defaultTheilerWindow,
			Match:         defaultMatch,
			Norm:          defaultNorm,
			LAMDirection:  defaultLAMDirection,
			ProfileMaxLag: defaultProfileMaxLag,
		},
		Report: Report{
			CoalesceNA: true,
			NAString:   defaultNAString,
			Precision:  defaultPrecision,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
