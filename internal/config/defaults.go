package config

const (
	defaultStorageRoot      = "~/.local/share/packsmith/packs"
	defaultLogDir           = "~/.local/share/packsmith/logs"
	defaultAPIBind          = "127.0.0.1:7621"
	defaultDownloadTimeout  = 1200
	defaultFFmpegBinary     = "ffmpeg"
	defaultAudioSampleRate  = 16000
	defaultAudioChannels    = 1
	defaultWorkers          = 4
	defaultTranscodeTimeout = 120
	defaultGatewayTimeout   = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageRoot: defaultStorageRoot,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Bundle: Bundle{
			DownloadTimeout: defaultDownloadTimeout,
		},
		Normalize: Normalize{
			FFmpegBinary:     defaultFFmpegBinary,
			AudioSampleRate:  defaultAudioSampleRate,
			AudioChannels:    defaultAudioChannels,
			Workers:          defaultWorkers,
			TranscodeTimeout: defaultTranscodeTimeout,
		},
		Gateway: Gateway{
			RequestTimeout: defaultGatewayTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
