package config

// Config holds client configuration values.
type Config struct {
	ServerURL     string `mapstructure:"server_url" yaml:"server_url"`
	Nick          string `mapstructure:"nick" yaml:"nick"`
	RootBuffer    string `mapstructure:"root_buffer" yaml:"root_buffer"`
	CommandPrefix string `mapstructure:"command_prefix" yaml:"command_prefix"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		ServerURL:     "ws://localhost:8080/ws",
		Nick:          "guest",
		RootBuffer:    "server",
		CommandPrefix: "/",
		LogLevel:      "info",
		LogFile:       "",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.Nick != "" {
		c.Nick = other.Nick
	}
	if other.RootBuffer != "" {
		c.RootBuffer = other.RootBuffer
	}
	if other.CommandPrefix != "" {
		c.CommandPrefix = other.CommandPrefix
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
}
