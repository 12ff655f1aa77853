package config

import "time"

type Config struct {
	App       AppConfig       `yaml:"app" mapstructure:"app"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Projects  []ProjectConfig `yaml:"projects" mapstructure:"projects"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Processor ProcessorConfig `yaml:"processor" mapstructure:"processor"`
}

type AppConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ProjectConfig 是一个被管理的项目，Name 为空时取目录名
type ProjectConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	Path string `yaml:"path" mapstructure:"path"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type ProcessorConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}
