package config

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "GII"

// Loader 持有 viper 实例与最近一次成功解析的配置
type Loader struct {
	v        *viper.Viper
	path     string
	mu       sync.RWMutex
	conf     *Config
	onChange []func(*Config)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "gii")
	v.SetDefault("http.addr", ":8090")
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("processor.workers", 4)
	return v
}

func load(configPath string) (*Loader, error) {
	l := &Loader{v: newViper(), path: configPath}
	if configPath != "" {
		l.v.SetConfigFile(configPath)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	conf, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.conf = conf
	return l, nil
}

func (l *Loader) decode() (*Config, error) {
	var conf Config
	err := l.v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// Path 返回使用的配置文件，没有文件时为空
func (l *Loader) Path() string { return l.path }

// Conf 返回当前配置快照
func (l *Loader) Conf() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.conf
}

// OnChange 注册配置热更新回调
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch 监听配置文件变更；解析失败时保留旧配置并通过 onError 通知
func (l *Loader) Watch(onError func(error)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		conf, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}

		l.mu.Lock()
		l.conf = conf
		callbacks := append([]func(*Config){}, l.onChange...)
		l.mu.Unlock()

		for _, fn := range callbacks {
			fn(conf)
		}
	})
	l.v.WatchConfig()
}

// Timeout 返回不小于 min 的超时时间
func Timeout(d, min time.Duration) time.Duration {
	if d < min {
		return min
	}
	return d
}
