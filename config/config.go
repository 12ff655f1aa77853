package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// ErrConfigNotFound 向上查找也没有找到配置文件
var ErrConfigNotFound = errors.New("config file not found")

// Load 读取配置：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`；
// 3) 都没有时只使用默认值与环境变量。
func Load(cfgName string) (*Loader, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	if cfgName != "" {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if !fileExist(cfgName) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, cfgName)
		}
		return load(cfgName)
	}

	path, err := findConfigUpward(curDir)
	if errors.Is(err, ErrConfigNotFound) {
		return load("")
	}
	if err != nil {
		return nil, err
	}
	return load(path)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w, searched %s from: %s", ErrConfigNotFound, defaultConfigRelPath, startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
