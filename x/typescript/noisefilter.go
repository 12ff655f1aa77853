package typescript

import "strings"

// NoiseFilter 过滤项目扫描时不属于实体的文件
type NoiseFilter struct{}

func NewTsNoiseFilter() *NoiseFilter {
	return &NoiseFilter{}
}

func (f *NoiseFilter) IsNoise(name string) bool {
	if strings.HasPrefix(name, ".") || name == "node_modules" || name == "index.ts" {
		return true
	}
	noiseSuffixes := []string{".d.ts", ".spec.ts", ".test.ts", ".map"}
	for _, s := range noiseSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
