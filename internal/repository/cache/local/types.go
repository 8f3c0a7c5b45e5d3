package local

import "time"

// Config 本地缓存配置
type Config struct {
	Size            int           `yaml:"size"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

func indexBy[K comparable, V any](vals []V, keyOf func(v V) K) map[K]V {
	if vals == nil {
		return nil
	}
	res := make(map[K]V, len(vals))
	for _, v := range vals {
		res[keyOf(v)] = v
	}
	return res
}
