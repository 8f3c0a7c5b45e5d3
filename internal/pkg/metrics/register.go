// Package metrics prometheus 指标注册
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Register registerer 为 nil 时使用 prometheus.DefaultRegisterer，
// 同名指标已经注册过时返回已有的，其他注册错误直接 panic
func Register[T prometheus.Collector](registerer prometheus.Registerer, c T) T {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
