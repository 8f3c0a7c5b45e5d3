// Package loadbalancer 按权重随机选择渠道的供应商
package loadbalancer

import (
	"fmt"
	"math/rand"
	"sort"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
)

// Weights 渠道 => 供应商 => 权重
type Weights map[domain.Channel]map[domain.VendorType]int

// LoadBalancer 启动时构建，之后只读，不需要加锁
type LoadBalancer struct {
	// 每个供应商按权重重复出现
	expanded map[domain.Channel][]domain.VendorType
	intn     func(n int) int
}

type Option func(lb *LoadBalancer)

// WithIntn 替换随机数来源，测试用
func WithIntn(intn func(n int) int) Option {
	return func(lb *LoadBalancer) {
		lb.intn = intn
	}
}

// NewLoadBalancer 权重小于等于 0 的供应商会被忽略
func NewLoadBalancer(weights Weights, opts ...Option) *LoadBalancer {
	lb := &LoadBalancer{
		expanded: make(map[domain.Channel][]domain.VendorType, len(weights)),
		intn:     rand.Intn,
	}
	for ch, vendors := range weights {
		// 保证展开顺序稳定
		names := make([]domain.VendorType, 0, len(vendors))
		for v := range vendors {
			names = append(names, v)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		var list []domain.VendorType
		for _, v := range names {
			for i := 0; i < vendors[v]; i++ {
				list = append(list, v)
			}
		}
		if len(list) > 0 {
			lb.expanded[ch] = list
		}
	}
	for _, opt := range opts {
		opt(lb)
	}
	return lb
}

// PickVendor 渠道没有配置供应商时返回错误，不会默认选一个
func (lb *LoadBalancer) PickVendor(channel domain.Channel) (domain.VendorType, error) {
	list := lb.expanded[channel]
	if len(list) == 0 {
		return "", fmt.Errorf("%w: channel=%s", errs.ErrNoVendorConfigured, channel)
	}
	return list[lb.intn(len(list))], nil
}
