package ioc

import (
	"time"

	"github.com/gotomicro/ego/core/econf"
	"github.com/sony/sonyflake"
)

func InitIDGenerator() *sonyflake.Sonyflake {
	type Config struct {
		MachineID uint16 `yaml:"machineID"`
	}
	cfg := Config{MachineID: 1}
	err := econf.UnmarshalKey("idGenerator", &cfg)
	if err != nil {
		panic(err)
	}
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID: func() (uint16, error) {
			return cfg.MachineID, nil
		},
	})
	if sf == nil {
		panic("sonyflake 初始化失败")
	}
	return sf
}
