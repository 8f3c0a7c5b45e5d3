package ioc

import (
	"gitee.com/flycash/communication-platform/internal/event/actor"
	"gitee.com/flycash/communication-platform/internal/event/communication"
	actorsvc "gitee.com/flycash/communication-platform/internal/service/actor"
	"gitee.com/flycash/communication-platform/internal/service/derivation"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/gotomicro/ego/core/econf"
)

type kafkaConfig struct {
	BootstrapServers string `yaml:"bootstrapServers"`
	GroupID          string `yaml:"groupID"`
	Topics           struct {
		Communication string `yaml:"communication"`
		AppToken      string `yaml:"appToken"`
		CommDetails   string `yaml:"commDetails"`
	} `yaml:"topics"`
}

func loadKafkaConfig() kafkaConfig {
	var cfg kafkaConfig
	if err := econf.UnmarshalKey("kafka", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

// newKafkaConsumer 关闭自动提交，消息处理完之后由消费者自己提交
func newKafkaConsumer(cfg kafkaConfig, groupSuffix string, topics ...string) *kafka.Consumer {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.BootstrapServers,
		"group.id":           cfg.GroupID + groupSuffix,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": "false",
	})
	if err != nil {
		panic(err)
	}
	if err = consumer.SubscribeTopics(topics, nil); err != nil {
		panic(err)
	}
	return consumer
}

func InitCommunicationEventConsumer(pipeline *derivation.Pipeline) *communication.EventConsumer {
	cfg := loadKafkaConfig()
	consumer := newKafkaConsumer(cfg, "", cfg.Topics.Communication)
	// 并发处理的消息数与流水线的在途上限保持一致
	return communication.NewEventConsumer(consumer, pipeline, econf.GetInt("derivation.maxInFlight"))
}

func InitActorEventConsumer(svc *actorsvc.Service) *actor.EventConsumer {
	cfg := loadKafkaConfig()
	consumer := newKafkaConsumer(cfg, "-actor", cfg.Topics.AppToken, cfg.Topics.CommDetails)
	return actor.NewEventConsumer(consumer, svc, actor.Topics{
		AppToken:    cfg.Topics.AppToken,
		CommDetails: cfg.Topics.CommDetails,
	})
}
