package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// 所有服务共用一个 topic exchange，progress.updated 等事件按 routing key 分发
const (
	ExchangeName = "events"
)

// NewConnection 建立到 RabbitMQ 的连接
func NewConnection(url string) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// DeclareExchange 声明事件 exchange，publisher 和 consumer 两侧都要声明
func DeclareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
