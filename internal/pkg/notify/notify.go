// Package notify 定义通知接收器：把操作结果以短消息的形式反馈给终端用户。
// 客户端只负责把成功/失败消息路由到这里，展示方式由具体实现决定。
package notify

import "github.com/maxiaolu1981/cretem/umctl/internal/pkg/metrics"

// Notifier 是通知接收器接口。实现必须可安全并发调用。
type Notifier interface {
	// Success 发布一条操作成功的提示。
	Success(msg string)
	// Error 发布一条操作失败的提示。
	Error(msg string)
}

// 统一记录通知指标，避免每个实现重复埋点。
func record(level string) {
	metrics.NotificationsEmitted.WithLabelValues(level).Inc()
}

// Noop 丢弃所有通知，用于不需要用户提示的场景。
type Noop struct{}

func (Noop) Success(string) {}
func (Noop) Error(string)   {}
