package notify

import "github.com/maxiaolu1981/cretem/nexuscore/log"

// Log 把通知写入结构化日志，用于无人值守场景（脚本、定时任务）。
type Log struct{}

func (Log) Success(msg string) {
	log.Infow("操作成功", "message", msg)
	record("success")
}

func (Log) Error(msg string) {
	log.Errorw("操作失败", "message", msg)
	record("error")
}
