/*
umctl 包组装命令行应用：login 维护会话，user 子命令覆盖用户资源的
增删改查。所有子命令共享同一套全局配置（server/cache/redis/ratelimit/logs）。
*/
package umctl

import (
	"github.com/maxiaolu1981/cretem/umctl/internal/umctl/options"
	"github.com/maxiaolu1981/cretem/umctl/pkg/app"
)

const commandDesc = `umctl 是 iam-apiserver 用户管理接口的控制台客户端。
查询结果经本地或 redis 缓存，创建/更新/删除成功后自动让相关缓存失效，
保证下一次查询取到最新数据。`

// NewApp 创建 umctl 应用。
func NewApp(basename string) *app.App {
	opts := options.NewOptions()

	application := app.NewApp(basename, "umctl",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithCommands(
			newLoginCommand(opts),
			newUserCommand(opts),
		),
	)

	return application
}
