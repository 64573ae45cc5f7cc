package client

import "net/http"

// route 描述一个用户接口：HTTP 方法、路径模板及成功状态码。
// 路径与 iam-apiserver 的路由注册保持一致。
type route struct {
	method        string
	pathTemplate  string
	successStatus int
}

var routes = map[string]route{
	"user.list":   {http.MethodGet, "/v1/users", http.StatusOK},
	"user.get":    {http.MethodGet, "/v1/users/%d", http.StatusOK},
	"user.create": {http.MethodPost, "/v1/users", http.StatusCreated},
	"user.update": {http.MethodPut, "/v1/users/%d", http.StatusOK},
	"user.delete": {http.MethodDelete, "/v1/users/%d", http.StatusNoContent},
	"auth.login":  {http.MethodPost, "/login", http.StatusOK},
	"auth.refresh": {
		http.MethodGet, "/refresh", http.StatusOK,
	},
}
