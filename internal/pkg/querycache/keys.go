// Package querycache 缓存用户查询的响应，写操作成功后按前缀整体失效。
package querycache

import "fmt"

const (
	// ListPrefix 是所有用户列表缓存键的公共前缀，失效时按此前缀批量删除。
	ListPrefix = "console:users:list:"

	detailKeyFormat = "console:users:detail:%d"
)

// ListKey returns the cache key for a role-filtered user list.
// An empty role maps to the "all" segment.
func ListKey(role string) string {
	if role == "" {
		role = "all"
	}
	return ListPrefix + role
}

// DetailKey returns the cache key for a single user's detail.
func DetailKey(id uint64) string {
	return fmt.Sprintf(detailKeyFormat, id)
}
