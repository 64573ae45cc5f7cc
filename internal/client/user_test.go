package client

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	v1 "github.com/maxiaolu1981/cretem/umctl/pkg/api/v1"

	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/querycache"
)

func validCreateRequest(name string) *v1.CreateUserRequest {
	return &v1.CreateUserRequest{
		Name:     name,
		Password: "Pass1234!",
		Email:    name + "@example.com",
		Role:     v1.RoleStudent,
	}
}

func TestListUsersCachesResult(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	fake.addUser("zhangsan", "zhangsan@example.com", v1.RoleStudent)

	c := newTestClient(fake, &recorderNotifier{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := c.ListUsers(ctx, "")
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(list.Items) != 1 {
			t.Fatalf("expected 1 user, got %d", len(list.Items))
		}
	}

	if calls := atomic.LoadInt64(&fake.listCalls); calls != 1 {
		t.Fatalf("expected 1 upstream list call, got %d", calls)
	}
}

func TestCreateThenListReturnsCreatedUser(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	fake.addUser("existing", "existing@example.com", v1.RoleTeacher)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)
	ctx := context.Background()

	// 先把列表缓存填上
	if _, err := c.ListUsers(ctx, ""); err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}

	created, err := c.CreateUser(ctx, validCreateRequest("lisi"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("created user has no id")
	}

	// 创建成功后列表缓存应已失效，这次查询必须取到新用户
	list, err := c.ListUsers(ctx, "")
	if err != nil {
		t.Fatalf("ListUsers after create failed: %v", err)
	}
	found := false
	for _, u := range list.Items {
		if u.Name == "lisi" {
			found = true
		}
	}
	if !found {
		t.Fatalf("created user missing from refreshed list: %+v", list.Items)
	}
	if calls := atomic.LoadInt64(&fake.listCalls); calls != 2 {
		t.Fatalf("expected 2 upstream list calls (cache invalidated), got %d", calls)
	}

	successes, failures := notifier.counts()
	if successes != 1 || failures != 0 {
		t.Fatalf("expected 1 success / 0 failure notifications, got %d/%d", successes, failures)
	}
}

func TestListFailureUsesFixedMessageWithoutNotification(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	// 即使响应体带 message 字段，读失败也不提取、不通知
	fake.failWith(http.StatusInternalServerError, `{"message":"boom"}`)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	_, err := c.ListUsers(context.Background(), "")
	if err == nil {
		t.Fatalf("expected list to fail")
	}
	if !errors.IsCode(err, code.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "Failed to fetch users") {
		t.Fatalf("expected fixed fetch message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "boom") {
		t.Fatalf("server message must not leak into fetch errors: %q", err.Error())
	}
	successes, failures := notifier.counts()
	if successes != 0 || failures != 0 {
		t.Fatalf("read failures must not notify, got %d/%d", successes, failures)
	}
}

func TestCreateLocalValidationSkipsRequest(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	// 缺少必填字段、邮箱非法
	_, err := c.CreateUser(context.Background(), &v1.CreateUserRequest{
		Name:  "wangwu",
		Email: "not-an-email",
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.IsCode(err, code.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if calls := atomic.LoadInt64(&fake.createCalls); calls != 0 {
		t.Fatalf("expected no HTTP request on local validation failure, got %d", calls)
	}
	successes, failures := notifier.counts()
	if successes != 0 || failures != 0 {
		t.Fatalf("expected no notifications, got %d/%d", successes, failures)
	}
}

func TestCreateExtractsServerMessage(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	fake.failWith(http.StatusInternalServerError, `{"message":"duplicate email"}`)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	_, err := c.CreateUser(context.Background(), validCreateRequest("zhaoliu"))
	if err == nil {
		t.Fatalf("expected create to fail")
	}
	if !errors.IsCode(err, code.ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "duplicate email") {
		t.Fatalf("error message should be exactly the server message, got %q", err.Error())
	}
	if got := notifier.lastFailure(); got != "duplicate email" {
		t.Fatalf("notification should carry the server message, got %q", got)
	}
}

func TestCreateFallbackMessageOnUnparseableBody(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	fake.failWith(http.StatusInternalServerError, `<html>backend blew up</html>`)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	_, err := c.CreateUser(context.Background(), validCreateRequest("qianqi"))
	if err == nil {
		t.Fatalf("expected create to fail")
	}
	if !strings.HasSuffix(err.Error(), "Failed to create user") {
		t.Fatalf("expected fallback message, got %q", err.Error())
	}
	if got := notifier.lastFailure(); got != "Failed to create user" {
		t.Fatalf("notification should use fallback message, got %q", got)
	}
}

func TestUpdateSkipsLocalValidation(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	user := fake.addUser("sunba", "sunba@example.com", v1.RoleStudent)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	// 增量请求体不做本地校验，即使字段值在创建时会被拒绝也照样发出
	bogusEmail := "not-an-email"
	updated, err := c.UpdateUser(context.Background(), user.ID, &v1.UpdateUserRequest{Email: &bogusEmail})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Email != bogusEmail {
		t.Fatalf("expected server-applied email %q, got %q", bogusEmail, updated.Email)
	}
}

func TestUpdateFailureExtractsServerMessage(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	user := fake.addUser("zhouji", "zhouji@example.com", v1.RoleStudent)
	fake.failWith(http.StatusConflict, `{"message":"email already taken"}`)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	nickname := "new-nick"
	_, err := c.UpdateUser(context.Background(), user.ID, &v1.UpdateUserRequest{Nickname: &nickname})
	if err == nil {
		t.Fatalf("expected update to fail")
	}
	if !errors.IsCode(err, code.ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed, got %v", err)
	}
	if got := notifier.lastFailure(); got != "email already taken" {
		t.Fatalf("notification should carry the server message, got %q", got)
	}
}

func TestDeleteInvalidatesRoleFilteredLists(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	student := fake.addUser("student1", "student1@example.com", v1.RoleStudent)
	fake.addUser("teacher1", "teacher1@example.com", v1.RoleTeacher)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)
	ctx := context.Background()

	// 填充多个按角色过滤的列表缓存项
	for _, role := range []string{"", v1.RoleStudent, v1.RoleTeacher} {
		if _, err := c.ListUsers(ctx, role); err != nil {
			t.Fatalf("ListUsers(%q) failed: %v", role, err)
		}
	}
	before := atomic.LoadInt64(&fake.listCalls)

	if err := c.DeleteUser(ctx, student.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	// 删除必须让所有角色过滤的列表缓存全部失效
	for _, role := range []string{"", v1.RoleStudent, v1.RoleTeacher} {
		list, err := c.ListUsers(ctx, role)
		if err != nil {
			t.Fatalf("ListUsers(%q) after delete failed: %v", role, err)
		}
		for _, u := range list.Items {
			if u.ID == student.ID {
				t.Fatalf("deleted user still present in list role=%q", role)
			}
		}
	}
	after := atomic.LoadInt64(&fake.listCalls)
	if after-before != 3 {
		t.Fatalf("expected 3 fresh upstream list calls after delete, got %d", after-before)
	}
}

func TestDeleteFailureUsesFixedMessageAndNotifies(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	user := fake.addUser("wuji", "wuji@example.com", v1.RoleStudent)
	// 即使响应体带 message 字段，删除失败也只用固定消息
	fake.failWith(http.StatusInternalServerError, `{"message":"should be ignored"}`)

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	err := c.DeleteUser(context.Background(), user.ID)
	if err == nil {
		t.Fatalf("expected delete to fail")
	}
	if !errors.IsCode(err, code.ErrDeleteFailed) {
		t.Fatalf("expected ErrDeleteFailed, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "Failed to delete user") {
		t.Fatalf("expected fixed delete message, got %q", err.Error())
	}
	if got := notifier.lastFailure(); got != "Failed to delete user" {
		t.Fatalf("expected delete failure notification, got %q", got)
	}
}

func TestDeleteAccepts200Acknowledgement(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	user := fake.addUser("liuba", "liuba@example.com", v1.RoleStudent)
	// 部分服务端用 200 + envelope 应答删除而不是 204
	fake.deleteStatus = http.StatusOK

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	if err := c.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser should accept any 2xx, got %v", err)
	}
	successes, failures := notifier.counts()
	if successes != 1 || failures != 0 {
		t.Fatalf("expected 1 success / 0 failure notifications, got %d/%d", successes, failures)
	}
}

func TestExpiredSessionRefreshedBeforeWrite(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()

	expired := signedToken(t, time.Now().Add(-time.Hour))
	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, 0)
	c := New(fake.server.URL, cache,
		WithHTTPClient(fake.server.Client()),
		WithNotifier(&recorderNotifier{}),
		WithSession(NewSession(expired, "refresh-1", 1)),
	)

	if _, err := c.CreateUser(context.Background(), validCreateRequest("refreshed")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if calls := atomic.LoadInt64(&fake.refreshCalls); calls != 1 {
		t.Fatalf("expected 1 refresh before the write, got %d", calls)
	}
	fake.mu.Lock()
	auth := fake.lastCreateAuth
	fake.mu.Unlock()
	if auth != "Bearer rotated-access-token" {
		t.Fatalf("write should carry the rotated token, got %q", auth)
	}
	if c.Session().RefreshToken() != "rotated-refresh-token" {
		t.Fatalf("refresh token not rotated: %q", c.Session().RefreshToken())
	}
}

func TestConcurrentListMergesUpstreamRequests(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()
	fake.addUser("teacher1", "teacher1@example.com", v1.RoleTeacher)
	fake.listDelay = 50 * time.Millisecond

	c := newTestClient(fake, &recorderNotifier{})
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.ListUsers(ctx, v1.RoleTeacher); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent ListUsers failed: %v", err)
	}

	if calls := atomic.LoadInt64(&fake.listCalls); calls != 1 {
		t.Fatalf("expected concurrent lists to merge into 1 upstream call, got %d", calls)
	}
}

func TestGetUserNotFound(t *testing.T) {
	fake := newFakeAPIServer()
	defer fake.close()

	notifier := &recorderNotifier{}
	c := newTestClient(fake, notifier)

	_, err := c.GetUser(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected not found error")
	}
	if !errors.IsCode(err, code.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
