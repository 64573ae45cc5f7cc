package client

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/maxiaolu1981/cretem/umctl/pkg/api/v1"

	"github.com/maxiaolu1981/cretem/umctl/internal/pkg/querycache"
)

// recorderNotifier 记录收到的通知，测试断言用。
type recorderNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (r *recorderNotifier) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorderNotifier) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

func (r *recorderNotifier) lastFailure() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.failures) == 0 {
		return ""
	}
	return r.failures[len(r.failures)-1]
}

func (r *recorderNotifier) counts() (successes, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes), len(r.failures)
}

// fakeAPIServer 模拟 iam-apiserver 的用户接口，内存存用户表，
// 响应采用 {code,message,data} 包络。
type fakeAPIServer struct {
	mu     sync.Mutex
	users  map[uint64]*v1.User
	nextID uint64

	listCalls    int64
	createCalls  int64
	refreshCalls int64

	// lastCreateAuth 记录最近一次创建请求携带的 Authorization 头
	lastCreateAuth string

	// deleteStatus 非零时用该状态码（带 envelope 响应体）应答删除
	deleteStatus int

	// failStatus/failBody 非零时所有请求都返回该错误响应
	failStatus int
	failBody   string

	// listDelay 模拟列表接口的处理耗时，并发合并测试用
	listDelay time.Duration

	server *httptest.Server
}

func newFakeAPIServer() *fakeAPIServer {
	f := &fakeAPIServer{
		users:  make(map[uint64]*v1.User),
		nextID: 1,
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/v1/users", f.handleList)
	engine.GET("/v1/users/:id", f.handleGet)
	engine.POST("/v1/users", f.handleCreate)
	engine.PUT("/v1/users/:id", f.handleUpdate)
	engine.DELETE("/v1/users/:id", f.handleDelete)
	engine.POST("/login", f.handleLogin)
	engine.GET("/refresh", f.handleRefresh)

	f.server = httptest.NewServer(engine)
	return f
}

func (f *fakeAPIServer) close() {
	f.server.Close()
}

func (f *fakeAPIServer) addUser(name, email, role string) *v1.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := &v1.User{
		ID:    f.nextID,
		Name:  name,
		Email: email,
		Role:  role,
	}
	f.users[user.ID] = user
	f.nextID++
	return user
}

func (f *fakeAPIServer) failWith(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
	f.failBody = body
}

func (f *fakeAPIServer) injectedFailure(c *gin.Context) bool {
	f.mu.Lock()
	status, body := f.failStatus, f.failBody
	f.mu.Unlock()
	if status == 0 {
		return false
	}
	c.Data(status, "application/json", []byte(body))
	return true
}

func envelopeData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"code": 100001, "message": "success", "data": data})
}

func (f *fakeAPIServer) handleList(c *gin.Context) {
	atomic.AddInt64(&f.listCalls, 1)
	if f.injectedFailure(c) {
		return
	}
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}

	role := c.Query("role")
	f.mu.Lock()
	items := make([]*v1.User, 0, len(f.users))
	for _, u := range f.users {
		if role == "" || u.Role == role {
			copied := *u
			items = append(items, &copied)
		}
	}
	f.mu.Unlock()

	envelopeData(c, http.StatusOK, &v1.UserList{TotalCount: int64(len(items)), Items: items})
}

func (f *fakeAPIServer) handleGet(c *gin.Context) {
	if f.injectedFailure(c) {
		return
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	f.mu.Lock()
	user, ok := f.users[id]
	f.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": 110505, "message": "user not found"})
		return
	}
	envelopeData(c, http.StatusOK, user)
}

func (f *fakeAPIServer) handleCreate(c *gin.Context) {
	atomic.AddInt64(&f.createCalls, 1)
	f.mu.Lock()
	f.lastCreateAuth = c.GetHeader("Authorization")
	f.mu.Unlock()
	if f.injectedFailure(c) {
		return
	}

	var req v1.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 100003, "message": "invalid request body"})
		return
	}

	user := f.addUser(req.Name, req.Email, req.Role)
	user.Nickname = req.Nickname
	user.Phone = req.Phone
	envelopeData(c, http.StatusCreated, user)
}

func (f *fakeAPIServer) handleUpdate(c *gin.Context) {
	if f.injectedFailure(c) {
		return
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req v1.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 100003, "message": "invalid request body"})
		return
	}

	f.mu.Lock()
	user, ok := f.users[id]
	if ok {
		if req.Nickname != nil {
			user.Nickname = *req.Nickname
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.Status != nil {
			user.Status = *req.Status
		}
	}
	f.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": 110505, "message": "user not found"})
		return
	}
	envelopeData(c, http.StatusOK, user)
}

func (f *fakeAPIServer) handleDelete(c *gin.Context) {
	if f.injectedFailure(c) {
		return
	}
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	f.mu.Lock()
	_, ok := f.users[id]
	delete(f.users, id)
	f.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": 110505, "message": "user not found"})
		return
	}
	if f.deleteStatus != 0 {
		envelopeData(c, f.deleteStatus, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (f *fakeAPIServer) handleRefresh(c *gin.Context) {
	atomic.AddInt64(&f.refreshCalls, 1)
	if f.injectedFailure(c) {
		return
	}
	envelopeData(c, http.StatusOK, &v1.AuthTokens{
		AccessToken:  "rotated-access-token",
		RefreshToken: "rotated-refresh-token",
		UserID:       1,
	})
}

func (f *fakeAPIServer) handleLogin(c *gin.Context) {
	if f.injectedFailure(c) {
		return
	}

	var req v1.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password != "Pass1234!" {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 100206, "message": "密码不正确"})
		return
	}
	envelopeData(c, http.StatusOK, &v1.AuthTokens{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		UserID:       1,
	})
}

// newTestClient 组装一个指向 fake server 的客户端，缓存用内存后端。
func newTestClient(f *fakeAPIServer, notifier *recorderNotifier) *Client {
	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, 0)
	return New(f.server.URL, cache,
		WithHTTPClient(f.server.Client()),
		WithNotifier(notifier),
	)
}
