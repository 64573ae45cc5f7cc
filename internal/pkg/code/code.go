/*
package code
错误码管理：定义 umctl 的业务错误码并注册到 nexuscore/errors 的全局注册表。
编码规则沿用 cretem 家族约定：服务（2位）+ 模块（2位）+ 序号（2位）。
umctl 作为控制台客户端使用 1105xx 段，通用错误沿用 1000xx 段的语义。
*/
package code

import (
	"fmt"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"
)

// ErrCode implements `nexuscore/errors`.Coder interface.
type ErrCode struct {
	// C refers to the code of the ErrCode.
	C int

	// HTTP status that should be used for the associated error code.
	HTTP int

	// External (user) facing error text.
	Ext string

	// Ref specify the reference document.
	Ref string
}

var _ errors.Coder = &ErrCode{}

// Code returns the integer code of ErrCode.
func (coder ErrCode) Code() int {
	return coder.C
}

// String implements stringer. String returns the external error message,
// if any.
func (coder ErrCode) String() string {
	return coder.Ext
}

// Reference returns the reference document.
func (coder ErrCode) Reference() string {
	return coder.Ref
}

// HTTPStatus returns the associated HTTP status code, if any. Otherwise,
// returns 500.
func (coder ErrCode) HTTPStatus() int {
	if coder.HTTP == 0 {
		return 500
	}
	return coder.HTTP
}

// register 注册错误码，HTTP状态码必须落在 100~599 区间。
func register(code int, httpStatus int, message string, refs ...string) {
	if httpStatus < 100 || httpStatus > 599 {
		panic(fmt.Sprintf("HTTP 状态码 %d 不符合通用规则（必须在 100~599 之间）", httpStatus))
	}

	var reference string
	if len(refs) > 0 {
		reference = refs[0]
	}

	errors.MustRegister(&ErrCode{
		C:    code,
		HTTP: httpStatus,
		Ext:  message,
		Ref:  reference,
	})
}
