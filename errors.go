package priority

import (
	"errors"
	"fmt"
)

// 优先级树操作可返回的哨兵错误。可与 errors.Is 配合分支判断。
var (
	ErrDuplicateStream = errors.New("流已存在")
	ErrMissingStream   = errors.New("流不存在")
	ErrTooManyStreams  = errors.New("超出流数量上限")
	ErrBadWeight       = errors.New("权重必须是 [1,256] 内的整数")
	ErrPseudoStream    = errors.New("不能操作 0 号伪流")
	ErrPriorityLoop    = errors.New("依赖关系构成环路")
	ErrBadTreeConfig   = errors.New("流数量上限必须是正整数")
	ErrDeadlock        = errors.New("没有可供调度的活跃流")
)

// ErrorType 是错误分类的位掩码。
type ErrorType uint64

const (
	// ErrorTypeDuplicateStream 表示插入了已存在的流 ID。
	ErrorTypeDuplicateStream ErrorType = 1 << iota
	// ErrorTypeMissingStream 表示操作引用了不存在的流 ID。
	ErrorTypeMissingStream
	// ErrorTypeTooManyStreams 表示插入将超出配置的流数量上限。
	ErrorTypeTooManyStreams
	// ErrorTypeBadWeight 表示权重不在 [1,256] 范围内。
	ErrorTypeBadWeight
	// ErrorTypePseudoStream 表示试图调整、移除、阻塞或解除阻塞 0 号伪流。
	ErrorTypePseudoStream
	// ErrorTypePriorityLoop 表示依赖自身，依赖关系将构成环路。
	ErrorTypePriorityLoop
	// ErrorTypeBadTreeConfig 表示构造时的流数量上限不是正整数。
	ErrorTypeBadTreeConfig
	// ErrorTypeDeadlock 表示迭代时没有任何活跃的用户流可供产出。
	ErrorTypeDeadlock
	// ErrorTypeAny 表示任何其他错误。
	ErrorTypeAny
)

var _ error = (*Error)(nil)

// Error 表示一个带有错误类型和所涉流 ID 的错误规范。
type Error struct {
	Err      error
	Type     ErrorType
	StreamID uint32
}

// 返回错误的消息字符串。
func (msg *Error) Error() string {
	if msg.Type == ErrorTypeBadTreeConfig || msg.Type == ErrorTypeDeadlock {
		return msg.Err.Error()
	}
	return fmt.Sprintf("流 %d: %s", msg.StreamID, msg.Err.Error())
}

func (msg *Error) Unwrap() error {
	return msg.Err
}

func (msg *Error) IsType(flags ErrorType) bool {
	return (msg.Type & flags) > 0
}

// NewError 新建一个指定错误和错误类型及流 ID 的自定义错误。
func NewError(err error, t ErrorType, streamID uint32) *Error {
	return &Error{
		Err:      err,
		Type:     t,
		StreamID: streamID,
	}
}
