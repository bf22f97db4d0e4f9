package attendance

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyTraineeRef 未提供学员标识
var ErrEmptyTraineeRef = errors.New("学员标识不能为空")

// RefKind 学员引用类型
type RefKind int

const (
	// ByInternalID 按主键（UUID）查找
	ByInternalID RefKind = iota + 1
	// ByExternalID 按业务编号 trainee_id 查找
	ByExternalID
)

// TraineeRef 学员引用：主键或业务编号二选一
type TraineeRef struct {
	Kind  RefKind
	Value string
}

// InternalID 构造主键引用
func InternalID(id string) TraineeRef { return TraineeRef{Kind: ByInternalID, Value: id} }

// ExternalID 构造业务编号引用
func ExternalID(id string) TraineeRef {
	return TraineeRef{Kind: ByExternalID, Value: strings.TrimSpace(id)}
}

// ParseTraineeRef 解析客户端传入的学员标识
// 合法 UUID 视为主键，其余视为业务编号
func ParseTraineeRef(s string) (TraineeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TraineeRef{}, ErrEmptyTraineeRef
	}
	if id, err := uuid.Parse(s); err == nil {
		return InternalID(id.String()), nil
	}
	return ExternalID(s), nil
}

// IsInternalIDShape 判断字符串是否会被 ParseTraineeRef 当作主键
// 业务编号不得取此形状，否则无法按编号访问
func IsInternalIDShape(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

func (r TraineeRef) String() string {
	switch r.Kind {
	case ByInternalID:
		return "id:" + r.Value
	case ByExternalID:
		return "trainee_id:" + r.Value
	default:
		return "unknown:" + r.Value
	}
}
