package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourTurn       = errors.New("不是当前玩家的回合")
	ErrTileNotHeld       = errors.New("玩家没有这张 tile")
	ErrUnplayableTile    = errors.New("tile 会合并两家安全公司，不能放置")
	ErrCorporationActive = errors.New("公司已经成立")
	ErrOddTrade          = errors.New("换股数量必须是偶数")
	ErrInvalidChoice     = errors.New("选择的公司不在候选列表中")
	ErrMergerPending     = errors.New("还有玩家没有处理被并购公司的股票")
	ErrNoDisposer        = errors.New("没有需要处理股票的玩家")
	ErrInvalidPlayers    = errors.New("玩家列表无效")
	ErrInvalidSnapshot   = errors.New("快照数据不一致")
)

// InvalidStateError 在错误的状态下调用了操作
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: 当前状态 %q 不允许该操作", e.Op, e.State)
}

// NotFoundError 玩家或公司不存在
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q 不存在", e.Kind, e.Name)
}

// InsufficientSharesError 卖出或换股数量超过持有量
type InsufficientSharesError struct {
	Corporation Brand
	Requested   int
	Available   int
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("%s 股票不足: 需要 %d, 可用 %d", e.Corporation, e.Requested, e.Available)
}
