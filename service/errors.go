package service

import "errors"

var (
	ErrLobbyNotFound     = errors.New("房间不存在")
	ErrGameNotFound      = errors.New("游戏不存在")
	ErrLobbyFull         = errors.New("房间已满")
	ErrLobbyExpired      = errors.New("房间已开始游戏")
	ErrNotHost           = errors.New("只有房主可以开始游戏")
	ErrNotEnoughPlayers  = errors.New("人数不足，无法开始")
	ErrNotLobbyMember    = errors.New("不是房间成员")
	ErrArchiveNotEnabled = errors.New("未配置结果归档")
	ErrNotGamePlayer     = errors.New("不是该对局的玩家")
)
