package service

import (
	"sync"

	"go-acquire/entities"
	"go-acquire/game"
)

const MinPlayers = 2

// Lobby 开始游戏前的等候房间，第一个加入的玩家是房主
type Lobby struct {
	mu         sync.RWMutex
	id         string
	name       string
	players    []string
	maxPlayers int
	expired    bool
}

func NewLobby(id, name string, maxPlayers int) *Lobby {
	if maxPlayers < MinPlayers || maxPlayers > game.MaxPlayers {
		maxPlayers = game.MaxPlayers
	}
	return &Lobby{id: id, name: name, maxPlayers: maxPlayers}
}

func (l *Lobby) ID() string { return l.id }

// AddPlayer 已在房间中的玩家重复加入视为成功
func (l *Lobby) AddPlayer(username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasPlayer(username) {
		return nil
	}
	if l.expired {
		return ErrLobbyExpired
	}
	if len(l.players) >= l.maxPlayers {
		return ErrLobbyFull
	}
	l.players = append(l.players, username)
	return nil
}

func (l *Lobby) hasPlayer(username string) bool {
	for _, p := range l.players {
		if p == username {
			return true
		}
	}
	return false
}

func (l *Lobby) HasPlayer(username string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hasPlayer(username)
}

func (l *Lobby) IsFull() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.players) >= l.maxPlayers
}

func (l *Lobby) Host() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.players) == 0 {
		return ""
	}
	return l.players[0]
}

func (l *Lobby) Players() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.players...)
}

func (l *Lobby) Expire() {
	l.mu.Lock()
	l.expired = true
	l.mu.Unlock()
}

func (l *Lobby) Status(username string) entities.LobbyStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	status := entities.LobbyStatus{
		ID:                    l.id,
		Name:                  l.name,
		Players:               append([]string(nil), l.players...),
		MaxPlayers:            l.maxPlayers,
		IsFull:                len(l.players) >= l.maxPlayers,
		HasExpired:            l.expired,
		IsPossibleToStartGame: len(l.players) >= MinPlayers,
	}
	if len(l.players) > 0 {
		status.Host = l.players[0]
	}
	if l.hasPlayer(username) {
		status.Self = username
	}
	return status
}
