package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go-acquire/entities"
	"go-acquire/game"

	"go.uber.org/zap"
)

// SnapshotStore 对局快照的持久化
type SnapshotStore interface {
	Save(ctx context.Context, gameID string, data []byte) error
	Load(ctx context.Context, gameID string) ([]byte, error)
	IDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, gameID string) error
}

// ResultArchive 已结束对局的归档
type ResultArchive interface {
	Save(ctx context.Context, gameID string, result game.Result) error
	Ranking(ctx context.Context, gameID string) ([]entities.ArchivedPlayer, error)
	Wins(ctx context.Context, username string) (int, error)
}

// Notifier 对局状态变化后被调用，调用时不持有对局锁
type Notifier interface {
	GameUpdated(gameID string)
}

type gameEntry struct {
	mu       sync.Mutex
	game     *game.Game
	archived bool
}

// Manager 管理所有房间和对局；同一局的操作通过 gameEntry.mu 串行执行
type Manager struct {
	mu      sync.RWMutex
	lobbies map[string]*Lobby
	games   map[string]*gameEntry

	snapshots SnapshotStore
	archive   ResultArchive
	notifier  Notifier
	shuffle   game.ShuffleFunc
	logger    *zap.Logger
}

type ManagerOption func(*Manager)

func WithSnapshots(store SnapshotStore) ManagerOption {
	return func(m *Manager) { m.snapshots = store }
}

func WithArchive(archive ResultArchive) ManagerOption {
	return func(m *Manager) { m.archive = archive }
}

func WithShuffle(shuffle game.ShuffleFunc) ManagerOption {
	return func(m *Manager) { m.shuffle = shuffle }
}

func NewManager(logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		lobbies: make(map[string]*Lobby),
		games:   make(map[string]*gameEntry),
		shuffle: defaultShuffle,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetNotifier websocket hub 创建之后再注入
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	m.notifier = n
	m.mu.Unlock()
}

func (m *Manager) gameOptions() []game.Option {
	return []game.Option{game.WithLogger(m.logger), game.WithShuffle(m.shuffle)}
}

// CreateLobby 创建房间，创建者自动成为房主
func (m *Manager) CreateLobby(host, name string, maxPlayers int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := newRoomID()
	for m.lobbies[id] != nil || m.games[id] != nil {
		id = newRoomID()
	}
	lobby := NewLobby(id, name, maxPlayers)
	if err := lobby.AddPlayer(host); err != nil {
		return "", err
	}
	m.lobbies[id] = lobby
	m.logger.Info("创建房间", zap.String("roomID", id), zap.String("host", host))
	return id, nil
}

func (m *Manager) Lobby(id string) (*Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lobby, ok := m.lobbies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLobbyNotFound, id)
	}
	return lobby, nil
}

// AvailableLobbies 还能加入的房间
func (m *Manager) AvailableLobbies(username string) []entities.LobbyStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []entities.LobbyStatus
	for _, lobby := range m.lobbies {
		status := lobby.Status(username)
		if status.HasExpired || status.IsFull {
			continue
		}
		list = append(list, status)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (m *Manager) JoinLobby(id, username string) error {
	lobby, err := m.Lobby(id)
	if err != nil {
		return err
	}
	if err := lobby.AddPlayer(username); err != nil {
		return err
	}
	m.logger.Info("加入房间", zap.String("roomID", id), zap.String("player", username))
	return nil
}

// StartGame 只有房主可以开始，房间随即失效
func (m *Manager) StartGame(ctx context.Context, id, username string) error {
	lobby, err := m.Lobby(id)
	if err != nil {
		return err
	}
	if lobby.Host() != username {
		return ErrNotHost
	}
	players := lobby.Players()
	if len(players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	g, err := game.New(id, players, m.gameOptions()...)
	if err != nil {
		return err
	}
	if err := g.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.games[id]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLobbyExpired, id)
	}
	m.games[id] = &gameEntry{game: g}
	m.mu.Unlock()
	lobby.Expire()

	m.persist(ctx, id, g)
	m.notify(id)
	return nil
}

func (m *Manager) entry(id string) (*gameEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return e, nil
}

// Do 在对局锁内执行一次操作；成功后保存快照、归档结果并通知客户端
func (m *Manager) Do(ctx context.Context, id string, fn func(g *game.Game) error) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if err := fn(e.game); err != nil {
		e.mu.Unlock()
		return err
	}
	// 已结束的对局归档后不再保留快照
	if result, ok := e.game.Result(); ok {
		if !e.archived {
			e.archived = m.archiveResult(ctx, id, result)
		}
		m.forget(ctx, id)
	} else {
		m.persist(ctx, id, e.game)
	}
	e.mu.Unlock()

	m.notify(id)
	return nil
}

// Play 以 username 的身份执行操作，只有当前行动的玩家可以操作
func (m *Manager) Play(ctx context.Context, id, username string, fn func(g *game.Game) error) error {
	return m.Do(ctx, id, func(g *game.Game) error {
		if g.ActingPlayerName() != username {
			return game.ErrNotYourTurn
		}
		return fn(g)
	})
}

// View 只读访问
func (m *Manager) View(id string, fn func(g *game.Game) error) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.game)
}

func (m *Manager) IsPlaying(id, username string) bool {
	err := m.View(id, func(g *game.Game) error {
		_, err := g.Status(username)
		return err
	})
	return err == nil
}

// Load 用快照替换一局进行中的游戏，调用者必须同时是当前对局和快照中的玩家
func (m *Manager) Load(ctx context.Context, id, username string, data []byte) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}
	if !m.IsPlaying(id, username) {
		return ErrNotGamePlayer
	}
	g, err := game.FromJSON(data, m.gameOptions()...)
	if err != nil {
		return err
	}
	if g.ID() != id {
		return fmt.Errorf("%w: 快照 id %q 与请求 %q 不一致", game.ErrInvalidSnapshot, g.ID(), id)
	}
	if _, err := g.Status(username); err != nil {
		return ErrNotGamePlayer
	}

	// 与 Do 共用对局锁，替换期间不会有旧对局的操作写回快照
	e.mu.Lock()
	if _, err := e.game.Status(username); err != nil {
		e.mu.Unlock()
		return ErrNotGamePlayer
	}
	e.game = g
	e.archived = false
	m.persist(ctx, id, g)
	e.mu.Unlock()

	m.logger.Info("对局已从快照替换", zap.String("gameID", id), zap.String("player", username))
	m.notify(id)
	return nil
}

// Restore 启动时从快照恢复所有对局，单局失败只记录日志
func (m *Manager) Restore(ctx context.Context) (int, error) {
	if m.snapshots == nil {
		return 0, nil
	}
	ids, err := m.snapshots.IDs(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, id := range ids {
		data, err := m.snapshots.Load(ctx, id)
		if err != nil {
			m.logger.Warn("读取快照失败", zap.String("gameID", id), zap.Error(err))
			continue
		}
		g, err := game.FromJSON(data, m.gameOptions()...)
		if err != nil {
			m.logger.Warn("恢复对局失败", zap.String("gameID", id), zap.Error(err))
			continue
		}
		m.mu.Lock()
		m.games[id] = &gameEntry{game: g}
		m.mu.Unlock()
		restored++
	}
	m.logger.Info("对局恢复完成", zap.Int("restored", restored), zap.Int("total", len(ids)))
	return restored, nil
}

func (m *Manager) Wins(ctx context.Context, username string) (int, error) {
	if m.archive == nil {
		return 0, ErrArchiveNotEnabled
	}
	return m.archive.Wins(ctx, username)
}

// ArchivedRanking 已不在内存中的对局从归档库读取排名
func (m *Manager) ArchivedRanking(ctx context.Context, id string) ([]entities.ArchivedPlayer, error) {
	if m.archive == nil {
		return nil, ErrArchiveNotEnabled
	}
	players, err := m.archive.Ranking(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return players, nil
}

// persist 保存失败不影响本次操作的结果
func (m *Manager) persist(ctx context.Context, id string, g *game.Game) {
	if m.snapshots == nil {
		return
	}
	data, err := g.ToJSON()
	if err == nil {
		err = m.snapshots.Save(ctx, id, data)
	}
	if err != nil {
		m.logger.Error("保存快照失败", zap.String("gameID", id), zap.Error(err))
	}
}

func (m *Manager) forget(ctx context.Context, id string) {
	if m.snapshots == nil {
		return
	}
	if err := m.snapshots.Delete(ctx, id); err != nil {
		m.logger.Error("删除快照失败", zap.String("gameID", id), zap.Error(err))
	}
}

func (m *Manager) archiveResult(ctx context.Context, id string, result game.Result) bool {
	if m.archive == nil {
		return true
	}
	if err := m.archive.Save(ctx, id, result); err != nil {
		m.logger.Error("归档结果失败", zap.String("gameID", id), zap.Error(err))
		return false
	}
	m.logger.Info("结果已归档", zap.String("gameID", id))
	return true
}

func (m *Manager) notify(id string) {
	m.mu.RLock()
	n := m.notifier
	m.mu.RUnlock()
	if n != nil {
		n.GameUpdated(id)
	}
}

// IsNotFound 房间、对局、玩家或公司不存在
func IsNotFound(err error) bool {
	var notFound *game.NotFoundError
	return errors.Is(err, ErrLobbyNotFound) || errors.Is(err, ErrGameNotFound) || errors.As(err, &notFound)
}
