package game

// Merger 一次并购：固定主公司和当前被并购公司，按队列让玩家处理股票
type Merger struct {
	board        *Board
	corporations map[Brand]*Corporation

	origin   Position
	acquirer Brand
	defunct  Brand
	pending  []Brand
	multiple bool

	queue  []string
	cursor int
}

func newMerger(board *Board, corporations map[Brand]*Corporation, origin Position) *Merger {
	return &Merger{board: board, corporations: corporations, origin: origin}
}

func (m *Merger) Pending() []Brand { return append([]Brand(nil), m.pending...) }

// Start 固定主公司与被并购公司，queue 为需要处理股票的玩家顺序
func (m *Merger) Start(acquirer, defunct Brand, queue []string) {
	m.acquirer = acquirer
	m.defunct = defunct
	m.queue = queue
	m.cursor = 0
	m.pending = removeBrand(m.pending, defunct)
}

// CurrentPlayer 当前需要处理股票的玩家
func (m *Merger) CurrentPlayer() (string, bool) {
	if m.HasEnd() {
		return "", false
	}
	return m.queue[m.cursor], true
}

// Deal 卖出 sell 股，按 2 换 1 交换 trade 股，剩余继续持有；先校验再修改
func (m *Merger) Deal(p *Player, sell, trade int) error {
	current, ok := m.CurrentPlayer()
	if !ok {
		return ErrNoDisposer
	}
	if current != p.username {
		return ErrNotYourTurn
	}
	if sell < 0 || trade < 0 {
		return &InsufficientSharesError{Corporation: m.defunct, Requested: sell + trade, Available: p.Stocks(m.defunct)}
	}
	if trade%2 != 0 {
		return ErrOddTrade
	}
	held := p.Stocks(m.defunct)
	if sell+trade > held {
		return &InsufficientSharesError{Corporation: m.defunct, Requested: sell + trade, Available: held}
	}
	acquirer := m.corporations[m.acquirer]
	if trade/2 > acquirer.Stocks() {
		return &InsufficientSharesError{Corporation: m.acquirer, Requested: trade / 2, Available: acquirer.Stocks()}
	}

	defunct := m.corporations[m.defunct]
	if err := p.SellStocks(m.defunct, sell+trade); err != nil {
		return err
	}
	p.AddIncome(sell * defunct.Price())
	defunct.IncrementStocks(sell + trade)

	acquirer.DecrementStocks(trade / 2)
	p.AddStocks(m.acquirer, trade/2)
	return nil
}

func (m *Merger) EndTurn() {
	if m.cursor < len(m.queue) {
		m.cursor++
	}
}

func (m *Merger) HasEnd() bool {
	return m.cursor >= len(m.queue)
}

// End 被并购公司的 tile 全部并入主公司，返回并入数量
func (m *Merger) End() int {
	n := m.board.Relabel(BrandOwner(m.defunct), BrandOwner(m.acquirer))
	m.corporations[m.defunct].Defunct()
	m.corporations[m.acquirer].IncreaseSize(n)
	return n
}

// disposalQueue 从 from 开始按座位顺序，只包含持有 defunct 股票的玩家
func disposalQueue(players []*Player, from int, defunct Brand) []string {
	var queue []string
	for i := range players {
		p := players[(from+i)%len(players)]
		if p.Stocks(defunct) > 0 {
			queue = append(queue, p.username)
		}
	}
	return queue
}

func removeBrand(brands []Brand, target Brand) []Brand {
	out := brands[:0:0]
	for _, b := range brands {
		if b != target {
			out = append(out, b)
		}
	}
	return out
}

func containsBrand(brands []Brand, target Brand) bool {
	for _, b := range brands {
		if b == target {
			return true
		}
	}
	return false
}
