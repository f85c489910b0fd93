package game

type ActivityKind string

const (
	ActivityTilePlaced     ActivityKind = "tile-placed"
	ActivityEstablished    ActivityKind = "corporation-established"
	ActivityStocksBought   ActivityKind = "stocks-bought"
	ActivityMergeStarted   ActivityKind = "merge-started"
	ActivityAcquirerChosen ActivityKind = "acquirer-selected"
	ActivityDefunctChosen  ActivityKind = "defunct-confirmed"
	ActivityStocksDealt    ActivityKind = "stocks-dealt"
	ActivityMergeEnded     ActivityKind = "merge-ended"
	ActivityTurnEnded      ActivityKind = "turn-ended"
	ActivityGameEnded      ActivityKind = "game-ended"
)

type Activity struct {
	Kind     ActivityKind   `json:"kind"`
	Username string         `json:"username"`
	Data     map[string]any `json:"data,omitempty"`
}

type Turns struct {
	Current  []Activity `json:"currentTurn"`
	Previous []Activity `json:"previousTurn"`
}

// TurnLog 只用于展示，不参与规则判断
type TurnLog struct {
	current  []Activity
	previous []Activity
}

func (l *TurnLog) Add(a Activity) {
	l.current = append(l.current, a)
}

// Next 当前回合归档为上一回合
func (l *TurnLog) Next() {
	l.previous = l.current
	l.current = nil
}

func (l *TurnLog) Current() []Activity {
	return append([]Activity(nil), l.current...)
}

func (l *TurnLog) Previous() []Activity {
	return append([]Activity(nil), l.previous...)
}

func (l *TurnLog) Turns() Turns {
	return Turns{Current: l.Current(), Previous: l.Previous()}
}
