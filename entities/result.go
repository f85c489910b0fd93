package entities

import "time"

// ArchivedPlayer 归档库中某一局的一名玩家
type ArchivedPlayer struct {
	Rank       int       `json:"rank"`
	Username   string    `json:"username"`
	Balance    int       `json:"balance"`
	FinishedAt time.Time `json:"finishedAt"`
}
