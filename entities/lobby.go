package entities

type LobbyStatus struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Host                  string   `json:"host"`
	Players               []string `json:"players"`
	MaxPlayers            int      `json:"maxPlayers"`
	IsFull                bool     `json:"isFull"`
	HasExpired            bool     `json:"hasExpired"`
	IsPossibleToStartGame bool     `json:"isPossibleToStartGame"`
	Self                  string   `json:"self,omitempty"`
}
