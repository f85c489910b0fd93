package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type CreateRoomRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers" binding:"omitempty,min=2,max=6"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomID"`
	Name   string `json:"name"`
}
