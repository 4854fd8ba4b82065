package game

// Outbound protocol events.
const (
	EventGameData       = "gameData"
	EventStartGame      = "startGame"
	EventLocationUpdate = "locationUpdate"
	EventScoreUpdate    = "scoreUpdate"
	EventCollision      = "collision"
	EventWinnerUpdate   = "winnerUpdate"
	EventInterrupt      = "interrupt"
)

// Object numbers used by locationUpdate.
const (
	ObjectBall    = 0
	ObjectPlayer1 = 1
	ObjectPlayer2 = 2
)

// InterruptDisconnect is the interrupt code sent when a room is torn down.
// Pause notices use the pausing player's slot (1 or 2) as their code.
const InterruptDisconnect = 0

type GameData struct {
	PlayerNumber int             `json:"playerNumber,omitempty"`
	GameEnv      EnvironmentView `json:"gameEnv"`
	GameState    StateView       `json:"gameState"`
}

type StartGame struct{}

type LocationUpdate struct {
	PlayerNumber int  `json:"playerNumber"`
	NewLocation  Vec2 `json:"newLocation"`
}

type ScoreUpdate struct {
	S1 int `json:"s1"`
	S2 int `json:"s2"`
}

type Collision struct{}

type WinnerUpdate struct {
	WinnerNumber int `json:"winnerNumber"`
}

type Interrupt struct {
	Code int `json:"code"`
}

// Broadcaster delivers events to connections and maintains room membership.
// Implementations must deliver events for one room in call order.
type Broadcaster interface {
	Join(connID, room string)
	Send(connID, event string, payload any)
	Broadcast(room, event string, payload any)
	BroadcastExcept(room, skipConnID, event string, payload any)
	CloseRoom(room string)
}
