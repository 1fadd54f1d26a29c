package gameroom

import (
	"sync"
	"time"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"github.com/quizbattle-lab/backend/pkg/logger"
)

// PlayerInRoom is one seat of the room roster. The index is assigned at join
// time and stays stable for the player's whole stay.
type PlayerInRoom struct {
	ID    string
	Name  string
	Index int
	State PlayerState
}

// Room is a single match's coordination unit. Its mutable fields are guarded
// by mu; every event and transition of one room is serialized, while
// different rooms progress fully concurrently.
type Room struct {
	ID       string
	Name     string
	Game     Game
	Category model.CategoryDTO

	broadcaster    Broadcaster
	logger         logger.Logger
	countdownTicks int
	tick           time.Duration

	// closer hands the room off to the registry for disposal when the
	// Closing state is entered. Invoked on its own goroutine so the
	// registry may call back into the room without deadlocking.
	closer func(*Room)

	mu           sync.Mutex
	state        RoomState
	players      []*PlayerInRoom
	nextIndex    int
	departed     map[string]int
	countdownGen int
}

func NewRoom(
	id string,
	name string,
	game Game,
	category model.CategoryDTO,
	broadcaster Broadcaster,
	logger logger.Logger,
	countdownTicks int,
	tick time.Duration,
) *Room {
	return &Room{
		ID:             id,
		Name:           name,
		Game:           game,
		Category:       category,
		broadcaster:    broadcaster,
		logger:         logger,
		countdownTicks: countdownTicks,
		tick:           tick,
		state:          StateWaiting,
		departed:       make(map[string]int),
	}
}

// SetCloser installs the registry disposal hook. Called once right after
// construction, before the room receives any event.
func (r *Room) SetCloser(closer func(*Room)) {
	r.closer = closer
}

func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) Players() []PlayerInRoom {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]PlayerInRoom, 0, len(r.players))
	for _, p := range r.players {
		result = append(result, *p)
	}
	return result
}

// Close drives the room to Closing regardless of its current phase.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.transitionTo(StateClosing); err != nil {
		r.logger.Errorf("Cannot close room %s: %v", r.ID, err)
	}
}

// HandleEvent validates the event against the current phase and applies it.
// It returns errorx.ErrRoomEmpty when a disconnect removed the last player:
// the room is already closing and the registry must skip its grace-period
// bookkeeping.
func (r *Room) HandleEvent(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateCountdown, StatePlaying, StateClosing:
		if _, ok := event.(Disconnected); !ok {
			return errorx.ErrWrongRoomPhase
		}
	}

	return r.processEvent(event)
}

func (r *Room) processEvent(event Event) error {
	switch e := event.(type) {
	case Created:
		if err := r.addPlayer(e.Player); err != nil {
			return err
		}
		r.broadcastRoomState()

	case Joined:
		if err := r.addPlayer(e.Player); err != nil {
			return err
		}
		r.broadcastRoomState()

	case Ready:
		r.playerReady(e.PlayerID)
		r.broadcastRoomState()
		if r.allPlayersReady() {
			return r.transitionTo(StateCountdown)
		}

	case Disconnected:
		r.removePlayer(e.PlayerID)

		if len(r.players) == 0 {
			if err := r.transitionTo(StateClosing); err != nil {
				return err
			}
			return errorx.ErrRoomEmpty
		}

		if r.Game.State() == GameOver {
			return nil
		}

		// Before the countdown the game has not started; the remaining
		// players simply keep waiting.
		if r.state == StateWaiting {
			r.broadcast(model.PlayerDisconnected{PlayerID: e.PlayerID})
			r.broadcastRoomState()
			return nil
		}

		if err := r.transitionTo(StatePausing); err != nil {
			return err
		}
		r.broadcast(model.PlayerDisconnected{PlayerID: e.PlayerID})

	case Status:
		r.broadcastRoomState()
	}

	return nil
}

// transitionTo changes the room state and runs the entry side effect of the
// new state. Lock held by the caller. A same-state transition is a no-op;
// an illegal one is a contract violation surfaced as an internal error.
func (r *Room) transitionTo(target RoomState) error {
	if r.state == target {
		return nil
	}

	if !r.state.canTransition(target) {
		return errorx.New(errorx.Internal,
			"invalid room transition from %s to %s", r.state, target)
	}

	r.state = target
	r.onStateChanged(target)
	return nil
}

func (r *Room) onStateChanged(state RoomState) {
	r.broadcastRoomState()

	switch state {
	case StateCountdown:
		r.countdownGen++
		go r.runCountdown(r.countdownGen)

	case StatePausing:
		if err := r.Game.TransitionTo(GamePause); err != nil {
			r.logger.Errorf("Cannot pause game of room %s: %v", r.ID, err)
		}

	case StatePlaying:
		// Synchronous on purpose: a disconnect arriving right after must
		// observe the game already playing, so its pause cannot be
		// overtaken by a delayed start.
		if err := r.Game.TransitionTo(GamePlaying); err != nil {
			r.logger.Errorf("Cannot start game of room %s: %v", r.ID, err)
		}

	case StateClosing:
		if r.Game.State() != GameOver {
			if err := r.Game.TransitionTo(GameOver); err != nil {
				r.logger.Errorf("Cannot end game of room %s: %v", r.ID, err)
			}
		}
		if r.closer != nil {
			go r.closer(r)
		}
	}
}

// runCountdown emits one time-remaining message per tick, then a trailing
// beat, then moves the room to Playing. A room that left Countdown meanwhile
// (a disconnect paused or closed it) abandons the pending transition.
func (r *Room) runCountdown(gen int) {
	r.logger.Infof("Starting countdown for room %s", r.ID)

	for remaining := r.countdownTicks; remaining >= 1; remaining-- {
		time.Sleep(r.tick)

		r.mu.Lock()
		if r.state != StateCountdown || r.countdownGen != gen {
			r.mu.Unlock()
			return
		}
		r.broadcast(model.CountdownTimeUpdate{Remaining: remaining})
		r.mu.Unlock()
	}
	time.Sleep(r.tick)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCountdown || r.countdownGen != gen {
		return
	}
	if err := r.transitionTo(StatePlaying); err != nil {
		r.logger.Errorf("Cannot start playing in room %s: %v", r.ID, err)
	}
}

func (r *Room) addPlayer(player entity.Player) error {
	if len(r.players) >= r.Game.MaxPlayerCount() {
		return errorx.ErrRoomFull
	}

	// A rejoining player gets their original seat back; anyone else takes
	// the next free one.
	index, rejoining := r.departed[player.ID]
	if rejoining {
		delete(r.departed, player.ID)
	} else {
		index = r.nextIndex
		r.nextIndex++
	}
	r.players = append(r.players, &PlayerInRoom{
		ID:    player.ID,
		Name:  player.Name,
		Index: index,
	})
	r.Game.AddPlayer(player, index)
	return nil
}

func (r *Room) removePlayer(playerID string) {
	for i, p := range r.players {
		if p.ID == playerID {
			r.departed[playerID] = p.Index
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.Game.RemovePlayer(playerID)
}

func (r *Room) playerReady(playerID string) {
	for _, p := range r.players {
		if p.ID == playerID {
			p.State = PlayerReady
		}
	}
}

// allPlayersReady reports whether the roster is full and every seat is
// ready; only then does the room start its countdown.
func (r *Room) allPlayersReady() bool {
	if len(r.players) != r.Game.MaxPlayerCount() {
		return false
	}
	for _, p := range r.players {
		if p.State != PlayerReady {
			return false
		}
	}
	return true
}

// Snapshot builds the public view of the room. Safe for concurrent use.
func (r *Room) Snapshot() model.GameRoomDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Room) snapshot() model.GameRoomDTO {
	names := make([]string, 0, len(r.players))
	for _, p := range r.players {
		names = append(names, p.Name)
	}

	return model.GameRoomDTO{
		ID:          r.ID,
		Name:        r.Name,
		PlayerCount: len(r.players),
		GameType:    r.Game.Type(),
		Category:    r.Category,
		Players:     names,
		RoomState:   r.state.String(),
	}
}

func (r *Room) broadcastRoomState() {
	players := make([]model.PlayerDTO, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, model.PlayerDTO{
			ID:    p.ID,
			Name:  p.Name,
			Index: p.Index,
			State: p.State.String(),
		})
	}

	r.broadcast(model.RoomUpdate{
		Players:  players,
		State:    r.state.String(),
		GameRoom: r.snapshot(),
	})
}

func (r *Room) broadcast(msg model.ServerMessage) {
	r.logger.Debugf("Broadcasting %s to room %s", msg.MessageType(), r.ID)
	r.broadcaster.Broadcast(r.ID, msg)
}
