package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// SaveSlot returns the saved-board key for a game played by owner.
// Local play has no owner; SSH sessions keep one board per user.
func SaveSlot(gameID, owner string) string {
	if owner == "" {
		return gameID
	}
	return gameID + "@" + owner
}

// GameModel is the Bubble Tea model for one running board.
// It feeds input to the game, persists the board after every move and
// records the score once when the game ends.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	slot       string
	fixedSeed  bool // the caller chose the seed; restarts deal the same opening
	standalone bool // back quits the program instead of returning to a menu
	nested     bool // a parent model switches views on back; never emit tea.Quit for it
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model for game and starts its session. A board saved
// under slot is resumed; a saved board the game rejects is logged and dropped.
func NewGameModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, slot string) GameModel {
	fixedSeed := cfg.Seed != 0
	if !fixedSeed {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}
	if slot == "" {
		slot = game.ID()
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger.With("game", game.ID()),
		config:     cfg,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		slot:       slot,
		fixedSeed:  fixedSeed,
	}
	m.start()
	return m
}

// start resets the game, resuming a saved board when one exists.
func (m *GameModel) start() {
	cfg := m.config
	if cfg.Resume == nil && m.store != nil {
		saved, err := m.store.LoadBoard(m.slot)
		switch {
		case err == nil:
			cfg.Resume = saved.Board
			cfg.ResumeMoves = saved.Moves
		case !errors.Is(err, storage.ErrNoSavedGame):
			m.logger.Warn("cannot load saved board", "slot", m.slot, "err", err)
		}
	}

	m.game.Reset(cfg)
	if cfg.Resume != nil {
		if r, ok := m.game.(interface{ ResumeError() error }); ok && r.ResumeError() != nil {
			m.logger.Warn("saved board rejected, starting fresh", "slot", m.slot, "err", r.ResumeError())
			m.forgetBoard()
		} else {
			m.logger.Info("resumed saved board", "slot", m.slot, "score", m.game.State().Score)
		}
	}

	// Resume applies to the first session only.
	m.config.Resume = nil
	m.config.ResumeMoves = 0
	m.gameState = m.game.State()
	m.scoreSaved = m.gameState.GameOver
	if m.scoreSaved {
		m.forgetBoard()
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.game.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.inputFrame.Clear()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		if m.nested {
			return m, nil
		}
		return m, tea.Quit
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.restart()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	switch {
	case m.gameState.GameOver && !m.scoreSaved:
		m.recordScore()
		m.forgetBoard()
	case result.Moved:
		m.saveBoard()
	}

	return m, tickCmd(m.config.TickRate)
}

// restart ends the current board, recording its score like a finished game,
// and deals a fresh one.
func (m *GameModel) restart() {
	if !m.scoreSaved {
		m.recordScore()
	}
	m.forgetBoard()
	if !m.fixedSeed {
		m.config.Seed = time.Now().UnixNano()
	}
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.inputFrame.Clear()
	m.logger.Debug("new board")
}

func (m *GameModel) recordScore() {
	m.scoreSaved = true
	if m.store == nil || m.gameState.Score == 0 {
		return
	}
	st := m.gameState
	if _, err := m.store.SaveScore(m.game.ID(), st.Score, st.MaxTile, st.Moves); err != nil {
		m.logger.Error("cannot save score", "err", err)
		return
	}
	m.logger.Info("score recorded", "score", st.Score, "max_tile", st.MaxTile, "moves", st.Moves)
}

func (m *GameModel) saveBoard() {
	if m.store == nil {
		return
	}
	if err := m.store.SaveBoard(m.slot, m.game.Cells(), m.gameState.Moves); err != nil {
		m.logger.Warn("cannot save board", "slot", m.slot, "err", err)
	}
}

func (m *GameModel) forgetBoard() {
	if m.store == nil {
		return
	}
	if err := m.store.DeleteBoard(m.slot); err != nil {
		m.logger.Warn("cannot delete saved board", "slot", m.slot, "err", err)
	}
}

// saveScreenshot writes the current screen to ~/.t2048/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".t2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting reports whether the player asked to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Config returns the runtime config, including the latest screen size.
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// Run plays a single game in the terminal until the player quits.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	_, err := RunGame(game, store, logger, cfg, true)
	return err
}

// RunGame plays game and returns the final model. With standalone false,
// back returns to the caller instead of quitting.
func RunGame(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, standalone bool) (GameModel, error) {
	model := NewGameModel(game, store, logger, cfg, "")
	model.standalone = standalone

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return model, err
	}
	if gm, ok := final.(GameModel); ok {
		return gm, nil
	}
	return model, nil
}
