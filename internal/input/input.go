package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical command, not a physical key
type Action int

const (
	ActionQuit Action = iota
	ActionCycleSplitscreen
	ActionHotloadShaders
	ActionToggleProfiling
	ActionPause
	ActionOrbitLeft
	ActionOrbitRight
	ActionCount // sentinel for array sizing
)

// Manager maps keys to actions and tracks per-frame press edges. Key events
// may arrive from GLFW callbacks while the loop reads state.
type Manager struct {
	mu sync.RWMutex

	keyToActions map[glfw.Key][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager returns a manager with the default bindings
func NewManager() *Manager {
	m := &Manager{keyToActions: make(map[glfw.Key][]Action)}

	m.Bind(glfw.KeyEscape, ActionQuit)
	m.Bind(glfw.KeyF1, ActionCycleSplitscreen)
	m.Bind(glfw.KeyF5, ActionHotloadShaders)
	m.Bind(glfw.KeyV, ActionToggleProfiling)
	m.Bind(glfw.KeyP, ActionPause)
	m.Bind(glfw.KeyA, ActionOrbitLeft)
	m.Bind(glfw.KeyLeft, ActionOrbitLeft)
	m.Bind(glfw.KeyD, ActionOrbitRight)
	m.Bind(glfw.KeyRight, ActionOrbitRight)

	return m
}

// Bind adds an action to a key. A key can drive several actions and an
// action can have several keys.
func (m *Manager) Bind(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// Unbind removes every action bound to key
func (m *Manager) Unbind(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKeyEvent records a key transition. Edges are latched until PostUpdate.
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	pressed := action == glfw.Press || action == glfw.Repeat

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, act := range m.keyToActions[key] {
		if pressed && !m.current[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.current[act] {
			m.justReleased[act] = true
		}
		m.current[act] = pressed
	}
}

// Attach installs the manager as the window's key callback
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
}

// PostUpdate clears the edge flags; call once at the end of every frame
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
}

func (m *Manager) IsActive(action Action) bool {
	return m.get(&m.current, action)
}

func (m *Manager) JustPressed(action Action) bool {
	return m.get(&m.justPressed, action)
}

func (m *Manager) JustReleased(action Action) bool {
	return m.get(&m.justReleased, action)
}

func (m *Manager) get(state *[ActionCount]bool, action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return state[action]
}
