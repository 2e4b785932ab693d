package config

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// SplitscreenMode selects how many player viewports share the output surface
type SplitscreenMode int

const (
	SplitscreenNone SplitscreenMode = iota
	SplitscreenTwoPlayer
	SplitscreenFourPlayer
)

// Viewports returns the number of player viewports the mode lays out
func (m SplitscreenMode) Viewports() int {
	switch m {
	case SplitscreenTwoPlayer:
		return 2
	case SplitscreenFourPlayer:
		return 4
	default:
		return 1
	}
}

func (m SplitscreenMode) String() string {
	switch m {
	case SplitscreenTwoPlayer:
		return "TWO_PLAYER"
	case SplitscreenFourPlayer:
		return "FOUR_PLAYER"
	default:
		return "NONE"
	}
}

// ParseSplitscreenMode accepts the names produced by String, case-insensitively
func ParseSplitscreenMode(s string) (SplitscreenMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return SplitscreenNone, nil
	case "TWO_PLAYER":
		return SplitscreenTwoPlayer, nil
	case "FOUR_PLAYER":
		return SplitscreenFourPlayer, nil
	}
	return SplitscreenNone, errors.Errorf("unknown splitscreen mode %q", s)
}

// splitscreenSettings holds the runtime split-screen selection
type splitscreenSettings struct {
	mu   sync.RWMutex
	mode SplitscreenMode
}

var globalSplitscreen = &splitscreenSettings{
	mode: SplitscreenNone,
}

// GetSplitscreenMode returns the current split-screen mode
func GetSplitscreenMode() SplitscreenMode {
	globalSplitscreen.mu.RLock()
	defer globalSplitscreen.mu.RUnlock()
	return globalSplitscreen.mode
}

// SetSplitscreenMode sets the split-screen mode. Render targets are not
// touched here; the renderer must be asked to resize afterwards.
func SetSplitscreenMode(mode SplitscreenMode) {
	globalSplitscreen.mu.Lock()
	defer globalSplitscreen.mu.Unlock()

	// Clamp unknown values
	if mode < SplitscreenNone || mode > SplitscreenFourPlayer {
		mode = SplitscreenNone
	}

	globalSplitscreen.mode = mode
}

// NextSplitscreenMode cycles NONE -> TWO_PLAYER -> FOUR_PLAYER -> NONE and returns the new mode
func NextSplitscreenMode() SplitscreenMode {
	globalSplitscreen.mu.Lock()
	defer globalSplitscreen.mu.Unlock()
	globalSplitscreen.mode = (globalSplitscreen.mode + 1) % 3
	return globalSplitscreen.mode
}
