package menu

import (
	"errors"
	"fmt"

	"ragbot/pkg/bus"
)

// ErrNotFound reports a lookup for a screen or transition label that the
// graph does not contain. Callers treat it as a stale-button signal, not a
// fault.
var ErrNotFound = errors.New("menu: not found")

// Transition is one labeled button on a screen. Target names a screen or a
// registered action id; URL buttons open a link instead of navigating.
type Transition struct {
	Label  string
	Target string
	URL    string
}

// Screen is one node of the menu graph. Rows preserve the declared button
// layout. ReplyRows and RemoveKeyboard drive the persistent reply keyboard
// on channels that support one.
type Screen struct {
	ID             string
	Body           string
	PhotoURL       string
	Rows           [][]Transition
	ReplyRows      [][]string
	RemoveKeyboard bool
}

// Graph is the static, validated set of menu screens. Immutable after
// construction; cycles (back edges) are expected and legal.
type Graph struct {
	screens map[string]Screen
	order   []string
	actions map[string]struct{}
}

// NewGraph validates the screen set against itself and the registered action
// ids. Duplicate screen ids, screen/action id collisions, and transitions
// whose target is neither a screen nor an action are construction errors:
// a broken graph must fail at startup, never at button-press time.
func NewGraph(screens []Screen, actions []string) (*Graph, error) {
	g := &Graph{
		screens: make(map[string]Screen, len(screens)),
		order:   make([]string, 0, len(screens)),
		actions: make(map[string]struct{}, len(actions)),
	}

	for _, action := range actions {
		if action == "" {
			return nil, errors.New("menu: empty action id")
		}
		g.actions[action] = struct{}{}
	}

	for _, screen := range screens {
		if screen.ID == "" {
			return nil, errors.New("menu: screen with empty id")
		}
		if _, dup := g.screens[screen.ID]; dup {
			return nil, fmt.Errorf("menu: duplicate screen id %q", screen.ID)
		}
		if _, clash := g.actions[screen.ID]; clash {
			return nil, fmt.Errorf("menu: id %q is both a screen and an action", screen.ID)
		}
		g.screens[screen.ID] = screen
		g.order = append(g.order, screen.ID)
	}

	for _, screen := range screens {
		for _, row := range screen.Rows {
			for _, transition := range row {
				if transition.Label == "" {
					return nil, fmt.Errorf("menu: screen %q has a transition with no label", screen.ID)
				}
				if transition.URL != "" {
					if transition.Target != "" {
						return nil, fmt.Errorf("menu: screen %q transition %q has both target and URL", screen.ID, transition.Label)
					}
					continue
				}
				if !g.knows(transition.Target) {
					return nil, fmt.Errorf("menu: screen %q transition %q targets unknown id %q", screen.ID, transition.Label, transition.Target)
				}
			}
		}
	}

	return g, nil
}

func (g *Graph) knows(id string) bool {
	if _, ok := g.screens[id]; ok {
		return true
	}
	_, ok := g.actions[id]
	return ok
}

// HasScreen reports whether id names a screen.
func (g *Graph) HasScreen(id string) bool {
	_, ok := g.screens[id]
	return ok
}

// IsAction reports whether id names a registered terminal action.
func (g *Graph) IsAction(id string) bool {
	_, ok := g.actions[id]
	return ok
}

// Screen returns the screen for id.
func (g *Graph) Screen(id string) (Screen, bool) {
	screen, ok := g.screens[id]
	return screen, ok
}

// ScreenIDs returns all screen ids in declaration order.
func (g *Graph) ScreenIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Render materializes a screen into an outbound message: body text plus the
// button layout in declared order.
func (g *Graph) Render(id string) (bus.OutboundMessage, error) {
	screen, ok := g.screens[id]
	if !ok {
		return bus.OutboundMessage{}, fmt.Errorf("screen %q: %w", id, ErrNotFound)
	}

	out := bus.OutboundMessage{
		Content:        screen.Body,
		ParseMode:      bus.ParseHTML,
		PhotoURL:       screen.PhotoURL,
		RemoveKeyboard: screen.RemoveKeyboard,
	}

	if len(screen.Rows) > 0 {
		out.Keyboard = make([][]bus.Button, 0, len(screen.Rows))
		for _, row := range screen.Rows {
			buttons := make([]bus.Button, 0, len(row))
			for _, transition := range row {
				buttons = append(buttons, bus.Button{
					Label:  transition.Label,
					Action: transition.Target,
					URL:    transition.URL,
				})
			}
			out.Keyboard = append(out.Keyboard, buttons)
		}
	}

	if len(screen.ReplyRows) > 0 {
		out.ReplyKeyboard = make([][]string, len(screen.ReplyRows))
		for i, row := range screen.ReplyRows {
			out.ReplyKeyboard[i] = append([]string(nil), row...)
		}
	}

	return out, nil
}

// Resolve looks up the transition with the given label on a screen and
// returns its target id. Guards against stale buttons from a previous menu
// revision by failing with ErrNotFound.
func (g *Graph) Resolve(screenID, label string) (string, error) {
	screen, ok := g.screens[screenID]
	if !ok {
		return "", fmt.Errorf("screen %q: %w", screenID, ErrNotFound)
	}

	for _, row := range screen.Rows {
		for _, transition := range row {
			if transition.Label == label {
				if transition.URL != "" {
					return "", fmt.Errorf("transition %q on screen %q is a link: %w", label, screenID, ErrNotFound)
				}
				return transition.Target, nil
			}
		}
	}

	return "", fmt.Errorf("transition %q on screen %q: %w", label, screenID, ErrNotFound)
}
