package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	challengescreen "github.com/abhisek/skillforge/internal/screens/challenge"
	chatscreen "github.com/abhisek/skillforge/internal/screens/chat"
	pathscreen "github.com/abhisek/skillforge/internal/screens/path"
	"github.com/abhisek/skillforge/internal/screens/placeholder"
	"github.com/abhisek/skillforge/internal/ui/components"
)

// HomeScreen is the main menu. It reads progress from the tracker on every
// render so stats stay current after returning from other screens.
type HomeScreen struct {
	orch       *orchestrator.Orchestrator
	tracker    *learning.Tracker
	menu       components.Menu
	menuLabels []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. orch may be nil when no backend is
// configured; AI features then open a notice instead.
func New(orch *orchestrator.Orchestrator, tracker *learning.Tracker) *HomeScreen {
	h := &HomeScreen{orch: orch, tracker: tracker}
	h.menuLabels = []string{"LEARNING PATH", "DAILY CHALLENGE", "MENTOR CHAT", "QUIT"}

	push := func(title string, build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				if h.orch == nil {
					return router.PushScreenMsg{Screen: placeholder.New(title)}
				}
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	items := []components.MenuItem{
		{Label: h.menuLabels[0], Action: push("Learning Path", func() screen.Screen {
			return pathscreen.New(h.orch, h.tracker)
		})},
		{Label: h.menuLabels[1], Action: push("Daily Challenge", func() screen.Screen {
			return challengescreen.New(h.orch, h.tracker.Profile())
		})},
		{Label: h.menuLabels[2], Action: push("Mentor Chat", func() screen.Screen {
			return chatscreen.New(h.orch.CreateChatSession(h.tracker.Profile()), h.tracker)
		})},
		{Label: h.menuLabels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps.
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)
	profile := h.tracker.Profile()

	var done, total int
	variant := MascotIdle
	if p := h.tracker.Path(); p != nil {
		done, total = p.Progress()
		if p.Completed() {
			variant = MascotCelebrating
		}
	}
	if h.orch == nil {
		variant = MascotAlert
	}

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(variant, cw))
	}
	sections = append(sections, renderStatsBar(profile.XP, done, total, profile.Streak, cw, compact))
	if h.orch == nil {
		sections = append(sections, renderLLMBanner(cw))
	}
	if compact {
		sections = append(sections, renderArcadeMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
