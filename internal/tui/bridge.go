package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/regensim/internal/datalog"
)

// Sender is the part of *tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards every Nth simulator step to a bubbletea program as a StepMsg.
type Bridge struct {
	sender Sender
	every  int
	seen   int
}

func NewBridge(s Sender, every int) *Bridge {
	if every < 1 {
		every = 1
	}
	return &Bridge{sender: s, every: every}
}

func (b *Bridge) OnStep(e datalog.Entry) {
	b.seen++
	if (b.seen-1)%b.every == 0 {
		b.sender.Send(StepMsg(e))
	}
}
