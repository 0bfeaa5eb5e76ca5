package tui

import (
	"github.com/GRBadas/Planilha-Django/internal/engine"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/pagination"
	tea "github.com/charmbracelet/bubbletea"
)

// Load results. gen is the mount generation the fetch was started for; results for an
// older generation belong to a screen that was left and are dropped.
type dashboardLoadedMsg struct {
	spending engine.Collection[model.CategoryTotal]
	recent   engine.Collection[model.Transaction]
	gen      int
}

type cardsLoadedMsg struct {
	cards engine.Collection[model.Card]
	gen   int
}

type categoriesLoadedMsg struct {
	categories engine.Collection[model.Category]
	gen        int
}

type referenceLoadedMsg struct {
	cards      engine.Collection[model.Card]
	categories engine.Collection[model.Category]
	gen        int
}

type pageLoadedMsg struct {
	page  engine.Collection[model.Transaction]
	pager pagination.Pager
	gen   int
}

// writeDoneMsg reports a finished save or delete. retry re-runs the same write.
type writeDoneMsg struct {
	err     error
	retry   tea.Cmd
	entity  engine.Entity
	action  writeAction
	gen     int
	applied bool
}

type writeAction int

const (
	actionSave writeAction = iota
	actionDelete
)

// confirmRequestMsg opens the y/n dialog; the answer goes to reply.
type confirmRequestMsg struct {
	reply  chan<- bool
	prompt string
}
