package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmReset
)

type ActionType int

const (
	ActionMovePoint ActionType = iota
	ActionSetRange
	ActionToggleCheckbox
)

const (
	defaultFPS        = 60
	minFPS            = 1
	maxFPS            = 240
	defaultCellWidth  = 8
	defaultCellHeight = 16

	// rows taken by the title line and the status line
	chromeRows = 2

	// fast adjustment multiplier for H/L
	fastSteps = 10

	messageTimeout = 3 * time.Second
)
