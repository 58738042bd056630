package main

import (
	"fmt"
	"os"
	"time"
)

// exportPNG saves the last frame into the save directory.
func (m *model) exportPNG() (string, error) {
	path, err := m.config.GetSavePath(fileStem(m.scene.Title, time.Now()) + ".png")
	if err != nil {
		return "", err
	}
	if err := m.board.Surface().SavePNG(path); err != nil {
		return "", fmt.Errorf("save PNG: %w", err)
	}
	return path, nil
}

// exportText writes the current values into the save directory.
func (m *model) exportText() (string, error) {
	path, err := m.config.GetSavePath(fileStem(m.scene.Title, time.Now()) + ".txt")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(snapshotText(m.board.Snapshot())), 0644); err != nil {
		return "", fmt.Errorf("write values: %w", err)
	}
	return path, nil
}
