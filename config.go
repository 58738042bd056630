package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"geoboard/board"
	"geoboard/frame"
	"geoboard/surface"
)

type Config struct {
	SaveDirectory  string
	FPS            int
	HighlightColor string
	PointColor     string
	LogFile        string
	CellWidth      int
	CellHeight     int
	Confirmations  bool
}

func defaultConfig() *Config {
	return &Config{
		FPS:            defaultFPS,
		HighlightColor: "#88F",
		PointColor:     "#00F",
		CellWidth:      defaultCellWidth,
		CellHeight:     defaultCellHeight,
		Confirmations:  true,
	}
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}
	file, err := os.Open(filepath.Join(homeDir, ".geoboardrc"))
	if err != nil {
		return defaultConfig()
	}
	defer file.Close()
	return parseConfig(file, homeDir)
}

func parseConfig(r io.Reader, homeDir string) *Config {
	config := defaultConfig()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "logfile", "log_file":
			config.LogFile = expandPath(value, homeDir)
		case "fps", "framerate", "frame_rate":
			if n, err := strconv.Atoi(value); err == nil {
				config.FPS = min(max(n, minFPS), maxFPS)
			}
		case "highlight", "highlightcolor", "highlight_color":
			if _, err := surface.ParseColor(value); err == nil {
				config.HighlightColor = value
			}
		case "pointcolor", "point_color":
			if _, err := surface.ParseColor(value); err == nil {
				config.PointColor = value
			}
		case "cellwidth", "cell_width":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.CellWidth = n
			}
		case "cellheight", "cell_height":
			if n, err := strconv.Atoi(value); err == nil && n > 1 {
				config.CellHeight = n
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}

// boardOptions turns the configured colors into board options.
func (c *Config) boardOptions(single bool) board.Options {
	opts := frame.DefaultOptions()
	if col, err := surface.ParseColor(c.PointColor); err == nil {
		opts.PointColor = col
	}
	if col, err := surface.ParseColor(c.HighlightColor); err == nil {
		opts.HighlightColor = col
	}
	if single {
		opts.Input = board.SinglePointer
	}
	return opts
}
