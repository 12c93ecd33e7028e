// Package logger builds the styled stderr logger shared by all commands.
package logger

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
)

func levelStyle(name, background, foreground string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(name).
		Background(lipgloss.Color(background)).
		Foreground(lipgloss.Color(foreground)).
		Padding(0, 1)
}

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) *log.Logger {
	logger := log.New(w)
	logger.SetStyles(&log.Styles{
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: levelStyle("DEBUG", "#3F51B5", "#000000"),
			log.InfoLevel:  levelStyle("INFO", "#4CAF50", "#000000"),
			log.WarnLevel:  levelStyle("WARN", "#FF9800", "#000000"),
			log.ErrorLevel: levelStyle("ERROR", "#F44336", "#000000"),
			log.FatalLevel: levelStyle("FATAL", "#F44336", "#FFFFFF"),
		},
		Key:       lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Bold(true),
		Value:     lipgloss.NewStyle(),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}
