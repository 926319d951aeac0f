package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < maxLines {
		return ring[:count], nil
	}
	return append(ring[next:], ring[:next]...), nil
}

// LineLevel extracts the slog level of a text-handler line. Lines without a
// level field report false.
func LineLevel(line string) (slog.Level, bool) {
	raw, ok := field(line, "level")
	if !ok {
		return 0, false
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, false
	}
	return level, true
}

// AtLeast keeps lines at or above minLevel. Lines without a level are kept so
// multi-line values are not split from their record.
func AtLeast(lines []string, minLevel slog.Level) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if level, ok := LineLevel(line); ok && level < minLevel {
			continue
		}
		out = append(out, line)
	}
	return out
}

var (
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6495ED"))
	levelStyles    = map[slog.Level]lipgloss.Style{
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#63cdcf")),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")).Bold(true),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#dbc074")).Bold(true),
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true),
	}
)

// Colorize highlights the time, level and component fields of a line.
// Malformed lines are returned unchanged.
func Colorize(line string) string {
	parts := strings.Split(line, " ")
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch key {
		case "time":
			parts[i] = timeStyle.Render(part)
		case "level":
			var level slog.Level
			if err := level.UnmarshalText([]byte(value)); err != nil {
				continue
			}
			if style, ok := levelStyles[level]; ok {
				parts[i] = style.Render(part)
			}
		case "component":
			parts[i] = componentStyle.Render(part)
		}
	}
	return strings.Join(parts, " ")
}

// field returns the unquoted value of key=value in line.
func field(line, key string) (string, bool) {
	prefix := key + "="
	for _, part := range strings.Split(line, " ") {
		if value, ok := strings.CutPrefix(part, prefix); ok {
			return strings.Trim(value, `"`), true
		}
	}
	return "", false
}
