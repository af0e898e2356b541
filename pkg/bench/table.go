package bench

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorBorder = lipgloss.Color("#16858E")
	colorHeader = lipgloss.Color("#2CD7C7")
	colorLeader = lipgloss.Color("#F4D03F")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	leaderStyle = cellStyle.Foreground(colorLeader).Bold(true)
)

// RankingTable renders the standings, best strategy first
func RankingTable(r *Results) string {
	standings := r.Ranking()

	rows := make([][]string, 0, len(standings))
	for i, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.FormatFloat(s.Points, 'f', 1, 64),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Draws),
			fmt.Sprintf("%.3fs", s.ExecutionTime),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("#", "strategy", "points", "wins", "losses", "draws", "time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0:
				return leaderStyle
			}
			return cellStyle
		}).
		String()
}

// MatchupTable renders "wins-losses-draws" of every row strategy against
// every column strategy, in ranking order
func MatchupTable(r *Results) string {
	standings := r.Ranking()
	names := make([]string, len(standings))
	for i, s := range standings {
		names[i] = s.Name
	}

	rows := make([][]string, 0, len(names))
	for _, a := range names {
		row := []string{a}
		for _, b := range names {
			if a == b {
				row = append(row, "-")
				continue
			}
			rec := r.Matchups[a][b]
			row = append(row, fmt.Sprintf("%d-%d-%d", rec.Wins, rec.Losses, rec.Draws))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(append([]string{"vs"}, names...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
