package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ohhell/internal/app"
	"ohhell/internal/domain"
)

var (
	border    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	header    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cell      = lipgloss.NewStyle().Padding(0, 1)
	live      = cell.Foreground(lipgloss.Color("11"))
	leader    = cell.Bold(true).Foreground(lipgloss.Color("10"))
	statusBar = lipgloss.NewStyle().Bold(true)
)

// renderScorecard draws the ledger with one column per round.
func renderScorecard(v app.View) string {
	if len(v.Players) == 0 {
		return statusLine(v)
	}

	headers := []string{"Player"}
	for _, r := range v.Schedule {
		headers = append(headers, fmt.Sprintf("R%d:%d", r.Number, r.CardsDealt))
	}
	headers = append(headers, "Total", "Rank")

	liveCol := -1
	if v.Round != nil {
		liveCol = v.Round.Number
	}

	rows := make([][]string, 0, len(v.Players))
	for _, p := range v.Players {
		row := []string{playerLabel(p.PlayerLedger, v.Dealer)}
		for _, e := range p.Scores {
			row = append(row, entryCell(e))
		}
		row = append(row, strconv.Itoa(p.TotalScore), strconv.Itoa(p.Rank))
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == liveCol:
				return live
			case row < len(v.Players) && v.Players[row].Rank == 1 && col == len(headers)-2:
				return leader
			}
			return cell
		})

	return t.Render() + "\n" + statusLine(v)
}

func playerLabel(p domain.PlayerLedger, dealer domain.PlayerID) string {
	name := p.Name
	if name == "" {
		name = string(p.PlayerID)
	}
	if p.PlayerID == dealer {
		name += " *"
	}
	return name
}

// entryCell shows bid/taken and the round score once both are in.
func entryCell(e domain.ScoreEntry) string {
	switch {
	case e.Bid == nil && e.Taken == nil:
		return "."
	case e.Taken == nil:
		return fmt.Sprintf("%d/-", *e.Bid)
	case e.Bid == nil:
		return fmt.Sprintf("-/%d", *e.Taken)
	}
	return fmt.Sprintf("%d/%d %+d", *e.Bid, *e.Taken, e.RoundScore)
}

func statusLine(v app.View) string {
	var b strings.Builder
	switch v.Phase {
	case domain.PhaseSetup:
		b.WriteString("setup: start <name...> [max=N] [points=P]")
	case domain.PhaseDealerSelection:
		b.WriteString("choose the first dealer: dealer <name>")
	default:
		if v.GameOver {
			b.WriteString("game over")
			break
		}
		fmt.Fprintf(&b, "round %d of %d, %s", v.Round.Number, len(v.Schedule), v.Mode)
		if v.CurrentActor != "" {
			fmt.Fprintf(&b, ", waiting on %s", v.CurrentActor)
		} else if v.Mode == domain.ModeBidding && !v.BidsConfirmed {
			b.WriteString(", bids in: confirm")
		} else {
			b.WriteString(", round complete: next")
		}
	}
	if v.Edit != nil {
		fmt.Fprintf(&b, " | editing round %d %s at %s", v.Edit.Round, v.Edit.Mode, v.Edit.Seat)
		if v.Edit.Active {
			b.WriteString(" (changing)")
		}
		if !v.Edit.CanKeep {
			b.WriteString(" (keep blocked)")
		}
	}
	return statusBar.Render(b.String())
}
