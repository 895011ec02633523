package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/udisondev/battlesim/internal/game/battle"
)

// writeText renders a summary table followed by the transcript.
func (r Report) writeText(w io.Writer) error {
	var b strings.Builder

	if r.Name != "" {
		fmt.Fprintf(&b, "scenario  %s\n", r.Name)
	}
	fmt.Fprintf(&b, "digest    %s\n", r.Digest)
	fmt.Fprintf(&b, "seed      %d\n", r.Seed)
	fmt.Fprintf(&b, "outcome   %s after %d turns (AV %.1f)\n\n", r.Outcome, r.Turns, r.Clock)

	fmt.Fprintf(&b, "%-28s %6s %12s %10s %10s %8s %7s\n", "unit", "alive", "damage", "healing", "shielding", "actions", "breaks")
	for _, u := range r.Units {
		alive := "no"
		if u.Alive {
			alive = "yes"
		}
		fmt.Fprintf(&b, "%-28s %6s %12.0f %10.0f %10.0f %8d %7d\n",
			u.ID, alive, u.DamageDealt, u.Healing, u.Shielding, u.Actions, u.Breaks)
	}
	fmt.Fprintf(&b, "\nparty damage %.0f\n\n", r.PartyDamage())

	for _, e := range r.Transcript {
		b.WriteString(Line(e))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Line renders one transcript entry.
func Line(e battle.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%7.2f] #%-4d %-20s", e.Time, e.Seq, e.Kind)
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Ability != "" {
		fmt.Fprintf(&b, " %q", e.Ability)
	}
	if e.Target != "" {
		fmt.Fprintf(&b, " -> %s", e.Target)
	}
	if e.Value != 0 {
		fmt.Fprintf(&b, " %.0f", e.Value)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	for _, h := range e.Hits {
		fmt.Fprintf(&b, "\n          hit %s %.0f", h.Target, h.Damage)
		if h.Crit {
			b.WriteString(" crit")
		}
		if h.Absorbed > 0 {
			fmt.Fprintf(&b, " absorbed %.0f", h.Absorbed)
		}
	}
	return b.String()
}
