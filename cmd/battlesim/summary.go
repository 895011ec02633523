package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/battlesim/internal/report"
	"github.com/udisondev/battlesim/internal/worker"
)

func writeSummary(w io.Writer, f report.Format, s worker.Summary) error {
	switch f {
	case report.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml summary: %w", err)
		}
		return enc.Close()
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding json summary: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintf(w,
		"runs %d  victories %d  defeats %d  timeouts %d  failed %d\n"+
			"party damage min %.0f  avg %.0f  max %.0f\n"+
			"average clock %.1f AV\n",
		s.Runs, s.Victories, s.Defeats, s.Timeouts, s.Failed,
		s.MinDamage, s.AvgDamage, s.MaxDamage, s.AvgClock)
	return err
}
