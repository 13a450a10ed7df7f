package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/grocktx/grocktx/internal/memo"
)

func newParseCommand(gf *globalFlags) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "parse [memo]",
		Short: "Classify a single memo, or one memo per line from stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := gf.load(cmd)
			if err != nil {
				return err
			}
			ref, err := e.reference(date)
			if err != nil {
				return err
			}
			p, err := e.parser()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return runParse(cmd.OutOrStdout(), p, args[0], ref)
			}
			return runParseLines(cmd.InOrStdin(), cmd.OutOrStdout(), p, ref)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD) for year-less memo dates")

	return cmd
}

func runParse(w io.Writer, p *memo.Parser, text string, ref time.Time) error {
	data, err := json.MarshalIndent(p.Parse(text, ref), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// runParseLines writes one JSON object per non-blank input line.
func runParseLines(r io.Reader, w io.Writer, p *memo.Parser, ref time.Time) error {
	enc := json.NewEncoder(w)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := enc.Encode(p.Parse(line, ref)); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading memos: %w", err)
	}
	return nil
}
