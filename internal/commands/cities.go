package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grocktx/grocktx/internal/gazetteer"
)

func newCitiesCommand(gf *globalFlags) *cobra.Command {
	var zip string

	cmd := &cobra.Command{
		Use:   "cities [STATE]",
		Short: "List gazetteer states, the cities of a state, or the cities of a zip",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := gf.load(cmd)
			if err != nil {
				return err
			}
			gaz, err := e.gazetteer()
			if err != nil {
				return err
			}
			state := ""
			if len(args) == 1 {
				state = args[0]
			}
			return runCities(cmd.OutOrStdout(), gaz, state, zip)
		},
	}

	cmd.Flags().StringVar(&zip, "zip", "", "list the cities registered for a zip code")

	return cmd
}

func runCities(w io.Writer, gaz *gazetteer.Gazetteer, state, zip string) error {
	var names []string
	switch {
	case zip != "":
		names = gaz.CitiesForZip(zip)
		if len(names) == 0 {
			return fmt.Errorf("zip %s is not in the gazetteer", zip)
		}
	case state != "":
		state = strings.ToUpper(state)
		if !gaz.HasState(state) {
			return fmt.Errorf("state %s is not in the gazetteer", state)
		}
		names = gaz.CitiesInState(state)
	default:
		names = gaz.States()
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}
