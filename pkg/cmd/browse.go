package cmd

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/tui"
)

var BrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newCatalogClient()
		defer client.Close()

		// logging would draw over the alt screen
		log.SetOutput(io.Discard)

		p := tea.NewProgram(tui.New(cmd.Context(), client), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err := p.Run()
		return err
	},
}
