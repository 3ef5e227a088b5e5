package entities

import "github.com/spf13/cobra"

// ControllerBind is the command metadata a controller exposes to the CLI.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is an inbound adapter bound to one CLI subcommand.
type Controller interface {
	GetBind() ControllerBind
	AddFlags(cmd *cobra.Command)
	Execute(cmd *cobra.Command, args []string)
}
