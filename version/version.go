package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = ""
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bot version.",
		Run: func(cmd *cobra.Command, args []string) {
			if Commit != "" {
				fmt.Printf("%s (%s)\n", Version, Commit)
				return
			}
			fmt.Println(Version)
		},
	}
}
