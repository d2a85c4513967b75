package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "List configured remotes (name, type, URL)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(repo.Config.Remotes) == 0 {
			fmt.Println("no remotes configured")
			return nil
		}
		for name, r := range repo.Config.Remotes {
			fmt.Printf("%s\t%s\t%s\n", name, r.Type, r.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}
