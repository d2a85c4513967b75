package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new dotman repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := resolveHome()
		if err != nil {
			return err
		}
		r, err := dotman.Init(home)
		if err != nil {
			return err
		}
		r.SetLogger(logger)
		fmt.Printf("initialized empty dotman repository in %s\n", r.RepoPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
