package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjaus/respond"
)

func newResolveCmd(a *app) *cobra.Command {
	var def string
	cmd := &cobra.Command{
		Use:   "resolve candidate...",
		Short: "Print the first candidate path that exists",
		Long:  `Probes the candidate paths in order and prints the first one that exists, or the --default path when none does.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := respond.Resolver{Logger: a.log}.Find(def, args)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&def, "default", "d", "", "Path printed when no candidate exists")
	return cmd
}
