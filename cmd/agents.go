/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/longkey1/agrochat/internal/agrochat"
	"github.com/spf13/cobra"
)

// agentsCmd represents the agents command
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the available agents",
	Long: `List the agents that can be picked in the chat.
The ID column is what 'agrochat chat --agent' accepts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tIMAGES\tDESCRIPTION")
		for _, a := range agrochat.Agents() {
			images := "no"
			if a.AcceptsImages {
				images = "yes"
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", a.ID, a.Icon, a.Name, images, a.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
