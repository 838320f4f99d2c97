package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listVerified string

var monumentCmd = &cobra.Command{
	Use:   "monument",
	Short: "Moderate monuments",
}

var monumentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List monuments with their verification status",
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter *bool
		switch listVerified {
		case "":
		case "true", "false":
			v := listVerified == "true"
			filter = &v
		default:
			return fmt.Errorf("--verified must be true or false")
		}
		ms, err := monumentSvc.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATE\tVERIFIED")
		for _, m := range ms {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", m.ID, m.Title, m.State, m.Verified)
		}
		return w.Flush()
	},
}

func init() {
	monumentListCmd.Flags().StringVar(&listVerified, "verified", "", "Filter by status (true|false)")
	monumentCmd.AddCommand(monumentListCmd, setVerifiedCmd("verify", true), setVerifiedCmd("unverify", false))
}

func setVerifiedCmd(use string, verified bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Set a monument's verified flag to %t", verified),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := monumentSvc.SetVerified(cmd.Context(), args[0], verified)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q verified=%t\n", m.ID, m.Title, m.Verified)
			return nil
		},
	}
}
