package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl7play/internal/cache"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the validation result cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "dir",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := cache.Open(a.cfg.Cache.Dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every cached result",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := cache.Open(a.cfg.Cache.Dir)
				if err != nil {
					return err
				}
				if err := c.DropAll(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
				return nil
			},
		},
	)
	return cmd
}
