package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/calendar-aggregator/internal/topic"
)

func newTopicsCmd(g *globalFlags) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage stored topics",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "topics-db", "", "SQLite file for topics (defaults to the configured topics_db)")

	open := func() (*topic.Store, error) {
		cfg, err := g.loadConfig()
		if err != nil {
			return nil, err
		}
		path := cfg.TopicsDB
		if dbPath != "" {
			path = dbPath
		}
		if path == "" {
			return nil, fmt.Errorf("no topics database configured (set --topics-db or topics_db)")
		}
		return topic.Open(path)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME URL...",
		Short: "Create a topic from a list of URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.Add(context.Background(), args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added topic %d: %s (%d urls)\n", t.ID, t.Name, len(t.URLs))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List topics and their URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			topics, err := store.List(context.Background())
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No topics.")
				return nil
			}
			for _, t := range topics {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", t.ID, t.Name)
				for _, u := range t.URLs {
					fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", u)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid topic id %q", args[0])
			}

			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %d\n", id)
			return nil
		},
	})

	return cmd
}
