package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"jukebox/internal/playlist"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and maintain the queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueShuffleCommand(ctx))
	queueCmd.AddCommand(newQueueCountCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show queued entries in play order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				entries := sess.list.Entries()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for i, entry := range entries {
					requester := entry.Meta()[playlist.MetaAuthor].Name
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						entry.Title(),
						formatDuration(entry.Duration()),
						requester,
						yesNo(entry.Downloaded()),
					})
				}
				if !stdoutIsTerminal() {
					for _, row := range rows {
						fmt.Fprintln(out, strings.Join(row, "\t"))
					}
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Duration", "Requester", "Ready"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all queued entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				count := sess.list.Clear()
				fmt.Fprintf(out, "Removed %d entries\n", count)
				return nil
			})
		},
	}
}

func newQueueShuffleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Randomize the queue order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				sess.list.Shuffle()
				fmt.Fprintf(out, "Shuffled %d entries\n", sess.list.Len())
				return nil
			})
		},
	}
}

func newQueueCountCommand(ctx *commandContext) *cobra.Command {
	var requesterID string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count queued entries, optionally per requester",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				if id := strings.TrimSpace(requesterID); id != "" {
					fmt.Fprintf(out, "%d\n", sess.list.CountFor(id))
					return nil
				}
				fmt.Fprintf(out, "%d\n", sess.list.Len())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&requesterID, "requester-id", "", "Count only entries queued by this requester")
	return cmd
}

func newNextCommand(ctx *commandContext) *cobra.Command {
	var noPrefetch bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Pop the head entry and wait for its download",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				entry, err := sess.list.PopNext(cmd.Context(), !noPrefetch)
				if err != nil {
					return err
				}
				if entry == nil {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				fmt.Fprintf(out, "%s\n", entry.Filename())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noPrefetch, "no-prefetch", false, "Do not start downloading the new queue head")
	return cmd
}

func newPeekCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "peek",
		Short: "Show the head entry without removing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				entry := sess.list.Peek()
				if entry == nil {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				fmt.Fprintf(out, "%s (%s)\n", entry.Title(), formatDuration(entry.Duration()))
				return nil
			})
		},
	}
}

func newWaitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "wait POSITION",
		Short: "Estimate the wait before a queue position plays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || position < 1 {
				return fmt.Errorf("invalid queue position %q", args[0])
			}
			out := cmd.OutOrStdout()
			return ctx.withSession(cmd.Context(), func(sess *session) error {
				if position > sess.list.Len() {
					return fmt.Errorf("position %d out of range (queue has %d entries)", position, sess.list.Len())
				}
				fmt.Fprintln(out, formatDuration(sess.list.EstimateWait(position, nil)))
				return nil
			})
		},
	}
}
