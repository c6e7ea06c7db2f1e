package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jukebox/internal/playlist"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var requester string
	var requesterID string
	var wait bool

	cmd := &cobra.Command{
		Use:   "add URL",
		Short: "Queue a single URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()

			return ctx.withSession(cmd.Context(), func(sess *session) error {
				entry, position, err := sess.list.Add(cmd.Context(), url, requesterMeta(requester, requesterID))
				if err != nil {
					var wrongType *playlist.WrongEntryTypeError
					if errors.As(err, &wrongType) {
						return fmt.Errorf("%s is a playlist; use `jukebox import %s`", url, wrongType.AlternateURL)
					}
					return err
				}

				fmt.Fprintf(out, "Queued %q at position %d\n", entry.Title(), position)
				if estimate := sess.list.EstimateWait(position, nil); estimate > 0 {
					fmt.Fprintf(out, "Estimated wait: %s\n", formatDuration(estimate))
				}

				if wait {
					ready, err := entry.Ready().Wait(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Downloaded to %s\n", ready.Filename())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&requester, "requester", "", "Name of the person requesting the entry")
	cmd.Flags().StringVar(&requesterID, "requester-id", "", "Stable identifier of the requester")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the entry finishes downloading")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var requester string
	var requesterID string
	var flat bool

	cmd := &cobra.Command{
		Use:   "import URL",
		Short: "Queue every item of a playlist URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()

			return ctx.withSession(cmd.Context(), func(sess *session) error {
				meta := requesterMeta(requester, requesterID)
				var (
					added []*playlist.Entry
					start int
					err   error
				)
				if flat {
					added, start, err = sess.list.ImportStreamingCollection(cmd.Context(), url, meta)
				} else {
					added, start, err = sess.list.ImportCollection(cmd.Context(), url, meta)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Queued %d entries starting at position %d\n", len(added), start)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&requester, "requester", "", "Name of the person requesting the entries")
	cmd.Flags().StringVar(&requesterID, "requester-id", "", "Stable identifier of the requester")
	cmd.Flags().BoolVar(&flat, "flat", false, "Resolve items one by one instead of up front")
	return cmd
}

func requesterMeta(name, id string) map[string]playlist.MetaRef {
	name = strings.TrimSpace(name)
	id = strings.TrimSpace(id)
	if name == "" && id == "" {
		return nil
	}
	return map[string]playlist.MetaRef{
		playlist.MetaAuthor: {Type: "user", ID: id, Name: name},
	}
}
