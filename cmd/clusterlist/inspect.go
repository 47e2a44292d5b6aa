package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/clusterlist/snapshot"
)

func newInspectCmd() *cobra.Command {
	var dir, key string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List stored snapshots or summarise one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				return fmt.Errorf("--snapshot-dir is required")
			}
			store, err := snapshot.Open(snapshot.Options{Dir: dir})
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if key == "" {
				keys, err := store.Keys()
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(out, k)
				}

				return nil
			}

			k, err := snapshot.ParseKey(key)
			if err != nil {
				return err
			}
			snap, err := store.Get(k)
			if err != nil {
				return err
			}
			ghosts := 0
			for _, a := range snap.Atoms {
				if a.Ghost {
					ghosts++
				}
			}
			fmt.Fprintf(out, "key: %s\n", k)
			fmt.Fprintf(out, "fingerprint: %016x\n", snap.Fingerprint)
			fmt.Fprintf(out, "stack: %s list, cutoff %g, max order %d\n", snap.ListType, snap.Cutoff, snap.MaxOrder)
			fmt.Fprintf(out, "atoms: %d real, %d ghosts\n", len(snap.Atoms)-ghosts, ghosts)
			for order := 1; order <= snap.MaxOrder; order++ {
				n, err := snap.NbClusters(order)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "order %d: %d clusters\n", order, n)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "snapshot-dir", "", "snapshot directory")
	cmd.Flags().StringVar(&key, "key", "", "snapshot key; lists all keys when empty")

	return cmd
}
