// Command clusterlist builds cluster lists for atomic structures and stores
// them as snapshots.
//
//	clusterlist build --structure water.json --max-order 3
//	clusterlist build --structure water.json --config stack.yaml --snapshot-dir ./snaps
//	clusterlist inspect --snapshot-dir ./snaps
//	clusterlist inspect --snapshot-dir ./snaps --key <key>
//	clusterlist version
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
